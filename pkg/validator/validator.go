package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var (
	once  sync.Once
	trans ut.Translator
)

// LazyInitGinValidator 替换 gin 默认 validator 的字段名为 json tag，并注册对应语言的错误翻译
func LazyInitGinValidator(language string) {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enT := en.New()
		uni := ut.New(enT, enT, zh.New())
		if language == "" {
			language = "en"
		}
		t, found := uni.GetTranslator(language)
		if !found {
			t, _ = uni.GetTranslator("en")
			language = "en"
		}

		var err error
		switch language {
		case "zh":
			err = zh_translations.RegisterDefaultTranslations(v, t)
		default:
			err = en_translations.RegisterDefaultTranslations(v, t)
		}
		if err != nil {
			return
		}
		trans = t
	})
}

// Translate 把 binding 错误翻译成可读信息，未初始化或非校验错误时返回原始错误信息
func Translate(err error) string {
	if err == nil {
		return ""
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}
