package errors

import (
	stderrors "errors"
	"fmt"

	"receiptrelay/pkg/errors/ecode"
)

// Error 携带错误码的错误，Message 是可以返回给客户端的信息，cause 只用于日志
type Error struct {
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code=%d msg=%s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("code=%d msg=%s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode 创建一个带错误码的错误
func WithCode(code int, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap 包装底层错误，保留原始错误链
func Wrap(err error, code int, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// DecodeErr 解析错误码和提示信息，nil 表示成功
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code, e.Message
	}
	return ecode.Unknown, err.Error()
}

// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, code int) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func New(text string) error {
	return stderrors.New(text)
}
