package response

import (
	"github.com/gin-gonic/gin"

	"receiptrelay/internal/model"
	"receiptrelay/pkg/errors"
	"receiptrelay/pkg/errors/ecode"
)

// 未登记错误码的错误统一返回这个提示，不把内部错误暴露给客户端
const genericMessage = "Validation failed"

// JSON 成功时直接返回 data，失败时按错误码映射http状态码并返回 {"error": message}
func JSON(c *gin.Context, err error, data any) {
	if err == nil {
		c.JSON(ecode.HTTPStatus(ecode.Success), data)
		return
	}
	code, message := errors.DecodeErr(err)
	if code == ecode.Unknown {
		message = genericMessage
	}
	Error(c, ecode.HTTPStatus(code), message)
}

// Error 返回指定状态码和错误信息
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorRes{Error: message})
}

// TooManyRequests 请求频繁，返回429
func TooManyRequests(c *gin.Context) {
	JSON(c, errors.WithCode(ecode.TooManyRequests, "The request is too frequent. Please try again later."), nil)
}
