package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"receiptrelay/internal/consts"
	"receiptrelay/pkg/logger"
	"receiptrelay/pkg/response"
)

// Logger 记录请求日志，请求体里有收据数据，只记录长度
func Logger(c *gin.Context) {
	t := time.Now()
	reqPath := c.Request.URL.Path
	reqId := c.GetString(consts.RequestId)
	method := c.Request.Method
	ip := c.ClientIP()

	logger.Info("[Request Start]",
		logger.Pair(consts.RequestId, reqId),
		logger.Pair("host", ip),
		logger.Pair("path", reqPath),
		logger.Pair("method", method),
		logger.Pair("content_length", c.Request.ContentLength))

	c.Next()

	latency := time.Since(t)
	logger.Info("[Request End]",
		logger.Pair(consts.RequestId, reqId),
		logger.Pair("host", ip),
		logger.Pair("path", reqPath),
		logger.Pair("status", c.Writer.Status()),
		logger.Pair("cost", latency))
}

// Recovery 捕获 panic，记录日志后返回500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("[Panic Recovered]",
			logger.Pair(consts.RequestId, c.GetString(consts.RequestId)),
			logger.Pair("path", c.Request.URL.Path),
			logger.Pair("panic", recovered))
		response.Error(c, http.StatusInternalServerError, "Validation failed")
		c.Abort()
	})
}
