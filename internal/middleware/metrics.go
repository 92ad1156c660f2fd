package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"receiptrelay/pkg/metrics"
)

// Metrics 统计请求次数和耗时，route 使用注册的路由模板，未匹配的请求归为 unmatched
func Metrics(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipPath != "" && c.Request.URL.Path == skipPath {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()))
		metrics.ObserveDuration(route, time.Since(start).Seconds())
	}
}
