package middleware

import (
	"github.com/gin-gonic/gin"

	"receiptrelay/conf"
)

// Middleware 全局中间件，实现 Router 接口，需要在业务路由之前加载
type Middleware struct {
	metricsPath string
}

func NewMiddleware(c *conf.Config) *Middleware {
	m := &Middleware{}
	if c.Metrics.Enabled {
		m.metricsPath = c.Metrics.Path
	}
	return m
}

func (m *Middleware) Load(g *gin.Engine) {
	// Recovery 放在 Logger、Metrics 之后，panic 的请求也能记录状态码
	g.Use(RequestId(), Logger, Metrics(m.metricsPath), Recovery(), Secure())
}
