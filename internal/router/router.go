package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"receiptrelay/conf"
	"receiptrelay/internal/handler/ping"
	"receiptrelay/internal/handler/receipt"
	"receiptrelay/internal/middleware"
)

type ApiRouter struct {
	receiptHandler *receipt.Handler
	cfg            *conf.Config
}

func NewApiRouter(rh *receipt.Handler, cfg *conf.Config) *ApiRouter {
	return &ApiRouter{receiptHandler: rh, cfg: cfg}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	g.GET("/ping", ping.Ping())
	g.GET("/health", middleware.NoCache(), ping.Health())

	g.POST("/validate-receipt",
		middleware.NoCache(),
		middleware.AntiDuplicateMiddleware(api.cfg.DuplicateWindow),
		api.receiptHandler.ValidateReceipt())

	if api.cfg.Metrics.Enabled {
		g.GET(api.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
}
