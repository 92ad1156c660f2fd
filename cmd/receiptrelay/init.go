package api

import (
	"receiptrelay/conf"
	"receiptrelay/internal/handler/receipt"
	"receiptrelay/internal/router"
	"receiptrelay/internal/service"
	"receiptrelay/pkg/appstore"
)

func InitRouter(cfg *conf.Config) Router {
	client := appstore.NewClient(cfg.Apple.SharedSecret, cfg.Apple.Timeout)
	rs := service.NewReceiptValidator(client, cfg.Apple)
	rh := receipt.NewHandler(rs)

	return router.NewApiRouter(rh, cfg)
}
