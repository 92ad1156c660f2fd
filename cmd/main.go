package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	api "receiptrelay/cmd/receiptrelay"
	"receiptrelay/conf"
	"receiptrelay/internal/middleware"
	"receiptrelay/pkg/logger"
)

/*
测试

curl -X POST http://localhost:3000/validate-receipt \
  -H "Content-Type: application/json" \
  -d '{"receipt-data":"MIIT..."}'

curl http://localhost:3000/health
*/

func main() {
	configPath := flag.String("config", "conf/config.yaml", "config file path")
	flag.Parse()

	// .env 不存在时忽略，环境变量优先
	_ = godotenv.Load()

	// 加载配置文件
	appCfg, err := conf.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(&appCfg.Log, appCfg.AppName)

	// 创建并启动服务
	srv := api.NewServer(appCfg)
	srv.RegisterOnShutdown(func() {
		_ = logger.Sync()
	})
	srvRouter := api.InitRouter(appCfg)

	srv.Run(middleware.NewMiddleware(appCfg), srvRouter)
}
