package ping

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"receiptrelay/internal/consts"
	"receiptrelay/internal/model"
)

// Ping 启动自检用
func Ping() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "\r\nSuccess")
	}
}

// Health 健康检查，timestamp 为 ISO-8601 UTC 时间
func Health() gin.HandlerFunc {
	return HealthWithClock(time.Now)
}

func HealthWithClock(now func() time.Time) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, model.HealthRes{
			Status:    "OK",
			Timestamp: now().UTC().Format(consts.ISOTimeLayoutMs),
		})
	}
}
