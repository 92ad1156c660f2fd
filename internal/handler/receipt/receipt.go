package receipt

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"receiptrelay/internal/consts"
	"receiptrelay/internal/model"
	"receiptrelay/internal/service"
	"receiptrelay/pkg/errors"
	"receiptrelay/pkg/errors/ecode"
	"receiptrelay/pkg/logger"
	"receiptrelay/pkg/response"
	"receiptrelay/pkg/validator"
)

type Handler struct {
	service service.ReceiptService
}

func NewHandler(s service.ReceiptService) *Handler {
	return &Handler{service: s}
}

// @Summary		App Store 收据校验
// @description	转发收据到 verifyReceipt，生产环境返回 21007 时回退到沙盒环境，并判断订阅是否仍然有效
// @Accept			application/json
// @Produce		application/json
// @Param			object	body		model.ValidateReceiptReq	true	"收据"
// @Success		200		{object}	model.Verdict
// @Failure		400		{object}	model.ErrorRes
// @Failure		500		{object}	model.ErrorRes
// @Router			/validate-receipt [post]
func (h *Handler) ValidateReceipt() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.ValidateReceiptReq
		if err := ctx.ShouldBindWith(&req, binding.JSON); err != nil {
			logger.Warn("[receipt] invalid request",
				logger.Pair(consts.RequestId, ctx.GetString(consts.RequestId)),
				logger.Pair("reason", validator.Translate(err)))
			response.JSON(ctx, service.ErrMissingReceipt, nil)
			return
		}

		verdict, err := h.service.Validate(ctx.Request.Context(), req.ReceiptData)
		if err != nil {
			if !errors.IsCode(err, ecode.MissingInputErr) {
				logger.Error("[receipt] validation failed",
					logger.Pair(consts.RequestId, ctx.GetString(consts.RequestId)),
					logger.Err(err))
			}
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, verdict)
	}
}
