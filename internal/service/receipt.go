package service

import (
	"context"
	"encoding/json"
	"time"

	"receiptrelay/conf"
	"receiptrelay/internal/model"
	"receiptrelay/pkg/appstore"
	"receiptrelay/pkg/errors"
	"receiptrelay/pkg/errors/ecode"
	"receiptrelay/pkg/logger"
	"receiptrelay/pkg/metrics"
)

const (
	MsgReceiptRequired  = "Receipt data is required"
	MsgValidationFailed = "Validation failed"

	envProduction = "production"
	envSandbox    = "sandbox"
)

// ErrMissingReceipt 请求中没有 receipt-data
var ErrMissingReceipt = errors.WithCode(ecode.MissingInputErr, MsgReceiptRequired)

// Verifier 向指定环境地址校验收据，由 appstore.Client 实现，测试中可以替换
type Verifier interface {
	Verify(ctx context.Context, url, receiptData string) (*appstore.VerifyResponse, error)
}

type ReceiptService interface {
	Validate(ctx context.Context, receiptData string) (model.Verdict, error)
}

type ReceiptValidator struct {
	verifier      Verifier
	productionURL string
	sandboxURL    string
	now           func() time.Time
}

func NewReceiptValidator(v Verifier, cfg conf.AppleConfig) *ReceiptValidator {
	return &ReceiptValidator{
		verifier:      v,
		productionURL: cfg.ProductionURL,
		sandboxURL:    cfg.SandboxURL,
		now:           time.Now,
	}
}

// WithClock 替换当前时间来源
func (s *ReceiptValidator) WithClock(now func() time.Time) *ReceiptValidator {
	s.now = now
	return s
}

// Validate 先请求生产环境，返回 21007 时改用沙盒环境再请求一次，最多只回退一次
func (s *ReceiptValidator) Validate(ctx context.Context, receiptData string) (model.Verdict, error) {
	if receiptData == "" {
		return model.Verdict{}, ErrMissingReceipt
	}

	resp, err := s.verify(ctx, envProduction, s.productionURL, receiptData)
	if err != nil {
		return model.Verdict{}, err
	}

	if resp.Status == appstore.StatusSandboxReceipt {
		metrics.IncSandboxFallback()
		logger.Info("[receipt] sandbox receipt, retry against sandbox",
			logger.Pair("status", resp.Status))
		resp, err = s.verify(ctx, envSandbox, s.sandboxURL, receiptData)
		if err != nil {
			return model.Verdict{}, err
		}
	}

	verdict := model.Verdict{
		IsValid:           IsSubscriptionActive(resp, s.now()),
		Status:            resp.Status,
		Environment:       resp.Environment,
		LatestReceiptInfo: json.RawMessage(resp.LatestReceiptInfo),
	}
	metrics.IncVerdict(verdict.IsValid)
	return verdict, nil
}

func (s *ReceiptValidator) verify(ctx context.Context, env, url, receiptData string) (*appstore.VerifyResponse, error) {
	resp, err := s.verifier.Verify(ctx, url, receiptData)
	if err != nil {
		metrics.IncVendorCall(env, "error")
		return nil, errors.Wrap(err, ecode.UpstreamValidationErr, MsgValidationFailed)
	}
	if resp == nil {
		metrics.IncVendorCall(env, "error")
		return nil, errors.Wrap(appstore.ErrMalformedResponse, ecode.UpstreamValidationErr, MsgValidationFailed)
	}
	metrics.IncVendorCall(env, "ok")
	return resp, nil
}

// IsSubscriptionActive status 为 0 且 latest_receipt_info 中至少有一条记录的过期时间晚于当前时间（按秒截断）
func IsSubscriptionActive(resp *appstore.VerifyResponse, now time.Time) bool {
	if resp == nil || resp.Status != appstore.StatusOK {
		return false
	}
	records, ok := resp.TransactionRecords()
	if !ok {
		return false
	}
	// expires_ms / 1000 > now_sec  等价于  expires_ms > now_sec * 1000
	nowMs := now.Unix() * 1000
	for _, r := range records {
		if expiresMs, ok := r.ExpiresDateMs(); ok && expiresMs > nowMs {
			return true
		}
	}
	return false
}
