package appstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultTimeout = 15 * time.Second
	// 返回体最大读取长度，latest_receipt_info 条目较多时也足够
	maxResponseBytes = 8 << 20
	maxErrorBody     = 512
)

// ErrMalformedResponse 返回体不是合法的 verifyReceipt json
var ErrMalformedResponse = errors.New("appstore: malformed verifyReceipt response")

// HTTPError verifyReceipt 返回了非 2xx 状态码
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("appstore: unexpected http status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	password   string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient 替换默认的 http client，测试中用来指向 httptest server
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient 创建 verifyReceipt 客户端，password 为 App 专用共享密钥，timeout 限制单次请求耗时
func NewClient(password string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify 向指定环境的 verifyReceipt 地址提交收据，只发起一次请求，不做任何重试
func (c *Client) Verify(ctx context.Context, url, receiptData string) (*VerifyResponse, error) {
	reqBody, err := json.Marshal(VerifyRequest{
		ReceiptData:            receiptData,
		Password:               c.password,
		ExcludeOldTransactions: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return decodeVerifyResponse(data)
}

// status 是必填字段，缺失时视为返回体不合法，否则会被当成 0（有效）
func decodeVerifyResponse(data []byte) (*VerifyResponse, error) {
	var wire struct {
		Status            *int            `json:"status"`
		Environment       string          `json:"environment"`
		LatestReceiptInfo json.RawMessage `json:"latest_receipt_info"`
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Status == nil {
		return nil, fmt.Errorf("%w: missing status", ErrMalformedResponse)
	}
	return &VerifyResponse{
		Status:            *wire.Status,
		Environment:       wire.Environment,
		LatestReceiptInfo: wire.LatestReceiptInfo,
	}, nil
}
