package appstore

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// verifyReceipt 返回的状态码，文档：https://developer.apple.com/documentation/appstorereceipts/status
const (
	// StatusOK 收据有效
	StatusOK = 0
	// StatusSandboxReceipt 沙盒环境的收据被发送到了生产环境，需要改用沙盒地址重新校验
	StatusSandboxReceipt = 21007
)

// VerifyRequest verifyReceipt 请求体
type VerifyRequest struct {
	ReceiptData            string `json:"receipt-data"`
	Password               string `json:"password"`
	ExcludeOldTransactions bool   `json:"exclude-old-transactions"`
}

// VerifyResponse verifyReceipt 返回体中本服务关心的字段
// LatestReceiptInfo 保留原始 json，原样透传给调用方
type VerifyResponse struct {
	Status            int             `json:"status"`
	Environment       string          `json:"environment"`
	LatestReceiptInfo json.RawMessage `json:"latest_receipt_info"`
}

// TransactionRecord latest_receipt_info 中的一条交易记录
type TransactionRecord map[string]any

// ExpiresDateMs 过期时间（毫秒时间戳），字段缺失或不是整数时返回 false
// 字符串只接受十进制整数（允许首尾空白），不接受 0x、下划线、小数
func (r TransactionRecord) ExpiresDateMs() (int64, bool) {
	v, ok := r["expires_date_ms"]
	if !ok || v == nil {
		return 0, false
	}
	if s, isStr := v.(string); isStr {
		ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, false
		}
		return ms, true
	}
	ms, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// TransactionRecords 解析 latest_receipt_info
// 字段缺失、为 null 或者不是数组时第二个返回值为 false；数组中不是对象的元素会被跳过
func (r *VerifyResponse) TransactionRecords() ([]TransactionRecord, bool) {
	if r == nil || len(r.LatestReceiptInfo) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(r.LatestReceiptInfo, &items); err != nil || items == nil {
		return nil, false
	}
	records := make([]TransactionRecord, 0, len(items))
	for _, item := range items {
		var rec TransactionRecord
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			continue
		}
		records = append(records, rec)
	}
	return records, true
}
