package model

import "encoding/json"

// ValidateReceiptReq POST /validate-receipt 请求体
type ValidateReceiptReq struct {
	ReceiptData string `json:"receipt-data" binding:"required"`
}

// Verdict 收据校验结果，status、environment、latest_receipt_info 原样来自最终一次 verifyReceipt 返回
type Verdict struct {
	IsValid           bool            `json:"isValid"`
	Status            int             `json:"status"`
	Environment       string          `json:"environment"`
	LatestReceiptInfo json.RawMessage `json:"latest_receipt_info"`
}

type ErrorRes struct {
	Error string `json:"error"`
}

type HealthRes struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
