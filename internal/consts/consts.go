package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	HeaderRequestId = "X-Request-Id"
)

// ISOTimeLayoutMs ISO-8601 毫秒精度，UTC 输出为 Z 结尾
const ISOTimeLayoutMs = "2006-01-02T15:04:05.000Z07:00"
