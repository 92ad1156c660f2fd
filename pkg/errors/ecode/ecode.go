package ecode

import "net/http"

// 业务错误码，0 表示成功
const (
	Success               = 0
	Unknown               = 10000
	MissingInputErr       = 10001
	UpstreamValidationErr = 10002
	TooManyRequests       = 10003
)

var httpStatus = map[int]int{
	Success:               http.StatusOK,
	Unknown:               http.StatusInternalServerError,
	MissingInputErr:       http.StatusBadRequest,
	UpstreamValidationErr: http.StatusInternalServerError,
	TooManyRequests:       http.StatusTooManyRequests,
}

// HTTPStatus 返回错误码对应的http状态码，未登记的错误码按500处理
func HTTPStatus(code int) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
