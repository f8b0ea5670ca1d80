package xerr

import "fmt"

// CodeError 自定义错误结构，Code 与 HTTP 状态码一致
type CodeError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *CodeError) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.Code, e.Message)
}

// New 创建新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Message: msg}
}

// 常用通用错误码
const (
	OK                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
	BadGateway          = 502
	ServiceUnavailable  = 503
)

// 常用预定义错误
var (
	ErrSuccess       = New(OK, "Success")
	ErrServerError   = New(InternalServerError, "internal server error")
	ErrParam         = New(BadRequest, "invalid parameter")
	ErrUnauthorized  = New(Unauthorized, "unauthorized")
	ErrForbidden     = New(Forbidden, "forbidden")
	ErrNotFound      = New(NotFound, "not found")
	ErrMisconfigured = New(InternalServerError, "misconfigured")
	ErrUpstream      = New(BadGateway, "model provider unavailable")
)
