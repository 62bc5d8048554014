package modem

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionClosed 会话关闭后继续发送命令
	ErrSessionClosed = errors.New("modem session closed")
	// ErrExploitsDisabled 未通过 WithFirmwareExploits 启用时调用固件漏洞命令
	ErrExploitsDisabled = errors.New("firmware exploit commands are disabled")
)

// ValidationError 参数校验失败，请求未发出
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError 网络层失败（含超时）
type TransportError struct {
	Command string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Command, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError 响应体不是合法的 JSON 对象
type ProtocolError struct {
	Command string
	// Status 为 HTTP 状态码，非设备响应时为 0
	Status int
	Body   string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: malformed reply%s %q: %v", e.Command, statusText(e.Status), e.Body, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// DeviceError 响应合法但 result 字段不是期望值，或 HTTP 状态不是 200
type DeviceError struct {
	Command string
	Result  string
	Status  int
	Payload string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s: device answered result=%q%s: %s", e.Command, e.Result, statusText(e.Status), e.Payload)
}

func statusText(status int) string {
	if status == 0 || status == http.StatusOK {
		return ""
	}
	return fmt.Sprintf(" (http %d)", status)
}

// AuthError 登录被设备拒绝
type AuthError struct {
	Result string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login rejected (result=%q): check modem address and password", e.Result)
}

// StatusCode 将客户端错误映射为网关应返回的 HTTP 状态码
func StatusCode(err error) int {
	var (
		ve *ValidationError
		ae *AuthError
		te *TransportError
		pe *ProtocolError
		de *DeviceError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve), errors.Is(err, ErrExploitsDisabled):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusServiceUnavailable
	case errors.As(err, &te), errors.As(err, &pe), errors.As(err, &de):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
