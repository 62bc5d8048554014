package modem

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fastjson"
)

var errNotObject = errors.New("reply is not a JSON object")

// Reply 设备返回的 JSON 对象
type Reply struct {
	value  *fastjson.Value
	raw    string
	status int
}

// decodeReply 去除首尾空白后解析响应体
func decodeReply(command string, body []byte) (Reply, error) {
	clean := bytes.TrimSpace(body)

	v, err := fastjson.ParseBytes(clean)
	if err != nil {
		return Reply{}, &ProtocolError{Command: command, Body: string(body), Err: err}
	}
	if v.Type() != fastjson.TypeObject {
		return Reply{}, &ProtocolError{Command: command, Body: string(body), Err: errNotObject}
	}

	return Reply{value: v, raw: string(clean)}, nil
}

// Get 返回字段的文本形式，字符串和数字同样处理，缺失时为空
func (r Reply) Get(key string) string {
	if r.value == nil {
		return ""
	}
	return textOf(r.value.Get(key))
}

func textOf(v *fastjson.Value) string {
	if v == nil {
		return ""
	}

	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNull:
		return ""
	default:
		return v.String()
	}
}

// Result 返回 result 字段
func (r Reply) Result() string {
	return r.Get("result")
}

// Status 返回 HTTP 状态码，未经网络得到的响应为 0
func (r Reply) Status() int {
	return r.status
}

// OK HTTP 状态是否为 200
func (r Reply) OK() bool {
	return r.status == 0 || r.status == http.StatusOK
}

// Raw 返回去除空白后的原始响应
func (r Reply) Raw() string {
	return r.raw
}

// MarshalJSON 原样输出设备响应
func (r Reply) MarshalJSON() ([]byte, error) {
	if r.raw == "" {
		return []byte("{}"), nil
	}
	return []byte(r.raw), nil
}

// Expect 要求 result 与 literal 完全一致
func (r Reply) Expect(command, literal string) error {
	if res := r.Result(); res != literal || !r.OK() {
		return r.deviceError(command)
	}
	return nil
}

// ExpectContains 要求 result 包含 literal，部分固件返回 "success" 之外的后缀
func (r Reply) ExpectContains(command, literal string) error {
	if res := r.Result(); !strings.Contains(res, literal) || !r.OK() {
		return r.deviceError(command)
	}
	return nil
}

// ExpectOK 只要求 HTTP 状态为 200，用于没有 result 字段的读命令
func (r Reply) ExpectOK(command string) error {
	if !r.OK() {
		return r.deviceError(command)
	}
	return nil
}

func (r Reply) deviceError(command string) *DeviceError {
	return &DeviceError{Command: command, Result: r.Result(), Status: r.status, Payload: r.raw}
}

func (r Reply) array(key string) []*fastjson.Value {
	if r.value == nil {
		return nil
	}
	return r.value.GetArray(key)
}
