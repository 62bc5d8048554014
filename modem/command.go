package modem

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Kind 命令类别
type Kind uint8

const (
	// KindSet 写命令，POST 表单到 set 接口，以 goformId 标识
	KindSet Kind = iota + 1
	// KindGet 读命令，GET 查询 get 接口，以 cmd 标识
	KindGet
)

func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindGet:
		return "get"
	default:
		return "unknown"
	}
}

// Command 一条设备命令
type Command struct {
	Name   string
	Kind   Kind
	Params url.Values
}

// Request 由具体参数结构生成命令，生成时完成参数校验
type Request interface {
	Command() (Command, error)
}

func setCommand(name string, params url.Values) Command {
	return Command{Name: name, Kind: KindSet, Params: params}
}

func getCommand(name string, params url.Values) Command {
	return Command{Name: name, Kind: KindGet, Params: params}
}

// newRequest 将命令编码为 HTTP 请求，调用方需持有会话锁
func (s *Session) newRequest(ctx context.Context, cmd Command) (*http.Request, error) {
	values := url.Values{}
	for k, v := range cmd.Params {
		values[k] = append([]string(nil), v...)
	}
	values.Set("isTest", "false")

	var (
		req *http.Request
		err error
	)

	switch cmd.Kind {
	case KindSet:
		values.Set("goformId", cmd.Name)
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, s.base+endpointSet, strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
		}
	case KindGet:
		values.Set("cmd", cmd.Name)
		values.Set("_", strconv.FormatInt(s.nextToken(), 10))
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, s.base+endpointGet+"?"+values.Encode(), nil)
	default:
		return nil, &ValidationError{Field: "command", Reason: fmt.Sprintf("%s has no kind", cmd.Name)}
	}

	if err != nil {
		return nil, &ValidationError{Field: "address", Reason: err.Error()}
	}

	// 缺少 Referer 时设备会拒绝请求
	req.Header.Set("Referer", s.base+refererPath)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return req, nil
}

// nextToken 返回防缓存参数，毫秒时间戳且在会话内严格递增
func (s *Session) nextToken() int64 {
	token := s.client.now().UnixMilli()
	if token <= s.lastToken {
		token = s.lastToken + 1
	}
	s.lastToken = token
	return token
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
