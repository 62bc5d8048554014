package modem

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client 描述一台 ZTE 设备，每次 Open 建立独立的登录会话
type Client struct {
	base      string
	password  string
	timeout   time.Duration
	transport http.RoundTripper
	location  *time.Location
	causes    DisconnectCauses
	exploits  bool
	now       func() time.Time
}

// Option 客户端选项
type Option func(*Client)

// WithTimeout 单个请求的超时时间，默认 15 秒
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport 替换底层 RoundTripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithLocation 设置短信提交时间所用的时区
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithDisconnectCauses 追加重启时可识别的断连现象
func WithDisconnectCauses(causes ...DisconnectCause) Option {
	return func(c *Client) { c.causes = append(c.causes, causes...) }
}

// WithFirmwareExploits 允许调用依赖固件缺陷的命令
func WithFirmwareExploits() Option {
	return func(c *Client) { c.exploits = true }
}

// New 创建客户端，address 可以是 IP、host:port 或完整 URL
func New(address, password string, opts ...Option) (*Client, error) {
	base, err := baseURL(address)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:     base,
		password: password,
		timeout:  DefaultTimeout,
		location: time.Local,
		causes:   append(DisconnectCauses(nil), DefaultDisconnectCauses...),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address 返回设备的基础 URL
func (c *Client) Address() string {
	return c.base
}

func baseURL(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", &ValidationError{Field: "address", Reason: "is empty"}
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", &ValidationError{Field: "address", Reason: err.Error()}
	}
	if u.Host == "" {
		return "", &ValidationError{Field: "address", Reason: "has no host"}
	}

	return u.Scheme + "://" + u.Host, nil
}
