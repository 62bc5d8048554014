package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Session 一次登录的设备会话，持有独占的 cookie。
// 同一会话上的命令串行执行。
type Session struct {
	client *Client
	base   string

	mu        sync.Mutex
	jar       *cookiejar.Jar
	http      *http.Client
	lastToken int64
	closed    bool

	closeOnce sync.Once
}

// Open 建立会话并登录。登录失败时会话已被关闭，不返回会话。
func (c *Client) Open(ctx context.Context) (*Session, error) {
	s, err := c.newSession()
	if err != nil {
		return nil, err
	}

	if err := s.login(ctx); err != nil {
		s.Close(ctx)
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("pkg", "modem").Str("modem", c.base).Msg("session opened")
	return s, nil
}

func (c *Client) newSession() (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Session{
		client: c,
		base:   c.base,
		jar:    jar,
		http: &http.Client{
			Timeout:   c.timeout,
			Transport: c.transport,
			Jar:       jar,
		},
	}, nil
}

func (s *Session) login(ctx context.Context) error {
	reply, err := s.Do(ctx, Login{Password: s.client.password})
	if err != nil {
		return err
	}
	if res := reply.Result(); res != resultLoginOK || !reply.OK() {
		return &AuthError{Result: res}
	}
	return nil
}

// Close 尽力注销并释放 cookie，可重复调用。
// 注销错误（例如会话已过期）只记录不返回，不影响触发关闭的操作结果。
func (s *Session) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()

		if _, err := s.Do(lctx, Logout{}); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("pkg", "modem").Msg("logout failed, ignored")
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		s.jar = nil
		s.http = nil
	})
}

// Cookies 返回会话当前持有的 cookie，关闭后为空
func (s *Session) Cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jar == nil {
		return nil
	}
	u, err := url.Parse(s.base)
	if err != nil {
		return nil
	}
	return s.jar.Cookies(u)
}

// Do 发送命令并解析响应，不检查 result
func (s *Session) Do(ctx context.Context, r Request) (Reply, error) {
	cmd, err := r.Command()
	if err != nil {
		return Reply{}, err
	}
	return s.exchange(ctx, cmd)
}

func (s *Session) exchange(ctx context.Context, cmd Command) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Reply{}, ErrSessionClosed
	}

	logger := zerolog.Ctx(ctx).With().Str("pkg", "modem").Str("command", cmd.Name).Stringer("kind", cmd.Kind).Logger()

	req, err := s.newRequest(ctx, cmd)
	if err != nil {
		return Reply{}, err
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return Reply{}, &TransportError{Command: cmd.Name, Err: err}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			logger.Warn().Err(errClose).Msg("closing response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, &TransportError{Command: cmd.Name, Err: err}
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Int("size", len(body)).Msg("device replied")

	// 非 200 的 JSON 响应交给调用方按 result 判定
	reply, err := decodeReply(cmd.Name, body)
	if err != nil {
		var pe *ProtocolError
		if errors.As(err, &pe) {
			pe.Status = resp.StatusCode
		}
		return Reply{}, err
	}
	reply.status = resp.StatusCode
	return reply, nil
}
