package modem

import (
	"context"
)

// SetWifi 开关主 Wi-Fi
func (s *Session) SetWifi(ctx context.Context, enabled bool) (Reply, error) {
	return s.expect(ctx, SetWifi{Enabled: enabled}, resultSuccess)
}

// SetWAN 连接或断开移动数据，部分固件的 result 带有后缀
func (s *Session) SetWAN(ctx context.Context, connect bool) (Reply, error) {
	req := SetWAN{Connect: connect}
	cmd, err := req.Command()
	if err != nil {
		return Reply{}, err
	}

	reply, err := s.exchange(ctx, cmd)
	if err != nil {
		return Reply{}, err
	}
	return reply, reply.ExpectContains(cmd.Name, resultSuccess)
}

// ConfigureDDNS 配置动态域名
func (s *Session) ConfigureDDNS(ctx context.Context, cfg DDNS) (Reply, error) {
	return s.expect(ctx, cfg, resultSuccess)
}

// SetFirewall 配置防火墙端口过滤和默认策略
func (s *Session) SetFirewall(ctx context.Context, cfg Firewall) (Reply, error) {
	return s.expect(ctx, cfg, resultSuccess)
}

func (s *Session) expect(ctx context.Context, r Request, literal string) (Reply, error) {
	cmd, err := r.Command()
	if err != nil {
		return Reply{}, err
	}

	reply, err := s.exchange(ctx, cmd)
	if err != nil {
		return Reply{}, err
	}
	return reply, reply.Expect(cmd.Name, literal)
}
