package modem

import (
	"context"

	"github.com/rs/zerolog"
)

// 以下命令利用未公开的固件缺陷，只在 WithFirmwareExploits 时可用。
// 响应原样返回，不做成功判定。

// EnableTelnet 通过 URL 过滤注入尝试启动 telnetd
func (s *Session) EnableTelnet(ctx context.Context) (Reply, error) {
	return s.exploit(ctx, TelnetInjection{})
}

// EnableFactoryMode 尝试切换到工厂模式
func (s *Session) EnableFactoryMode(ctx context.Context) (Reply, error) {
	return s.exploit(ctx, FactoryMode{Password: s.client.password})
}

func (s *Session) exploit(ctx context.Context, r Request) (Reply, error) {
	if !s.client.exploits {
		return Reply{}, ErrExploitsDisabled
	}
	zerolog.Ctx(ctx).Warn().Str("pkg", "modem").Msg("sending firmware exploit command")
	return s.Do(ctx, r)
}
