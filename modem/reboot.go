package modem

import (
	"context"
	"errors"
	"io"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
)

// DisconnectCause 设备开始重启时主动断开连接的一种表现
type DisconnectCause struct {
	Name  string
	Match func(err error) bool
}

// DisconnectCauses 可识别的断连表现列表
type DisconnectCauses []DisconnectCause

// Lookup 返回第一个匹配 err 的断连表现
func (cs DisconnectCauses) Lookup(err error) (DisconnectCause, bool) {
	if err == nil {
		return DisconnectCause{}, false
	}
	for _, c := range cs {
		if c.Match != nil && c.Match(err) {
			return c, true
		}
	}
	return DisconnectCause{}, false
}

// ErrorCause 以 errors.Is 匹配的断连表现
func ErrorCause(name string, target error) DisconnectCause {
	return DisconnectCause{Name: name, Match: func(err error) bool {
		return errors.Is(err, target)
	}}
}

// MessageCause 以错误文本（不区分大小写）匹配的断连表现
func MessageCause(name, text string) DisconnectCause {
	text = strings.ToLower(text)
	return DisconnectCause{Name: name, Match: func(err error) bool {
		return strings.Contains(strings.ToLower(err.Error()), text)
	}}
}

// DefaultDisconnectCauses 已观察到的固件断连表现
var DefaultDisconnectCauses = DisconnectCauses{
	ErrorCause("empty reply", io.EOF),
	ErrorCause("truncated reply", io.ErrUnexpectedEOF),
	ErrorCause("connection reset", syscall.ECONNRESET),
	ErrorCause("broken pipe", syscall.EPIPE),
	MessageCause("connection reset", "connection reset by peer"),
	MessageCause("empty reply", "empty reply from server"),
}

// Reboot 发送重启命令并判定结果。
// 设备通常在回复前就断开连接，这种情况视为成功。
func (s *Session) Reboot(ctx context.Context) (RebootOutcome, error) {
	reply, err := s.Do(ctx, RebootDevice{})
	outcome, err := ClassifyReboot(reply, err, s.client.causes)

	logger := zerolog.Ctx(ctx)
	if err != nil {
		logger.Error().Err(err).Str("pkg", "modem").Msg("reboot failed")
	} else {
		logger.Info().Str("pkg", "modem").Bool("acknowledged", outcome.Acknowledged).Msg(outcome.Message)
	}
	return outcome, err
}

// ClassifyReboot 根据重启命令的响应或错误给出终态
func ClassifyReboot(reply Reply, err error, causes DisconnectCauses) (RebootOutcome, error) {
	var (
		pe *ProtocolError
		te *TransportError
	)

	switch {
	case err == nil:
		if strings.Contains(reply.Result(), resultSuccess) && reply.OK() {
			return RebootOutcome{
				State:        RebootSucceeded,
				Acknowledged: true,
				Message:      "reboot command acknowledged by the modem",
			}, nil
		}
		return RebootOutcome{State: RebootFailed, Message: "unexpected reply to reboot command"},
			reply.deviceError(cmdReboot)
	case errors.As(err, &pe):
		return presumedReboot("malformed reply"), nil
	case errors.As(err, &te):
		if cause, ok := causes.Lookup(te.Err); ok {
			return presumedReboot(cause.Name), nil
		}
		return RebootOutcome{State: RebootFailed, Message: te.Error()}, err
	default:
		return RebootOutcome{State: RebootFailed, Message: err.Error()}, err
	}
}

func presumedReboot(cause string) RebootOutcome {
	return RebootOutcome{
		State:   RebootSucceeded,
		Message: "reboot command sent, modem closed the connection as expected (" + cause + ")",
	}
}
