package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rehiy/web-zte/database"
	"github.com/rehiy/web-zte/events"
	"github.com/rehiy/web-zte/modem"
)

// ModemService 以一次一会话的方式操作设备。
// 每个操作登录、执行、注销，设备同一时间只允许少量会话。
type ModemService struct {
	client *modem.Client
	events *events.EventListener
	smsdb  *SmsdbService
}

// MaintenanceReport 每日维护结果
type MaintenanceReport struct {
	Archived        int                 `json:"archived"`
	SMSCleanup      modem.BulkResult    `json:"sms_cleanup"`
	CleanupError    string              `json:"cleanup_error,omitempty"`
	RebootInitiated bool                `json:"reboot_initiated"`
	RebootSkipped   bool                `json:"reboot_skipped,omitempty"`
	Reboot          modem.RebootOutcome `json:"reboot"`
}

// NewModemService 创建设备服务，smsdb 可以为空
func NewModemService(client *modem.Client, el *events.EventListener, smsdb *SmsdbService) *ModemService {
	if el == nil {
		el = events.NewEventListener()
	}
	return &ModemService{client: client, events: el, smsdb: smsdb}
}

// Name 设备名称，即设备地址
func (m *ModemService) Name() string {
	return m.client.Address()
}

// Events 设备事件广播器
func (m *ModemService) Events() *events.EventListener {
	return m.events
}

// WithSession 打开会话执行 fn，无论结果如何都会注销
func (m *ModemService) WithSession(ctx context.Context, fn func(s *modem.Session) error) error {
	s, err := m.client.Open(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	return fn(s)
}

// SendSMS 发送短信并在启用存储时记录
func (m *ModemService) SendSMS(ctx context.Context, msg modem.SendSMS) (modem.SendResult, error) {
	var res modem.SendResult
	err := m.WithSession(ctx, func(s *modem.Session) (err error) {
		res, err = s.SendSMS(ctx, msg)
		return err
	})
	if err != nil {
		return modem.SendResult{}, err
	}

	if m.smsdb != nil {
		m.smsdb.SaveOutgoing(ctx, m.Name(), res, msg.Text)
	}
	m.events.Publish(events.SMSSent, m.Name(), res)
	return res, nil
}

// ListSMS 读取设备中的短信
func (m *ModemService) ListSMS(ctx context.Context) ([]modem.Message, error) {
	var messages []modem.Message
	err := m.WithSession(ctx, func(s *modem.Session) (err error) {
		messages, err = s.ListSMS(ctx)
		return err
	})
	return messages, err
}

// DeleteSMS 删除单条短信
func (m *ModemService) DeleteSMS(ctx context.Context, id string) error {
	err := m.WithSession(ctx, func(s *modem.Session) error {
		return s.DeleteSMS(ctx, id)
	})
	if err != nil {
		return err
	}

	m.events.Publish(events.SMSDeleted, m.Name(), modem.BulkResult{Deleted: []string{id}, Failed: []string{}})
	return nil
}

// DeleteAllSMS 删除设备中的全部短信
func (m *ModemService) DeleteAllSMS(ctx context.Context) (modem.BulkResult, error) {
	var res modem.BulkResult
	err := m.WithSession(ctx, func(s *modem.Session) (err error) {
		res, err = s.DeleteAllSMS(ctx)
		return err
	})
	if err != nil {
		return modem.BulkResult{}, err
	}

	if res.Total() > 0 {
		m.events.Publish(events.SMSDeleted, m.Name(), res)
	}
	return res, nil
}

// Reboot 重启设备
func (m *ModemService) Reboot(ctx context.Context) (modem.RebootOutcome, error) {
	var outcome modem.RebootOutcome
	err := m.WithSession(ctx, func(s *modem.Session) (err error) {
		outcome, err = s.Reboot(ctx)
		return err
	})
	if err == nil {
		m.events.Publish(events.Reboot, m.Name(), outcome)
	}
	return outcome, err
}

// SetWifi 开关 Wi-Fi
func (m *ModemService) SetWifi(ctx context.Context, enabled bool) (modem.Reply, error) {
	return m.reply(ctx, func(s *modem.Session) (modem.Reply, error) { return s.SetWifi(ctx, enabled) })
}

// SetWAN 连接或断开移动数据
func (m *ModemService) SetWAN(ctx context.Context, connect bool) (modem.Reply, error) {
	return m.reply(ctx, func(s *modem.Session) (modem.Reply, error) { return s.SetWAN(ctx, connect) })
}

// ConfigureDDNS 配置动态域名
func (m *ModemService) ConfigureDDNS(ctx context.Context, cfg modem.DDNS) (modem.Reply, error) {
	return m.reply(ctx, func(s *modem.Session) (modem.Reply, error) { return s.ConfigureDDNS(ctx, cfg) })
}

// SetFirewall 配置防火墙
func (m *ModemService) SetFirewall(ctx context.Context, cfg modem.Firewall) (modem.Reply, error) {
	return m.reply(ctx, func(s *modem.Session) (modem.Reply, error) { return s.SetFirewall(ctx, cfg) })
}

// EnableTelnet 固件漏洞，需在客户端启用
func (m *ModemService) EnableTelnet(ctx context.Context) (modem.Reply, error) {
	return m.reply(ctx, func(s *modem.Session) (modem.Reply, error) { return s.EnableTelnet(ctx) })
}

// EnableFactoryMode 固件漏洞，需在客户端启用
func (m *ModemService) EnableFactoryMode(ctx context.Context) (modem.Reply, error) {
	return m.reply(ctx, func(s *modem.Session) (modem.Reply, error) { return s.EnableFactoryMode(ctx) })
}

func (m *ModemService) reply(ctx context.Context, fn func(s *modem.Session) (modem.Reply, error)) (modem.Reply, error) {
	var reply modem.Reply
	err := m.WithSession(ctx, func(s *modem.Session) (err error) {
		reply, err = fn(s)
		return err
	})
	return reply, err
}

// Maintenance 每日维护：读取一次短信列表，归档（存储启用时）并删除这些短信，然后重启。
// 清理失败不阻止重启，返回的错误只反映重启结果；重启开关关闭时只做清理。
func (m *ModemService) Maintenance(ctx context.Context) (MaintenanceReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("module", "maintenance").Logger()
	var report MaintenanceReport

	err := m.WithSession(ctx, func(s *modem.Session) error {
		// 归档和删除使用同一份列表，之后新到的短信留在设备上
		messages, err := s.ListSMS(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("sms cleanup failed")
			report.CleanupError = err.Error()
			report.SMSCleanup = modem.BulkResult{Deleted: []string{}, Failed: []string{}}
		} else {
			if m.smsdb != nil && m.smsdb.Enabled() {
				report.Archived = m.smsdb.Archive(ctx, m.Name(), messages)
			}
			report.SMSCleanup = s.DeleteMessages(ctx, messages)
		}

		if !database.IsMaintenanceRebootEnabled() {
			report.RebootSkipped = true
			return nil
		}
		outcome, err := s.Reboot(ctx)
		report.Reboot = outcome
		report.RebootInitiated = outcome.State == modem.RebootSucceeded
		return err
	})

	logger.Info().
		Int("archived", report.Archived).
		Int("deleted", len(report.SMSCleanup.Deleted)).
		Int("failed", len(report.SMSCleanup.Failed)).
		Bool("reboot_initiated", report.RebootInitiated).
		Bool("reboot_skipped", report.RebootSkipped).
		Msg("maintenance finished")

	m.events.Publish(events.Maintenance, m.Name(), report)
	return report, err
}
