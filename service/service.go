package service

import (
	"github.com/rehiy/web-zte/config"
	"github.com/rehiy/web-zte/events"
	"github.com/rehiy/web-zte/modem"
)

// Services 网关使用的全部服务
type Services struct {
	Modem   *ModemService
	Smsdb   *SmsdbService
	Webhook *WebhookService
	Events  *events.EventListener
}

// New 根据配置创建设备客户端和服务，数据库需已初始化
func New(cfg *config.Config, opts ...modem.Option) (*Services, error) {
	options := []modem.Option{
		modem.WithTimeout(cfg.Modem.Timeout),
		modem.WithLocation(cfg.Modem.TimeLocation()),
	}
	if cfg.Modem.FirmwareExploits {
		options = append(options, modem.WithFirmwareExploits())
	}
	options = append(options, opts...)

	client, err := modem.New(cfg.Modem.Address, cfg.Modem.Password, options...)
	if err != nil {
		return nil, err
	}

	el := events.NewEventListener()
	webhook := NewWebhookService(cfg.Webhook)
	smsdb := NewSmsdbService(webhook, el)

	return &Services{
		Modem:   NewModemService(client, el, smsdb),
		Smsdb:   smsdb,
		Webhook: webhook,
		Events:  el,
	}, nil
}
