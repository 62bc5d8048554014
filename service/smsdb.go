package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rehiy/web-zte/database"
	"github.com/rehiy/web-zte/events"
	"github.com/rehiy/web-zte/models"
	"github.com/rehiy/web-zte/modem"
)

// SmsdbService 短信数据库服务
type SmsdbService struct {
	webhook *WebhookService
	events  *events.EventListener
}

// smsSource 可列出设备短信的来源
type smsSource interface {
	Name() string
	ListSMS(ctx context.Context) ([]modem.Message, error)
}

// SyncResult 同步结果
type SyncResult struct {
	ModemName  string `json:"modemName"`
	TotalCount int    `json:"totalCount"`
	NewCount   int    `json:"newCount"`
}

// NewSmsdbService 创建短信数据库服务
func NewSmsdbService(webhook *WebhookService, el *events.EventListener) *SmsdbService {
	return &SmsdbService{webhook: webhook, events: el}
}

// Enabled 短信存储是否启用
func (s *SmsdbService) Enabled() bool {
	return database.IsSmsdbEnabled()
}

// SyncSMSToDB 从设备同步所有收到的短信到数据库
func (s *SmsdbService) SyncSMSToDB(ctx context.Context, src smsSource) (SyncResult, error) {
	messages, err := src.ListSMS(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("读取短信失败: %w", err)
	}

	return SyncResult{
		ModemName:  src.Name(),
		TotalCount: len(messages),
		NewCount:   s.Archive(ctx, src.Name(), messages),
	}, nil
}

// Archive 保存尚未归档的收件短信，新短信会推送给webhook，返回新增数量
func (s *SmsdbService) Archive(ctx context.Context, modemName string, messages []modem.Message) int {
	logger := zerolog.Ctx(ctx).With().Str("module", "smsdb").Str("modem", modemName).Logger()
	newCount := 0

	for _, m := range messages {
		if !isReceived(m) {
			continue
		}
		sms := messageToModelSMS(m, modemName)

		// 检查是否已存在
		_, err := database.FindDeviceSMS(modemName, sms.DeviceID, sms.SendNumber, sms.Content)
		if err == nil {
			logger.Debug().Str("msg_id", m.ID).Msg("SMS already archived, skipping")
			continue
		}
		if !errors.Is(err, database.ErrSMSNotFound) {
			logger.Error().Err(err).Str("msg_id", m.ID).Msg("failed to look up SMS")
			continue
		}

		if err := database.CreateSMS(sms); err != nil {
			logger.Error().Err(err).Str("msg_id", m.ID).Msg("failed to save SMS")
			continue
		}

		newCount++
		logger.Info().Str("msg_id", m.ID).Str("from", m.Number).Msg("SMS archived")

		if s.events != nil {
			s.events.Publish(events.SMSReceived, modemName, sms)
		}
		if s.webhook != nil {
			s.webhook.HandleIncomingSMS(sms)
		}
	}

	return newCount
}

// SaveOutgoing 记录通过网关发出的短信，存储关闭时忽略
func (s *SmsdbService) SaveOutgoing(ctx context.Context, modemName string, res modem.SendResult, text string) {
	if !s.Enabled() {
		return
	}

	sms := &models.SMS{
		MessageID:     res.MessageID,
		Content:       text,
		ReceiveTime:   time.Now(),
		ReceiveNumber: strings.TrimSpace(res.Recipient),
		Direction:     models.DirectionOut,
		ModemName:     modemName,
	}
	if err := database.CreateSMS(sms); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("module", "smsdb").Msg("failed to save outgoing SMS")
	}
}
