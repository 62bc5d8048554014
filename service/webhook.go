package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rehiy/web-zte/config"
	"github.com/rehiy/web-zte/database"
	"github.com/rehiy/web-zte/models"
)

// WebhookService webhook服务
type WebhookService struct {
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	concurrency int
	cacheTTL    time.Duration

	cacheMu   sync.RWMutex
	cache     []models.Webhook
	cacheTime time.Time
}

// NewWebhookService 创建webhook服务
func NewWebhookService(cfg config.WebhookConfig) *WebhookService {
	w := &WebhookService{
		client:      &http.Client{Timeout: cfg.Timeout},
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		concurrency: cfg.Concurrency,
		cacheTTL:    cfg.CacheTTL,
	}
	if w.maxRetries <= 0 {
		w.maxRetries = 1
	}
	if w.concurrency <= 0 {
		w.concurrency = 1
	}
	return w
}

// InvalidateCache 配置变更后丢弃缓存的webhook列表
func (w *WebhookService) InvalidateCache() {
	w.cacheMu.Lock()
	w.cache = nil
	w.cacheTime = time.Time{}
	w.cacheMu.Unlock()
}

// getCachedWebhooks 获取缓存的webhook列表
func (w *WebhookService) getCachedWebhooks() ([]models.Webhook, error) {
	w.cacheMu.RLock()
	if time.Since(w.cacheTime) < w.cacheTTL && len(w.cache) > 0 {
		webhooks := w.cache
		w.cacheMu.RUnlock()
		return webhooks, nil
	}
	w.cacheMu.RUnlock()

	// 缓存过期或为空，重新查询
	webhooks, err := database.GetEnabledWebhookList()
	if err != nil {
		return nil, err
	}

	w.cacheMu.Lock()
	w.cache = webhooks
	w.cacheTime = time.Now()
	w.cacheMu.Unlock()

	return webhooks, nil
}

// TriggerWebhooks 触发所有启用的webhook，返回成功推送的数量
func (w *WebhookService) TriggerWebhooks(ctx context.Context, sms *models.SMS) (int, error) {
	if !database.IsWebhookEnabled() {
		return 0, nil
	}

	logger := zerolog.Ctx(ctx).With().Str("module", "webhook").Logger()

	webhooks, err := w.getCachedWebhooks()
	if err != nil {
		return 0, fmt.Errorf("failed to get enabled webhooks: %w", err)
	}
	if len(webhooks) == 0 {
		logger.Debug().Msg("no enabled webhooks found")
		return 0, nil
	}

	// 使用并发控制触发webhook
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	semaphore := make(chan struct{}, w.concurrency)

	for _, webhook := range webhooks {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(wh models.Webhook) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := w.triggerWebhook(ctx, &wh, sms); err == nil {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}(webhook)
	}

	wg.Wait()
	logger.Info().Int("delivered", delivered).Int("total", len(webhooks)).Msg("webhooks triggered")

	return delivered, nil
}

// triggerWebhook 触发单个webhook，网络错误和 5xx 时按指数退避重试
func (w *WebhookService) triggerWebhook(ctx context.Context, webhook *models.Webhook, sms *models.SMS) error {
	logger := zerolog.Ctx(ctx).With().Str("module", "webhook").Str("webhook", webhook.Name).Logger()

	// 模板错误不重试
	payload, err := w.preparePayload(ctx, webhook, sms)
	if err != nil {
		logger.Error().Err(err).Msg("failed to prepare payload")
		return err
	}

	retryDelay := w.retryDelay
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Debug().Int("attempt", attempt).Dur("delay", retryDelay).Msg("retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
			retryDelay *= 2
		}

		status, err := w.post(ctx, webhook.URL, payload)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("failed to send request")
			continue
		}

		if status >= 200 && status < 300 {
			logger.Info().Int("status", status).Msg("webhook delivered")
			return nil
		}

		logger.Warn().Int("status", status).Int("attempt", attempt+1).Msg("webhook rejected")
		if status < 500 {
			return fmt.Errorf("webhook %s answered status %d", webhook.Name, status)
		}
	}

	logger.Error().Int("attempts", w.maxRetries).Msg("all attempts failed")
	return fmt.Errorf("failed to trigger webhook %s after %d attempts", webhook.Name, w.maxRetries)
}

func (w *WebhookService) post(ctx context.Context, url string, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Web-ZTE/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// preparePayload 准备webhook payload
func (w *WebhookService) preparePayload(ctx context.Context, webhook *models.Webhook, sms *models.SMS) ([]byte, error) {
	if webhook.Template == "" || webhook.Template == "{}" {
		return w.getDefaultPayload(sms)
	}

	var template map[string]any
	if err := json.Unmarshal([]byte(webhook.Template), &template); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("module", "webhook").Str("webhook", webhook.Name).
			Msg("invalid template, using default")
		return w.getDefaultPayload(sms)
	}

	return json.Marshal(w.replaceTemplateVariables(template, templateVariables(sms)))
}

// getDefaultPayload 获取默认payload
func (w *WebhookService) getDefaultPayload(sms *models.SMS) ([]byte, error) {
	payload := map[string]any{
		"event": "sms_received",
		"data": map[string]any{
			"id":             sms.ID,
			"device_id":      sms.DeviceID,
			"content":        sms.Content,
			"receive_time":   sms.ReceiveTime.Format(time.RFC3339),
			"receive_number": sms.ReceiveNumber,
			"send_number":    sms.SendNumber,
			"direction":      sms.Direction,
			"modem_name":     sms.ModemName,
		},
		"timestamp": time.Now().Unix(),
	}

	return json.Marshal(payload)
}

func templateVariables(sms *models.SMS) *strings.Replacer {
	return strings.NewReplacer(
		"{{content}}", sms.Content,
		"{{device_id}}", sms.DeviceID,
		"{{message_id}}", sms.MessageID,
		"{{receive_time}}", sms.ReceiveTime.Format(time.RFC3339),
		"{{receive_number}}", sms.ReceiveNumber,
		"{{send_number}}", sms.SendNumber,
		"{{direction}}", sms.Direction,
		"{{modem_name}}", sms.ModemName,
	)
}

// replaceTemplateVariables 替换模板中的变量
func (w *WebhookService) replaceTemplateVariables(value any, vars *strings.Replacer) any {
	switch v := value.(type) {
	case string:
		return vars.Replace(v)
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, item := range v {
			result[key] = w.replaceTemplateVariables(item, vars)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = w.replaceTemplateVariables(item, vars)
		}
		return result
	default:
		return value
	}
}

// TestWebhook 向webhook推送一条测试短信
func (w *WebhookService) TestWebhook(ctx context.Context, webhook *models.Webhook) error {
	testSMS := &models.SMS{
		DeviceID:      "0",
		Content:       "Test webhook message",
		ReceiveTime:   time.Now(),
		ReceiveNumber: "+5511999999999",
		SendNumber:    "+5511988887777",
		Direction:     models.DirectionIn,
		ModemName:     "test",
	}

	return w.triggerWebhook(ctx, webhook, testSMS)
}

// HandleIncomingSMS 异步触发webhook，不阻塞调用方
func (w *WebhookService) HandleIncomingSMS(sms *models.SMS) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("module", "webhook").Interface("panic", r).Msg("panic recovered")
			}
		}()

		ctx := log.Logger.WithContext(context.Background())
		if _, err := w.TriggerWebhooks(ctx, sms); err != nil {
			log.Error().Err(err).Str("module", "webhook").Msg("failed to trigger webhooks")
		}
	}()
}
