package handler

import (
	"errors"
	"net/http"

	"github.com/rehiy/web-zte/database"
	"github.com/rehiy/web-zte/models"
	"github.com/rehiy/web-zte/service"
)

// WebhookHandler Webhook处理器
type WebhookHandler struct {
	ws *service.WebhookService
}

// NewWebhookHandler 创建新的Webhook处理器
func NewWebhookHandler(ws *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{ws: ws}
}

// CreateWebhook 创建Webhook配置
func (h *WebhookHandler) CreateWebhook(w http.ResponseWriter, r *http.Request) {
	var webhook models.Webhook
	if !readWebhook(w, r, &webhook) {
		return
	}

	if err := database.CreateWebhook(&webhook); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create webhook", err)
		return
	}
	h.ws.InvalidateCache()

	respondJSON(w, http.StatusCreated, webhook)
}

// UpdateWebhook 更新Webhook配置
func (h *WebhookHandler) UpdateWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var webhook models.Webhook
	if !readWebhook(w, r, &webhook) {
		return
	}
	webhook.ID = id

	if err := database.UpdateWebhook(&webhook); err != nil {
		respondWebhookError(w, "failed to update webhook", err)
		return
	}
	h.ws.InvalidateCache()

	respondJSON(w, http.StatusOK, webhook)
}

// DeleteWebhook 删除Webhook配置
func (h *WebhookHandler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := database.DeleteWebhook(id); err != nil {
		respondWebhookError(w, "failed to delete webhook", err)
		return
	}
	h.ws.InvalidateCache()

	respondJSON(w, http.StatusOK, H{
		"status": "deleted",
		"id":     id,
	})
}

// GetWebhook 获取单个Webhook配置
func (h *WebhookHandler) GetWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	webhook, err := database.GetWebhook(id)
	if err != nil {
		respondWebhookError(w, "failed to get webhook", err)
		return
	}

	respondJSON(w, http.StatusOK, webhook)
}

// ListWebhooks 获取所有Webhook配置
func (h *WebhookHandler) ListWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := database.GetWebhookList()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list webhooks", err)
		return
	}

	respondJSON(w, http.StatusOK, webhooks)
}

// TestWebhook 用一条示例短信测试Webhook
func (h *WebhookHandler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := queryID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	webhook, err := database.GetWebhook(id)
	if err != nil {
		respondWebhookError(w, "failed to get webhook", err)
		return
	}

	if err := h.ws.TestWebhook(r.Context(), webhook); err != nil {
		respondError(w, http.StatusBadGateway, "webhook test failed", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":  "success",
		"message": "Webhook test sent successfully",
	})
}

// readWebhook 解析并校验请求体，失败时已写入响应
func readWebhook(w http.ResponseWriter, r *http.Request, webhook *models.Webhook) bool {
	if err := decodeJSON(r, webhook); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}

	if webhook.Name == "" || webhook.URL == "" {
		respondError(w, http.StatusBadRequest, "name and url are required", nil)
		return false
	}

	// 模板为空时使用默认负载
	if webhook.Template == "" {
		webhook.Template = "{}"
	}
	return true
}

func respondWebhookError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, database.ErrWebhookNotFound) {
		respondError(w, http.StatusNotFound, message, err)
		return
	}
	respondError(w, http.StatusInternalServerError, message, err)
}
