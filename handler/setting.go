package handler

import (
	"net/http"

	"github.com/rehiy/web-zte/database"
)

// SettingHandler 设置处理器
type SettingHandler struct{}

// NewSettingHandler 创建新的设置处理器
func NewSettingHandler() *SettingHandler {
	return &SettingHandler{}
}

// GetSettings 获取所有设置
func (h *SettingHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := database.GetSettings()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load settings", err)
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// UpdateSmsdbSettings 更新短信存储设置
func (h *SettingHandler) UpdateSmsdbSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SmsdbEnabled bool `json:"smsdb_enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := database.SetSmsdbEnabled(req.SmsdbEnabled); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update settings", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":        "updated",
		"smsdb_enabled": req.SmsdbEnabled,
	})
}

// UpdateWebhookSettings 更新 Webhook 设置
func (h *SettingHandler) UpdateWebhookSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WebhookEnabled bool `json:"webhook_enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := database.SetWebhookEnabled(req.WebhookEnabled); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update settings", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":          "updated",
		"webhook_enabled": req.WebhookEnabled,
	})
}

// UpdateMaintenanceSettings 更新每日维护设置
func (h *SettingHandler) UpdateMaintenanceSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RebootEnabled *bool `json:"reboot_enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.RebootEnabled == nil {
		respondError(w, http.StatusBadRequest, "missing required parameter: reboot_enabled", nil)
		return
	}

	if err := database.SetMaintenanceRebootEnabled(*req.RebootEnabled); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update settings", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":         "updated",
		"reboot_enabled": *req.RebootEnabled,
		"smsdb_enabled":  database.IsSmsdbEnabled(),
	})
}
