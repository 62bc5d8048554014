package handler

import (
	"net/http"
	"time"

	"github.com/rehiy/web-zte/service"
)

// MaintenanceHandler 定时任务调用的维护接口
type MaintenanceHandler struct {
	ms    *service.ModemService
	token string
}

// NewMaintenanceHandler 创建维护处理器，token 为空时拒绝所有请求
func NewMaintenanceHandler(ms *service.ModemService, token string) *MaintenanceHandler {
	return &MaintenanceHandler{ms: ms, token: token}
}

// DailyRebootAndCleanup 清空设备短信并重启
func (h *MaintenanceHandler) DailyRebootAndCleanup(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if h.token == "" || token == "" || !equal(token, h.token) {
		respondError(w, http.StatusUnauthorized, "unauthorized: invalid or missing token", nil)
		return
	}

	report, err := h.ms.Maintenance(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "daily maintenance failed", err, H{
			"report":    report,
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":    "success",
		"message":   "daily maintenance completed",
		"details":   report,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Status 服务状态
func Status(ms *service.ModemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, H{
			"status":  "ok",
			"message": "ZTE modem API is online",
			"modem":   ms.Name(),
		})
	}
}
