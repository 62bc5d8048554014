package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/rehiy/web-zte/database"
	"github.com/rehiy/web-zte/models"
	"github.com/rehiy/web-zte/service"
)

// SmsdbHandler 短信存储处理器
type SmsdbHandler struct {
	smsdb *service.SmsdbService
	ms    *service.ModemService
}

// NewSmsdbHandler 创建新的短信存储处理器
func NewSmsdbHandler(smsdb *service.SmsdbService, ms *service.ModemService) *SmsdbHandler {
	return &SmsdbHandler{smsdb: smsdb, ms: ms}
}

// ListSMS 获取数据库中的短信列表
func (h *SmsdbHandler) ListSMS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.SMSFilter{
		Direction:  q.Get("direction"),
		SendNumber: q.Get("send_number"),
		ModemName:  q.Get("modem_name"),
		Limit:      50,
	}

	if t, err := time.Parse(time.RFC3339, q.Get("start_time")); err == nil {
		filter.StartTime = t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("end_time")); err == nil {
		filter.EndTime = t
	}

	// 分页参数
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l <= 200 {
		filter.Limit = l
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		filter.Offset = o
	}

	smsList, total, err := database.GetSMSList(filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to query messages", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status": "success",
		"data":   smsList,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// DeleteSMSBatch 批量删除数据库中的短信
func (h *SmsdbHandler) DeleteSMSBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "no IDs provided", nil)
		return
	}

	n, err := database.BatchDeleteSMS(req.IDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete messages", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status": "success",
		"count":  n,
	})
}

// SyncSMS 从设备同步收到的短信到数据库
func (h *SmsdbHandler) SyncSMS(w http.ResponseWriter, r *http.Request) {
	if !h.smsdb.Enabled() {
		respondError(w, http.StatusConflict, "SMS storage is disabled", nil)
		return
	}

	result, err := h.smsdb.SyncSMSToDB(r.Context(), h.ms)
	if err != nil {
		respondModemError(w, r, "failed to sync messages", err)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Int("total", result.TotalCount).
		Int("new", result.NewCount).
		Msg("SMS synced")
	respondJSON(w, http.StatusOK, H{"status": "success", "result": result})
}
