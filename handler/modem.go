package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rehiy/web-zte/modem"
	"github.com/rehiy/web-zte/service"
)

// ModemHandler 设备接口处理器，每个请求使用独立的设备会话
type ModemHandler struct {
	ms *service.ModemService
}

// NewModemHandler 创建新的设备处理器
func NewModemHandler(ms *service.ModemService) *ModemHandler {
	return &ModemHandler{ms: ms}
}

type sendRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Message      string `json:"message"`
	MessageID    string `json:"messageId"`
}

// SendSMS 发送短信，接受 JSON 或表单
func (h *ModemHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if isForm(r) {
		req = sendRequest{
			MobileNumber: r.PostFormValue("mobileNumber"),
			Message:      r.PostFormValue("message"),
			MessageID:    r.PostFormValue("messageId"),
		}
	} else if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.MessageID == "" {
		req.MessageID = uuid.NewString()
	}
	if strings.TrimSpace(req.MobileNumber) == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "missing required parameters: mobileNumber, message", nil,
			H{"messageId": req.MessageID})
		return
	}

	res, err := h.ms.SendSMS(r.Context(), modem.SendSMS{
		Number:    req.MobileNumber,
		Text:      req.Message,
		MessageID: req.MessageID,
	})
	if err != nil {
		respondModemError(w, r, "failed to send SMS", err, H{"messageId": req.MessageID})
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":    "success",
		"message":   "SMS queued on the modem",
		"messageId": res.MessageID,
		"recipient": res.Recipient,
	})
}

// ListSMS 读取设备中的短信，附带解码后的内容
func (h *ModemHandler) ListSMS(w http.ResponseWriter, r *http.Request) {
	messages, err := h.ms.ListSMS(r.Context())
	if err != nil {
		respondModemError(w, r, "failed to list messages", err)
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":   "success",
		"count":    len(messages),
		"messages": messages,
	})
}

// DeleteSMS 删除短信，id 为 "*" 时删除全部
func (h *ModemHandler) DeleteSMS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if isForm(r) {
		req.ID = r.PostFormValue("id")
	} else if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing required parameter: id", nil)
		return
	}

	if id == "*" {
		res, err := h.ms.DeleteAllSMS(r.Context())
		if err != nil {
			respondModemError(w, r, "failed to delete messages", err)
			return
		}
		respondJSON(w, http.StatusOK, H{
			"status":  "success",
			"message": "bulk delete finished",
			"result":  res,
		})
		return
	}

	if err := h.ms.DeleteSMS(r.Context(), id); err != nil {
		respondModemError(w, r, "failed to delete message", err, H{"id": id})
		return
	}
	respondJSON(w, http.StatusOK, H{"status": "success", "message": "message deleted", "id": id})
}

// Reboot 重启设备，连接被设备断开同样视为成功
func (h *ModemHandler) Reboot(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.ms.Reboot(r.Context())
	if err != nil {
		respondModemError(w, r, "failed to send reboot command", err, H{"reboot": outcome})
		return
	}

	respondJSON(w, http.StatusOK, H{
		"status":  "success",
		"message": outcome.Message,
		"reboot":  outcome,
	})
}

// SetWifi 开关 Wi-Fi
func (h *ModemHandler) SetWifi(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	reply, err := h.ms.SetWifi(r.Context(), req.Enabled)
	h.respondReply(w, r, "wifi", reply, err)
}

// SetWAN 连接或断开移动数据
func (h *ModemHandler) SetWAN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Connect bool `json:"connect"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	reply, err := h.ms.SetWAN(r.Context(), req.Connect)
	h.respondReply(w, r, "wan", reply, err)
}

// ConfigureDDNS 配置动态域名
func (h *ModemHandler) ConfigureDDNS(w http.ResponseWriter, r *http.Request) {
	var req modem.DDNS
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	reply, err := h.ms.ConfigureDDNS(r.Context(), req)
	h.respondReply(w, r, "ddns", reply, err)
}

// SetFirewall 配置防火墙
func (h *ModemHandler) SetFirewall(w http.ResponseWriter, r *http.Request) {
	var req modem.Firewall
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	reply, err := h.ms.SetFirewall(r.Context(), req)
	h.respondReply(w, r, "firewall", reply, err)
}

// EnableTelnet 固件漏洞：开启 telnet
func (h *ModemHandler) EnableTelnet(w http.ResponseWriter, r *http.Request) {
	reply, err := h.ms.EnableTelnet(r.Context())
	h.respondReply(w, r, "telnet", reply, err)
}

// EnableFactoryMode 固件漏洞：切换工厂模式
func (h *ModemHandler) EnableFactoryMode(w http.ResponseWriter, r *http.Request) {
	reply, err := h.ms.EnableFactoryMode(r.Context())
	h.respondReply(w, r, "factory mode", reply, err)
}

func (h *ModemHandler) respondReply(w http.ResponseWriter, r *http.Request, what string, reply modem.Reply, err error) {
	if err != nil {
		respondModemError(w, r, "failed to apply "+what+" settings", err)
		return
	}
	respondJSON(w, http.StatusOK, H{
		"status":  "success",
		"message": what + " settings applied",
		"reply":   reply,
	})
}
