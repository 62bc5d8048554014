package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/rehiy/web-zte/config"
	"github.com/rehiy/web-zte/handler"
	"github.com/rehiy/web-zte/service"
)

// Apply 创建网关路由
func Apply(cfg *config.Config, svc *service.Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(handler.RequestID, handler.Logger(log.Logger), handler.Recoverer)

	r.HandleFunc("/", handler.Status(svc.Modem)).Methods("GET")
	MaintenanceRegister(r, svc, cfg.Maintenance.Token)

	// API 路由
	api := r.PathPrefix("/api").Subrouter()
	api.Use(handler.BasicAuth(cfg.API.Username, cfg.API.Password))
	ModemRegister(api, svc, cfg.Modem.FirmwareExploits)
	SmsdbRegister(api, svc)
	WebhookRegister(api, svc)
	SettingRegister(api)

	// WebSocket
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(handler.BasicAuth(cfg.API.Username, cfg.API.Password))
	WebSocketRegister(ws, svc)

	r.NotFoundHandler = handler.RequestID(http.HandlerFunc(handler.NotFound))

	return r
}

func MaintenanceRegister(r *mux.Router, svc *service.Services, token string) {
	th := handler.NewMaintenanceHandler(svc.Modem, token)

	// 定时任务：清空短信并重启
	r.HandleFunc("/maintenance/daily-reboot-and-cleanup", th.DailyRebootAndCleanup).Methods("GET", "POST")
}

func ModemRegister(r *mux.Router, svc *service.Services, exploits bool) {
	mh := handler.NewModemHandler(svc.Modem)

	// 短信读写
	r.HandleFunc("/modem/sms/send", mh.SendSMS).Methods("POST")
	r.HandleFunc("/modem/sms/list", mh.ListSMS).Methods("GET", "POST")
	r.HandleFunc("/modem/sms/delete", mh.DeleteSMS).Methods("POST")

	// 设备操作
	r.HandleFunc("/modem/reboot", mh.Reboot).Methods("POST")
	r.HandleFunc("/modem/wifi", mh.SetWifi).Methods("PUT")
	r.HandleFunc("/modem/wan", mh.SetWAN).Methods("PUT")
	r.HandleFunc("/modem/ddns", mh.ConfigureDDNS).Methods("PUT")
	r.HandleFunc("/modem/firewall", mh.SetFirewall).Methods("PUT")

	// 固件漏洞，仅在配置开启时注册
	if exploits {
		r.HandleFunc("/modem/unsafe/telnet", mh.EnableTelnet).Methods("POST")
		r.HandleFunc("/modem/unsafe/factory-mode", mh.EnableFactoryMode).Methods("POST")
	}
}

func SmsdbRegister(r *mux.Router, svc *service.Services) {
	dh := handler.NewSmsdbHandler(svc.Smsdb, svc.Modem)

	// 短信存储管理
	r.HandleFunc("/smsdb/list", dh.ListSMS).Methods("GET")
	r.HandleFunc("/smsdb/delete", dh.DeleteSMSBatch).Methods("POST")
	r.HandleFunc("/smsdb/sync", dh.SyncSMS).Methods("POST")
}

func WebhookRegister(r *mux.Router, svc *service.Services) {
	wh := handler.NewWebhookHandler(svc.Webhook)

	// Webhook配置管理
	r.HandleFunc("/webhook", wh.CreateWebhook).Methods("POST")
	r.HandleFunc("/webhook/list", wh.ListWebhooks).Methods("GET")
	r.HandleFunc("/webhook/get", wh.GetWebhook).Methods("GET")
	r.HandleFunc("/webhook/update", wh.UpdateWebhook).Methods("PUT")
	r.HandleFunc("/webhook/delete", wh.DeleteWebhook).Methods("DELETE")
	r.HandleFunc("/webhook/test", wh.TestWebhook).Methods("POST")
}

func SettingRegister(r *mux.Router) {
	sh := handler.NewSettingHandler()

	// 设置管理
	r.HandleFunc("/settings", sh.GetSettings).Methods("GET")
	r.HandleFunc("/settings/smsdb", sh.UpdateSmsdbSettings).Methods("PUT")
	r.HandleFunc("/settings/webhook", sh.UpdateWebhookSettings).Methods("PUT")
	r.HandleFunc("/settings/maintenance", sh.UpdateMaintenanceSettings).Methods("PUT")
}

func WebSocketRegister(r *mux.Router, svc *service.Services) {
	ws := handler.NewWebSocketHandler(svc.Events)

	r.HandleFunc("/modem", ws.HandleWebSocket)
}
