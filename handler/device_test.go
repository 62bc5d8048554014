package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rehiy/web-zte/config"
	"github.com/rehiy/web-zte/database"
	"github.com/rehiy/web-zte/service"
)

// zteDevice 模拟 goform 接口的设备
type zteDevice struct {
	password string

	mu       sync.Mutex
	messages []map[string]string
	sendFail bool
	sent     []sentSMS
	logouts  int
	reboots  int
	commands []string

	srv *httptest.Server
}

type sentSMS struct {
	Number string
	Body   string
}

func newZTEDevice(t *testing.T) *zteDevice {
	t.Helper()
	d := &zteDevice{password: "admin"}
	d.srv = httptest.NewServer(d)
	t.Cleanup(d.srv.Close)
	return d
}

func (d *zteDevice) addMessage(id, number, content, tag string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, map[string]string{
		"id": id, "number": number, "content": content, "date": "25,07,13,10,30,00,-3", "tag": tag,
	})
}

func (d *zteDevice) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Method == http.MethodGet {
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": append([]map[string]string{}, d.messages...)})
		return
	}

	goformID := r.PostForm.Get("goformId")
	d.commands = append(d.commands, goformID)

	switch goformID {
	case "LOGIN":
		pw, _ := base64.StdEncoding.DecodeString(r.PostForm.Get("password"))
		if string(pw) != d.password {
			fmt.Fprint(w, `{"result":"3"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "zwsd", Value: "ok", Path: "/"})
		fmt.Fprint(w, `{"result":"0"}`)
	case "LOGOUT":
		d.logouts++
		fmt.Fprint(w, `{"result":"success"}`)
	case "SEND_SMS":
		if d.sendFail {
			fmt.Fprint(w, `{"result":"failure"}`)
			return
		}
		d.sent = append(d.sent, sentSMS{r.PostForm.Get("Number"), r.PostForm.Get("MessageBody")})
		fmt.Fprint(w, `{"result":"success"}`)
	case "DELETE_SMS":
		id := r.PostForm.Get("msg_id")
		kept := d.messages[:0]
		for _, m := range d.messages {
			if m["id"] != id {
				kept = append(kept, m)
			}
		}
		d.messages = kept
		fmt.Fprint(w, `{"result":"success"}`)
	case "REBOOT_DEVICE":
		d.reboots++
		if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
			_ = conn.Close()
		}
	default:
		fmt.Fprint(w, `{"result":"success"}`)
	}
}

func (d *zteDevice) config() *config.Config {
	cfg := config.Default()
	cfg.Modem.Address = d.srv.URL
	cfg.Modem.Password = d.password
	cfg.API.Username = "api"
	cfg.API.Password = "secret"
	cfg.Maintenance.Token = "cron-token"
	cfg.Webhook.RetryDelay = 0
	return cfg
}

func setupDB(t *testing.T) {
	t.Helper()
	if err := database.InitDB(filepath.Join(t.TempDir(), "modem.db")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })
}

func newServices(t *testing.T, cfg *config.Config) *service.Services {
	t.Helper()
	svc, err := service.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

// newTestRouter 以与网关相同的方式挂载处理器，不带认证
func newTestRouter(svc *service.Services, token string) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Logger(zerolog.Nop()), Recoverer)

	mh := NewModemHandler(svc.Modem)
	r.HandleFunc("/modem/sms/send", mh.SendSMS).Methods("POST")
	r.HandleFunc("/modem/sms/list", mh.ListSMS).Methods("GET", "POST")
	r.HandleFunc("/modem/sms/delete", mh.DeleteSMS).Methods("POST")
	r.HandleFunc("/modem/reboot", mh.Reboot).Methods("POST")
	r.HandleFunc("/modem/wifi", mh.SetWifi).Methods("PUT")
	r.HandleFunc("/modem/wan", mh.SetWAN).Methods("PUT")
	r.HandleFunc("/modem/ddns", mh.ConfigureDDNS).Methods("PUT")
	r.HandleFunc("/modem/firewall", mh.SetFirewall).Methods("PUT")
	r.HandleFunc("/modem/unsafe/telnet", mh.EnableTelnet).Methods("POST")

	th := NewMaintenanceHandler(svc.Modem, token)
	r.HandleFunc("/maintenance/daily-reboot-and-cleanup", th.DailyRebootAndCleanup).Methods("POST")

	dh := NewSmsdbHandler(svc.Smsdb, svc.Modem)
	r.HandleFunc("/smsdb/list", dh.ListSMS).Methods("GET")
	r.HandleFunc("/smsdb/delete", dh.DeleteSMSBatch).Methods("POST")
	r.HandleFunc("/smsdb/sync", dh.SyncSMS).Methods("POST")

	wh := NewWebhookHandler(svc.Webhook)
	r.HandleFunc("/webhook", wh.CreateWebhook).Methods("POST")
	r.HandleFunc("/webhook/list", wh.ListWebhooks).Methods("GET")
	r.HandleFunc("/webhook/get", wh.GetWebhook).Methods("GET")
	r.HandleFunc("/webhook/update", wh.UpdateWebhook).Methods("PUT")
	r.HandleFunc("/webhook/delete", wh.DeleteWebhook).Methods("DELETE")
	r.HandleFunc("/webhook/test", wh.TestWebhook).Methods("POST")

	sh := NewSettingHandler()
	r.HandleFunc("/settings", sh.GetSettings).Methods("GET")
	r.HandleFunc("/settings/smsdb", sh.UpdateSmsdbSettings).Methods("PUT")
	r.HandleFunc("/settings/webhook", sh.UpdateWebhookSettings).Methods("PUT")
	r.HandleFunc("/settings/maintenance", sh.UpdateMaintenanceSettings).Methods("PUT")

	return r
}

// do 发送请求并解析 JSON 响应
func do(t *testing.T, h http.Handler, method, target string, body any) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	contentType := "application/json"
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, rd)
	if rd != nil {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s: %v (%q)", method, target, err, rec.Body.String())
	}
	return rec.Code, out
}
