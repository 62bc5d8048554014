package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rehiy/web-zte/config"
	"github.com/rehiy/web-zte/database"
)

// zteDevice 最小化的 goform 设备模拟
type zteDevice struct {
	password string

	mu       sync.Mutex
	messages []map[string]string
	logins   int
	logouts  int
	reboots  int
	sent     []string
	// onList 在一次列表响应之后运行一次，持有锁
	onList func(d *zteDevice)

	srv *httptest.Server
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

func (d *zteDevice) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

func (d *zteDevice) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Method == http.MethodGet {
		_ = json.NewEncoder(w).Encode(map[string]any{"messages": append([]map[string]string{}, d.messages...)})
		if f := d.onList; f != nil {
			d.onList = nil
			f(d)
		}
		return
	}

	switch r.PostForm.Get("goformId") {
	case "LOGIN":
		d.logins++
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
		d.sent = append(d.sent, r.PostForm.Get("Number"))
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

func newServices(t *testing.T, d *zteDevice) *Services {
	t.Helper()
	svc, err := New(d.config())
	if err != nil {
		t.Fatal(err)
	}
	return svc
}
