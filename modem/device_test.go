package modem

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

const sessionCookie = "zwsd"

// fakeDevice 模拟 ZTE 设备的 goform 接口
type fakeDevice struct {
	password string

	mu        sync.Mutex
	messages  []map[string]string
	failIDs   map[string]bool
	reboot    func(w http.ResponseWriter)
	sendReply string
	calls     []url.Values
	headers   []http.Header
	logouts   int
	deleted   []string

	srv *httptest.Server
}

func newFakeDevice(t *testing.T, password string) *fakeDevice {
	t.Helper()

	d := &fakeDevice{password: password, failIDs: map[string]bool{}}
	d.srv = httptest.NewServer(d)
	t.Cleanup(d.srv.Close)
	return d
}

func (d *fakeDevice) client(t *testing.T, opts ...Option) *Client {
	t.Helper()

	c, err := New(d.srv.URL, d.password, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func (d *fakeDevice) open(t *testing.T, opts ...Option) *Session {
	t.Helper()

	s, err := d.client(t, opts...).Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

// callsFor 返回某个 goformId 或 cmd 的全部请求参数
func (d *fakeDevice) callsFor(name string) []url.Values {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []url.Values
	for _, c := range d.calls {
		if c.Get("goformId") == name || c.Get("cmd") == name {
			out = append(out, c)
		}
	}
	return out
}

func (d *fakeDevice) logoutCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logouts
}

func (d *fakeDevice) deletedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.deleted...)
}

func (d *fakeDevice) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Referer") != "http://"+r.Host+refererPath {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d.mu.Lock()
	d.calls = append(d.calls, r.Form)
	d.headers = append(d.headers, r.Header.Clone())
	d.mu.Unlock()

	authed := false
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value == "ok" {
		authed = true
	}

	w.Header().Set("Content-Type", "text/html")

	switch {
	case r.URL.Path == endpointSet && r.Method == http.MethodPost:
		d.handleSet(w, r.PostForm, authed)
	case r.URL.Path == endpointGet && r.Method == http.MethodGet:
		d.handleGet(w, r.URL.Query(), authed)
	default:
		http.NotFound(w, r)
	}
}

func (d *fakeDevice) handleSet(w http.ResponseWriter, form url.Values, authed bool) {
	id := form.Get("goformId")
	if id != cmdLogin && id != cmdLogout && !authed {
		fmt.Fprint(w, `{"result":"failure"}`)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch id {
	case cmdLogin:
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "ok", Path: "/"})
		pw, _ := base64.StdEncoding.DecodeString(form.Get("password"))
		if string(pw) != d.password {
			fmt.Fprint(w, `{"result":"3"}`)
			return
		}
		fmt.Fprint(w, `{"result":"0"}`)
	case cmdLogout:
		d.logouts++
		fmt.Fprint(w, `{"result":"success"}`)
	case cmdSendSMS:
		if d.sendReply != "" {
			fmt.Fprint(w, d.sendReply)
			return
		}
		fmt.Fprint(w, `{"result":"success"}`)
	case cmdDeleteSMS:
		msgID := form.Get("msg_id")
		if d.failIDs[msgID] {
			fmt.Fprint(w, `{"result":"failure"}`)
			return
		}
		d.deleted = append(d.deleted, msgID)
		fmt.Fprint(w, `{"result":"success"}`)
	case cmdReboot:
		if d.reboot != nil {
			d.reboot(w)
			return
		}
		fmt.Fprint(w, `{"result":"success"}`)
	case cmdConnectWAN, cmdDisconnectWAN:
		fmt.Fprint(w, `{"result":"success_"}`)
	default:
		fmt.Fprint(w, `{"result":"success"}`)
	}
}

func (d *fakeDevice) handleGet(w http.ResponseWriter, query url.Values, authed bool) {
	if query.Get("cmd") != cmdListSMS {
		fmt.Fprint(w, `{}`)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	messages := d.messages
	if !authed || messages == nil {
		messages = []map[string]string{}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"messages": messages})
}

// hangup 读完请求后直接断开连接，模拟设备重启
func hangup(w http.ResponseWriter) {
	conn, _, err := w.(http.Hijacker).Hijack()
	if err == nil {
		_ = conn.Close()
	}
}
