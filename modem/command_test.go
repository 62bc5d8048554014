package modem

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/matryer/is"
)

func testSession(t *testing.T, now time.Time) *Session {
	t.Helper()

	c, err := New("192.168.0.1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return now }

	s, err := c.newSession()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewRequestSet(t *testing.T) {
	is := is.New(t)
	s := testSession(t, time.Now())

	req, err := s.newRequest(context.Background(), setCommand("DELETE_SMS", url.Values{"msg_id": {"12"}}))
	is.NoErr(err)

	is.Equal(req.Method, http.MethodPost)
	is.Equal(req.URL.String(), "http://192.168.0.1/goform/goform_set_cmd_process")
	is.Equal(req.Header.Get("Referer"), "http://192.168.0.1/index.html")
	is.Equal(req.Header.Get("Content-Type"), "application/x-www-form-urlencoded; charset=UTF-8")

	body, err := io.ReadAll(req.Body)
	is.NoErr(err)
	form, err := url.ParseQuery(string(body))
	is.NoErr(err)
	is.Equal(form.Get("goformId"), "DELETE_SMS")
	is.Equal(form.Get("isTest"), "false")
	is.Equal(form.Get("msg_id"), "12")
	is.Equal(req.URL.RawQuery, "")
}

func TestNewRequestGetToken(t *testing.T) {
	is := is.New(t)
	now := time.UnixMilli(1752400000000)
	s := testSession(t, now)

	cmd, err := ListSMS{}.Command()
	is.NoErr(err)

	first, err := s.newRequest(context.Background(), cmd)
	is.NoErr(err)
	second, err := s.newRequest(context.Background(), cmd)
	is.NoErr(err)

	is.Equal(first.Method, http.MethodGet)
	is.Equal(first.URL.Path, endpointGet)
	is.True(first.Body == nil || first.Body == http.NoBody)

	q := first.URL.Query()
	is.Equal(q.Get("cmd"), "sms_data_total")
	is.Equal(q.Get("isTest"), "false")
	is.Equal(q.Get("data_per_page"), "500")
	is.Equal(q.Get("order_by"), "order by id desc")
	is.Equal(q.Get("_"), "1752400000000")

	// same clock reading still yields a fresh token
	is.Equal(second.URL.Query().Get("_"), "1752400000001")
}

func TestCommandParamsNotShared(t *testing.T) {
	is := is.New(t)
	s := testSession(t, time.Now())

	params := url.Values{"msg_id": {"1"}}
	_, err := s.newRequest(context.Background(), setCommand("DELETE_SMS", params))
	is.NoErr(err)
	is.Equal(len(params), 1) // isTest and goformId are not written back
}

func TestSendSMSCommand(t *testing.T) {
	is := is.New(t)
	at := time.Date(2025, 7, 13, 10, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	cmd, err := SendSMS{Number: " 5511999999999 ", Text: "Olá", Time: at}.Command()
	is.NoErr(err)

	is.Equal(cmd.Kind, KindSet)
	is.Equal(cmd.Name, "SEND_SMS")
	is.Equal(cmd.Params.Get("Number"), "5511999999999")
	is.Equal(cmd.Params.Get("MessageBody"), "004f006c00e1")
	is.Equal(cmd.Params.Get("sms_time"), "25;07;13;10;30;00;-3")
	is.Equal(cmd.Params.Get("encode_type"), "UNICODE")
	is.Equal(cmd.Params.Get("ID"), "-1")
}

func TestSMSTimeZones(t *testing.T) {
	is := is.New(t)
	at := time.Date(2025, 7, 13, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		zone *time.Location
		want string
	}{
		{time.UTC, "25;07;13;10;30;00;+0"},
		{time.FixedZone("CST", 8*3600), "25;07;13;18;30;00;+8"},
		{time.FixedZone("BRT", -3*3600), "25;07;13;07;30;00;-3"},
		{time.FixedZone("IST", 5*3600+1800), "25;07;13;16;00;00;+22"},
		{time.FixedZone("NPT", 5*3600+2700), "25;07;13;16;15;00;+23"},
		{time.FixedZone("NST", -(3*3600 + 1800)), "25;07;13;07;00;00;-14"},
	}
	for _, tt := range tests {
		is.Equal(smsTime(at.In(tt.zone)), tt.want) // whole hours, otherwise quarter hours
	}
}

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{name: "firewall policy", req: Firewall{DefaultPolicy: 2}, field: "defaultPolicy"},
		{name: "firewall negative policy", req: Firewall{DefaultPolicy: -1}, field: "defaultPolicy"},
		{name: "sms without number", req: SendSMS{Text: "hi"}, field: "number"},
		{name: "sms with letters", req: SendSMS{Number: "55abc", Text: "hi"}, field: "number"},
		{name: "sms without text", req: SendSMS{Number: "10086"}, field: "message"},
		{name: "delete without id", req: DeleteSMS{ID: " "}, field: "msg_id"},
		{name: "ddns mode", req: DDNS{Mode: "sometimes"}, field: "mode"},
		{name: "ddns enabled without domain", req: DDNS{Enabled: true, Provider: "dyndns"}, field: "ddns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, err := tt.req.Command()

			var ve *ValidationError
			is.True(errors.As(err, &ve))
			is.Equal(ve.Field, tt.field)
		})
	}
}

func TestCommandEncoding(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		cmd    string
		params map[string]string
	}{
		{name: "login", req: Login{Password: "admin"}, cmd: "LOGIN", params: map[string]string{"password": "YWRtaW4="}},
		{name: "wifi off", req: SetWifi{}, cmd: "SET_WIFI_INFO", params: map[string]string{"wifiEnabled": "0", "m_ssid_enable": "0"}},
		{name: "wan connect", req: SetWAN{Connect: true}, cmd: "CONNECT_NETWORK", params: map[string]string{"notCallback": "true"}},
		{name: "wan disconnect", req: SetWAN{}, cmd: "DISCONNECT_NETWORK"},
		{name: "firewall", req: Firewall{PortFilter: true, DefaultPolicy: 1}, cmd: "BASIC_SETTING", params: map[string]string{"portFilterEnabled": "1", "defaultFirewallPolicy": "1"}},
		{name: "ddns default mode", req: DDNS{Enabled: true, Provider: "dyndns", Domain: "home.example.org"}, cmd: "DDNS", params: map[string]string{"DDNS_Enable": "1", "DDNS_Mode": "auto", "DDNS_Domain": "home.example.org"}},
		{name: "reboot", req: RebootDevice{}, cmd: "REBOOT_DEVICE"},
		{name: "factory mode", req: FactoryMode{Password: "admin"}, cmd: "CHANGE_MODE", params: map[string]string{"change_mode": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			cmd, err := tt.req.Command()
			is.NoErr(err)
			is.Equal(cmd.Kind, KindSet)
			is.Equal(cmd.Name, tt.cmd)
			for k, v := range tt.params {
				is.Equal(cmd.Params.Get(k), v)
			}
		})
	}
}
