package modem

import (
	"time"
)

const (
	// 设备接口
	endpointSet = "/goform/goform_set_cmd_process"
	endpointGet = "/goform/goform_get_cmd_process"
	refererPath = "/index.html"

	// goformId 写命令
	cmdLogin         = "LOGIN"
	cmdLogout        = "LOGOUT"
	cmdSendSMS       = "SEND_SMS"
	cmdDeleteSMS     = "DELETE_SMS"
	cmdSetWifi       = "SET_WIFI_INFO"
	cmdConnectWAN    = "CONNECT_NETWORK"
	cmdDisconnectWAN = "DISCONNECT_NETWORK"
	cmdDDNS          = "DDNS"
	cmdFirewall      = "BASIC_SETTING"
	cmdReboot        = "REBOOT_DEVICE"
	cmdURLFilterAdd  = "URL_FILTER_ADD"
	cmdChangeMode    = "CHANGE_MODE"

	// cmd 读命令
	cmdListSMS = "sms_data_total"

	// 常用响应
	resultLoginOK = "0"
	resultSuccess = "success"

	// 短信
	smsEncodeType   = "UNICODE"
	smsPageSize     = "500"
	smsMemStore     = "1"
	smsTagsAll      = "10"
	smsOrderBy      = "order by id desc"
	smsTimeLayout   = "06;01;02;15;04;05;"
	factoryModeCode = "2"

	// 超时
	DefaultTimeout = 15 * time.Second
	logoutTimeout  = 5 * time.Second
)
