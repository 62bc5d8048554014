package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/rehiy/web-zte/models"
	"github.com/rehiy/web-zte/modem"
)

// messageToModelSMS 将设备短信转换为数据库模型
func messageToModelSMS(m modem.Message, modemName string) *models.SMS {
	content := m.Text
	if content == "" {
		content = m.Content
	}

	return &models.SMS{
		DeviceID:    m.ID,
		Content:     content,
		ReceiveTime: parseSMSTime(m.Date),
		SendNumber:  m.Number,
		Direction:   models.DirectionIn,
		ModemName:   modemName,
	}
}

// isReceived 设备 tag：0 已读，1 未读，其余为发件箱、草稿等
func isReceived(m modem.Message) bool {
	return m.Tag == "" || m.Tag == "0" || m.Tag == "1"
}

// parseSMSTime 解析设备时间 yy,MM,dd,HH,mm,ss,±时区，无法解析时返回当前时间
func parseSMSTime(timeStr string) time.Time {
	parts := strings.Split(timeStr, ",")
	if len(parts) < 6 {
		return time.Now()
	}

	var n [6]int
	for i := range n {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return time.Now()
		}
		n[i] = v
	}
	if n[1] < 1 || n[1] > 12 || n[2] < 1 || n[2] > 31 {
		return time.Now()
	}

	loc := time.Local
	if len(parts) > 6 {
		if tz, err := strconv.Atoi(strings.TrimSpace(parts[6])); err == nil {
			loc = time.FixedZone("", zoneOffset(tz))
		}
	}

	return time.Date(2000+n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, loc)
}

// zoneOffset 时区字段多数固件以小时为单位，超出范围时按 15 分钟为单位
func zoneOffset(tz int) int {
	if tz < -12 || tz > 14 {
		return tz * 15 * 60
	}
	return tz * 3600
}
