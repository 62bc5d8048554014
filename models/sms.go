package models

import (
	"time"
)

// 短信方向
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// SMS 存档的短信
type SMS struct {
	ID int `json:"id" gorm:"primaryKey"`
	// DeviceID 设备中的短信 ID，发出的短信为空
	DeviceID string `json:"device_id" gorm:"index"`
	// MessageID 网关为发出的短信分配的 ID
	MessageID     string    `json:"message_id,omitempty" gorm:"index"`
	Content       string    `json:"content"`
	ReceiveTime   time.Time `json:"receive_time" gorm:"index"`
	ReceiveNumber string    `json:"receive_number"`
	SendNumber    string    `json:"send_number" gorm:"index"`
	Direction     string    `json:"direction" gorm:"index"`
	ModemName     string    `json:"modem_name" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
}

// SMSFilter 短信查询条件
type SMSFilter struct {
	Direction  string
	SendNumber string
	ModemName  string
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}
