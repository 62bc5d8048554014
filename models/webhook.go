package models

import (
	"time"
)

// Webhook 短信推送目标
type Webhook struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
	URL  string `json:"url"`
	// Template JSON 模板，字符串中的 {{变量}} 会被替换，为空或 {} 时使用默认格式
	Template  string    `json:"template"`
	Enabled   bool      `json:"enabled" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting 键值设置
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
