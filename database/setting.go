package database

import (
	"fmt"
	"strconv"

	"github.com/rehiy/web-zte/models"
)

// 设置项
const (
	SettingSmsdbEnabled             = "smsdb_enabled"
	SettingWebhookEnabled           = "webhook_enabled"
	SettingMaintenanceRebootEnabled = "maintenance_reboot_enabled"
)

var defaultSettings = map[string]string{
	SettingSmsdbEnabled:             "true",
	SettingWebhookEnabled:           "false",
	SettingMaintenanceRebootEnabled: "true",
}

// GetSettings 获取所有设置
func GetSettings() (map[string]string, error) {
	var settings []models.Setting
	if err := db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}

	return result, nil
}

// IsSmsdbEnabled 检查短信存储是否启用
func IsSmsdbEnabled() bool {
	return getBool(SettingSmsdbEnabled)
}

// SetSmsdbEnabled 设置短信存储启用状态
func SetSmsdbEnabled(enabled bool) error {
	return setBool(SettingSmsdbEnabled, enabled)
}

// IsWebhookEnabled 检查webhook功能是否启用
func IsWebhookEnabled() bool {
	return getBool(SettingWebhookEnabled)
}

// SetWebhookEnabled 设置webhook功能启用状态
func SetWebhookEnabled(enabled bool) error {
	return setBool(SettingWebhookEnabled, enabled)
}

// IsMaintenanceRebootEnabled 每日维护是否在清理后重启，只有明确关闭时返回 false
func IsMaintenanceRebootEnabled() bool {
	value, ok := getValue(SettingMaintenanceRebootEnabled)
	return !ok || value != "false"
}

// SetMaintenanceRebootEnabled 设置每日维护的重启开关
func SetMaintenanceRebootEnabled(enabled bool) error {
	return setBool(SettingMaintenanceRebootEnabled, enabled)
}

// getBool 读取失败或数据库未初始化时视为关闭
func getBool(key string) bool {
	value, _ := getValue(key)
	return value == "true"
}

func getValue(key string) (string, bool) {
	if db == nil {
		return "", false
	}

	var setting models.Setting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", false
	}
	return setting.Value, true
}

func setBool(key string, enabled bool) error {
	setting := models.Setting{Key: key, Value: strconv.FormatBool(enabled)}
	err := db.Where(models.Setting{Key: key}).Assign(setting).FirstOrCreate(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// InitDefaultSettings 初始化默认设置，已有的值不覆盖
func InitDefaultSettings() error {
	for key, value := range defaultSettings {
		setting := models.Setting{Key: key, Value: value}
		result := db.FirstOrCreate(&setting, models.Setting{Key: key})
		if result.Error != nil {
			return fmt.Errorf("failed to insert default setting: %w", result.Error)
		}
	}

	return nil
}
