package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rehiy/web-zte/models"
)

// ErrSMSNotFound 短信不存在
var ErrSMSNotFound = errors.New("SMS not found")

// CreateSMS 保存短信到数据库
func CreateSMS(sms *models.SMS) error {
	// 确保必要字段已设置
	if sms.Direction == "" {
		sms.Direction = models.DirectionIn
	}
	if sms.ReceiveTime.IsZero() {
		sms.ReceiveTime = time.Now()
	}

	if err := db.Create(sms).Error; err != nil {
		return fmt.Errorf("failed to save SMS: %w", err)
	}
	return nil
}

// DeleteSMS 根据数据库ID删除短信
func DeleteSMS(id int) error {
	ret := db.Delete(&models.SMS{}, id)
	if ret.Error != nil {
		return fmt.Errorf("failed to delete SMS: %w", ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrSMSNotFound
	}
	return nil
}

// BatchDeleteSMS 批量删除短信，返回实际删除的数量
func BatchDeleteSMS(ids []int) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ret := db.Where("id IN ?", ids).Delete(&models.SMS{})
	if ret.Error != nil {
		return 0, fmt.Errorf("failed to batch delete SMS: %w", ret.Error)
	}
	return int(ret.RowsAffected), nil
}

// FindDeviceSMS 查找已归档的设备短信。
// 设备 ID 在清空短信后可能复用，所以同时比对号码和内容。
func FindDeviceSMS(modemName, deviceID, number, content string) (*models.SMS, error) {
	var sms models.SMS
	err := db.Where("modem_name = ? AND device_id = ? AND send_number = ? AND content = ? AND direction = ?",
		modemName, deviceID, number, content, models.DirectionIn).First(&sms).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSMSNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query SMS: %w", err)
	}
	return &sms, nil
}

// GetSMSList 查询短信列表
func GetSMSList(filter *models.SMSFilter) ([]models.SMS, int, error) {
	query := db.Model(&models.SMS{})

	if filter.Direction != "" {
		query = query.Where("direction = ?", filter.Direction)
	}
	if filter.SendNumber != "" {
		query = query.Where("send_number = ?", filter.SendNumber)
	}
	if filter.ModemName != "" {
		query = query.Where("modem_name = ?", filter.ModemName)
	}
	if !filter.StartTime.IsZero() {
		query = query.Where("receive_time >= ?", filter.StartTime)
	}
	if !filter.EndTime.IsZero() {
		query = query.Where("receive_time <= ?", filter.EndTime)
	}

	// 查询总数
	var total int64
	countQuery := query.Session(&gorm.Session{})
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count SMS: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	// 查询列表
	smsList := []models.SMS{}
	err := query.Order("receive_time DESC").Order("id DESC").Limit(limit).Offset(filter.Offset).Find(&smsList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query SMS: %w", err)
	}

	return smsList, int(total), nil
}
