package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rehiy/web-zte/models"
)

var db *gorm.DB

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return db
}

// Close 关闭数据库连接
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}

// InitDB 打开 path 处的数据库并建表，已打开的连接会先关闭
func InitDB(path string) error {
	if path == "" {
		path = "data/modem.db"
	}

	if err := Close(); err != nil {
		return fmt.Errorf("failed to close previous database: %w", err)
	}

	// 创建目录
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db = conn

	if err := createTables(); err != nil {
		return err
	}

	log.Info().Str("module", "database").Str("path", path).Msg("database initialized")
	return nil
}

// createTables 创建数据表
func createTables() error {
	err := db.AutoMigrate(
		&models.SMS{},
		&models.Webhook{},
		&models.Setting{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	// 初始化默认设置
	if err := InitDefaultSettings(); err != nil {
		return fmt.Errorf("failed to init default settings: %w", err)
	}

	return nil
}
