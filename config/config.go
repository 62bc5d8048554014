package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Modem       ModemConfig       `yaml:"modem"`
	API         APIConfig         `yaml:"api"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Database    DatabaseConfig    `yaml:"database"`
	Webhook     WebhookConfig     `yaml:"webhook"`
	Log         LogConfig         `yaml:"log"`
}

// HTTPConfig 网关监听配置
type HTTPConfig struct {
	Listen          string        `yaml:"listen"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModemConfig 设备连接配置
type ModemConfig struct {
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	// Location 短信提交时间所用时区，例如 America/Sao_Paulo，为空时使用本地时区
	Location         string `yaml:"location"`
	FirmwareExploits bool   `yaml:"firmware_exploits"`
}

// APIConfig 调用 /api/modem 接口的凭据
type APIConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MaintenanceConfig 定时维护接口的令牌，为空时接口关闭
type MaintenanceConfig struct {
	Token string `yaml:"token"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WebhookConfig webhook 推送配置
type WebhookConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	Concurrency int           `yaml:"concurrency"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Listen:          ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Modem: ModemConfig{
			Address: "192.168.1.1",
			Timeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "data/modem.db",
		},
		Webhook: WebhookConfig{
			Timeout:     30 * time.Second,
			MaxRetries:  3,
			RetryDelay:  2 * time.Second,
			Concurrency: 5,
			CacheTTL:    30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load 读取配置文件并应用环境变量，文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.HTTP.Listen = ":" + port
	}

	env := map[string]*string{
		"DB_PATH":           &c.Database.Path,
		"MODEM_IP":          &c.Modem.Address,
		"MODEM_PASSWORD":    &c.Modem.Password,
		"API_USERNAME":      &c.API.Username,
		"API_PASSWORD":      &c.API.Password,
		"MAINTENANCE_TOKEN": &c.Maintenance.Token,
		"LOG_LEVEL":         &c.Log.Level,
	}
	for name, field := range env {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	return nil
}

// Validate 检查必填项
func (c *Config) Validate() error {
	if c.Modem.Address == "" {
		return errors.New("modem.address is required")
	}
	if c.API.Username == "" || c.API.Password == "" {
		return errors.New("api.username and api.password are required")
	}
	if c.Modem.Location != "" {
		if _, err := time.LoadLocation(c.Modem.Location); err != nil {
			return fmt.Errorf("invalid modem.location: %w", err)
		}
	}
	if c.Webhook.Concurrency <= 0 {
		c.Webhook.Concurrency = 1
	}
	return nil
}

// TimeLocation 返回短信时间所用时区
func (m ModemConfig) TimeLocation() *time.Location {
	if m.Location == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(m.Location)
	if err != nil {
		return time.Local
	}
	return loc
}
