// Package config 配置管理模块
package config

import (
	"encoding/json"
	"os"
	"sync"
)

// Config 全局配置结构
type Config struct {
	AppName string `json:"app_name"`
	Debug   bool   `json:"debug"`

	Database  DatabaseConfig  `json:"database"`
	API       APIConfig       `json:"api"`
	GiftCard  GiftCardConfig  `json:"gift_card"`
	Telegram  TelegramConfig  `json:"telegram"`
	Webhook   WebhookConfig   `json:"webhook"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// APIConfig Web API 配置
type APIConfig struct {
	Host         string   `json:"host"`
	Port         int      `json:"port"`
	AllowOrigins []string `json:"allow_origins"`
}

// GiftCardConfig 礼品卡配置
type GiftCardConfig struct {
	Exchange     bool   `json:"exchange"`       // 兑换功能总开关
	CardFontPath string `json:"card_font_path"` // 分享卡片中文字体路径
}

// TelegramConfig Telegram 通知配置
type TelegramConfig struct {
	Enabled  bool    `json:"enabled"`
	BotToken string  `json:"bot_token"`
	ChatIDs  []int64 `json:"chat_ids"` // 接收通知的管理员/群组
}

// WebhookConfig Webhook 通知配置
type WebhookConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Secret  string `json:"secret"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	ExpireSweep bool `json:"expire_sweep"` // 定时标记过期兑换码
	DailyStats  bool `json:"daily_stats"`  // 每日兑换统计
}

var (
	cfg        *Config
	cfgLock    sync.RWMutex
	configPath string
)

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// 设置默认值
	config.setDefaults()

	cfgLock.Lock()
	cfg = &config
	configPath = path
	cfgLock.Unlock()

	return &config, nil
}

// Get 获取配置
func Get() *Config {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	return cfg
}

// Set 设置配置（测试用）
func Set(c *Config) {
	cfgLock.Lock()
	cfg = c
	cfgLock.Unlock()
}

// Reload 重新加载配置
func Reload() (*Config, error) {
	cfgLock.RLock()
	path := configPath
	cfgLock.RUnlock()
	return Load(path)
}

// setDefaults 设置默认值
func (c *Config) setDefaults() {
	if c.AppName == "" {
		c.AppName = "Xboard"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.API.Host == "" {
		c.API.Host = "0.0.0.0"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if len(c.API.AllowOrigins) == 0 {
		c.API.AllowOrigins = []string{"*"}
	}
}
