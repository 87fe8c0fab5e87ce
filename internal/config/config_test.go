// Package config 配置模块测试
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"app_name": "测试实例",
		"database": {"host": "db.internal", "port": 3307, "user": "xboard", "name": "xboard"},
		"gift_card": {"exchange": true, "card_font_path": "/fonts/noto.ttf"},
		"scheduler": {"expire_sweep": true}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppName != "测试实例" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 3307 {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if !cfg.GiftCard.Exchange || cfg.GiftCard.CardFontPath != "/fonts/noto.ttf" {
		t.Errorf("GiftCard = %+v", cfg.GiftCard)
	}
	if !cfg.Scheduler.ExpireSweep || cfg.Scheduler.DailyStats {
		t.Errorf("Scheduler = %+v", cfg.Scheduler)
	}

	// Load 后全局可取
	if Get() != cfg {
		t.Errorf("Get() 应返回刚加载的配置")
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppName != "Xboard" {
		t.Errorf("AppName 默认值 = %q, want Xboard", cfg.AppName)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 3306 {
		t.Errorf("Database 默认值 = %+v", cfg.Database)
	}
	if cfg.API.Host != "0.0.0.0" || cfg.API.Port != 8080 {
		t.Errorf("API 默认值 = %+v", cfg.API)
	}
	if len(cfg.API.AllowOrigins) != 1 || cfg.API.AllowOrigins[0] != "*" {
		t.Errorf("AllowOrigins 默认值 = %v", cfg.API.AllowOrigins)
	}
	// 兑换开关默认关闭，需显式开启
	if cfg.GiftCard.Exchange {
		t.Errorf("Exchange 默认应为 false")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.json"); err == nil {
		t.Error("不存在的配置文件应返回错误")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("非法 JSON 应返回错误")
	}
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"app_name": "v1"}`), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}

	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"app_name": "v2"}`), 0644); err != nil {
		t.Fatalf("更新测试配置失败: %v", err)
	}

	cfg, err := Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if cfg.AppName != "v2" {
		t.Errorf("Reload 后 AppName = %q, want v2", cfg.AppName)
	}
}
