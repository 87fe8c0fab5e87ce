// Package models 数据模型 - 流量重置日志
package models

import (
	"time"
)

// 重置来源
const (
	ResetSourceGiftCard = "gift_card" // 礼品卡触发
	ResetSourceOrder    = "order"
	ResetSourceCron     = "cron"
	ResetSourceAdmin    = "admin"
)

// TrafficResetLog 流量重置审计日志
type TrafficResetLog struct {
	ID            int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64             `gorm:"index;not null" json:"user_id"`
	ResetTime     int64             `json:"reset_time"`
	TriggerSource string            `gorm:"size:32;index" json:"trigger_source"`
	OldUpload     int64             `json:"old_upload"`
	OldDownload   int64             `json:"old_download"`
	OldTotal      int64             `json:"old_total"`
	NewUpload     int64             `json:"new_upload"`
	NewDownload   int64             `json:"new_download"`
	NewTotal      int64             `json:"new_total"`
	Metadata      map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// TableName 表名
func (TrafficResetLog) TableName() string {
	return "v2_traffic_reset_log"
}
