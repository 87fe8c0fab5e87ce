// Package models 数据模型 - 套餐
package models

import (
	"time"
)

// Plan 套餐表
type Plan struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	TransferEnable int64     `gorm:"default:0" json:"transfer_enable"` // 套餐流量，字节
	DeviceLimit    int       `gorm:"default:0" json:"device_limit"`
	Show           bool      `gorm:"default:false" json:"show"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 表名
func (Plan) TableName() string {
	return "v2_plan"
}
