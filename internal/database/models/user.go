// Package models 数据模型 - 用户
package models

import (
	"time"
)

// User 用户表（礼品卡核心关心的字段子集）
type User struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email          string     `gorm:"size:255;uniqueIndex" json:"email"`
	Balance        int64      `gorm:"default:0" json:"balance"`         // 余额，单位分
	TransferEnable int64      `gorm:"default:0" json:"transfer_enable"` // 可用流量，字节
	DeviceLimit    int        `gorm:"default:0" json:"device_limit"`
	PlanID         *int64     `gorm:"index" json:"plan_id,omitempty"`
	ExpiredAt      *time.Time `json:"expired_at,omitempty"`
	InviteUserID   *int64     `gorm:"index" json:"invite_user_id,omitempty"`
	Banned         bool       `gorm:"default:false" json:"banned"`
	U              int64      `gorm:"default:0" json:"u"` // 已用上行
	D              int64      `gorm:"default:0" json:"d"` // 已用下行
	LastResetAt    *time.Time `json:"last_reset_at,omitempty"`
	ResetCount     int        `gorm:"default:0" json:"reset_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName 表名
func (User) TableName() string {
	return "v2_user"
}

// HasPlan 是否持有套餐
func (u *User) HasPlan() bool {
	return u.PlanID != nil && *u.PlanID > 0
}

// PlanExpired 套餐是否已过期
func (u *User) PlanExpired() bool {
	if u.ExpiredAt == nil {
		return false
	}
	return time.Now().After(*u.ExpiredAt)
}

// 订单状态
const (
	OrderStatusPending   = 0
	OrderStatusPaying    = 1
	OrderStatusCancelled = 2
	OrderStatusCompleted = 3
)

// Order 订单表（付费用户条件只依赖已完成订单的存在性）
type Order struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	PlanID    int64     `json:"plan_id"`
	Status    int       `gorm:"default:0" json:"status"`
	TotalAmount int64   `gorm:"default:0" json:"total_amount"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 表名
func (Order) TableName() string {
	return "v2_order"
}
