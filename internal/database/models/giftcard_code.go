// Package models 数据模型 - 兑换码
package models

import (
	"time"
)

// 兑换码状态
const (
	CodeStatusAvailable = 0 // 可用
	CodeStatusUsed      = 1 // 已使用
	CodeStatusExpired   = 2 // 已过期
	CodeStatusDisabled  = 3 // 已禁用
)

// GiftCardCode 兑换码表
type GiftCardCode struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TemplateID    int64          `gorm:"index;not null" json:"template_id"`
	Code          string         `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Status        int            `gorm:"default:0" json:"status"`
	UsageCount    int            `gorm:"default:0" json:"usage_count"`
	MaxUsage      int            `gorm:"default:1" json:"max_usage"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	ActualRewards *RewardPayload `gorm:"serializer:json" json:"actual_rewards,omitempty"` // 盲盒首次兑换固定的奖励
	UsedUserID    *int64         `json:"used_user_id,omitempty"`
	UsedAt        *time.Time     `json:"used_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName 表名
func (GiftCardCode) TableName() string {
	return "v2_gift_card_code"
}

// IsExpired 是否已过期
func (c *GiftCardCode) IsExpired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*c.ExpiresAt)
}

// IsAvailable 是否可兑换（状态、有效期、使用次数）
func (c *GiftCardCode) IsAvailable() bool {
	if c.Status != CodeStatusAvailable {
		return false
	}
	if c.IsExpired() {
		return false
	}
	// MaxUsage 未设置时不按次数限制
	return c.MaxUsage <= 0 || c.UsageCount < c.MaxUsage
}

// StatusName 状态名称
func (c *GiftCardCode) StatusName() string {
	if c.Status == CodeStatusAvailable && c.IsExpired() {
		return "已过期"
	}
	switch c.Status {
	case CodeStatusAvailable:
		if c.MaxUsage > 0 && c.UsageCount >= c.MaxUsage {
			return "已使用"
		}
		return "可用"
	case CodeStatusUsed:
		return "已使用"
	case CodeStatusExpired:
		return "已过期"
	case CodeStatusDisabled:
		return "已禁用"
	default:
		return "未知"
	}
}
