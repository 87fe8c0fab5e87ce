// Package models 数据模型 - 礼品卡使用记录
package models

import (
	"time"
)

// GiftCardUsage 使用记录表（只追加，不修改不删除）
type GiftCardUsage struct {
	ID            int64                  `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID          string                 `gorm:"size:36;uniqueIndex" json:"uuid"`
	CodeID        int64                  `gorm:"index;not null" json:"code_id"`
	TemplateID    int64                  `gorm:"index;not null" json:"template_id"`
	UserID        int64                  `gorm:"index;not null" json:"user_id"`
	InviteUserID  *int64                 `json:"invite_user_id,omitempty"`
	Rewards       RewardPayload          `gorm:"serializer:json" json:"rewards"`
	InviteRewards *InviteRewards         `gorm:"serializer:json" json:"invite_rewards,omitempty"`
	Multiplier    float64                `gorm:"default:1" json:"multiplier"`
	Options       map[string]interface{} `gorm:"serializer:json" json:"options,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// TableName 表名
func (GiftCardUsage) TableName() string {
	return "v2_gift_card_usage"
}

// InviteRewards 邀请人实际获得的奖励（只记录实际发放的字段）
type InviteRewards struct {
	Balance        int64 `json:"balance,omitempty"`
	TransferEnable int64 `json:"transfer_enable,omitempty"`
}

// IsEmpty 是否没有任何发放
func (r *InviteRewards) IsEmpty() bool {
	return r == nil || (r.Balance <= 0 && r.TransferEnable <= 0)
}
