// Package models 数据模型 - 礼品卡模板
package models

import (
	"time"
)

// 卡片类型
const (
	TemplateTypeGeneral = 1 // 通用礼品卡
	TemplateTypePlan    = 2 // 套餐礼品卡
	TemplateTypeMystery = 3 // 盲盒礼品卡
)

// GiftCardTemplate 礼品卡模板表
type GiftCardTemplate struct {
	ID            int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string            `gorm:"size:255;not null" json:"name"`
	Description   string            `gorm:"size:500" json:"description"`
	Type          int               `gorm:"default:1" json:"type"`
	Status        bool              `gorm:"default:false" json:"status"` // 启用状态
	Conditions    *Conditions       `gorm:"serializer:json" json:"conditions,omitempty"`
	Rewards       Rewards           `gorm:"serializer:json" json:"rewards"`
	Limits        *Limits           `gorm:"serializer:json" json:"limits,omitempty"`
	SpecialConfig *SpecialConfig    `gorm:"serializer:json" json:"special_config,omitempty"`
	Icon          string            `gorm:"size:255" json:"icon"`
	BackgroundImage string          `gorm:"size:255" json:"background_image"`
	ThemeColor    string            `gorm:"size:16" json:"theme_color"`
	Sort          int               `gorm:"default:0" json:"sort"`
	AdminID       int64             `gorm:"default:0" json:"admin_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TableName 表名
func (GiftCardTemplate) TableName() string {
	return "v2_gift_card_template"
}

// IsAvailable 模板是否可用
func (t *GiftCardTemplate) IsAvailable() bool {
	return t.Status
}

// TypeName 获取类型名称
func (t *GiftCardTemplate) TypeName() string {
	switch t.Type {
	case TemplateTypeGeneral:
		return "通用礼品卡"
	case TemplateTypePlan:
		return "套餐礼品卡"
	case TemplateTypeMystery:
		return "盲盒礼品卡"
	default:
		return "未知类型"
	}
}

// Conditions 使用条件配置
type Conditions struct {
	NewUserOnly    bool    `json:"new_user_only,omitempty"`
	NewUserMaxDays int     `json:"new_user_max_days,omitempty"`
	PaidUserOnly   bool    `json:"paid_user_only,omitempty"`
	AllowedPlans   []int64 `json:"allowed_plans,omitempty"`
	RequireInvite  bool    `json:"require_invite,omitempty"`
}

// Limits 使用频率限制
type Limits struct {
	MaxUsePerUser int `json:"max_use_per_user,omitempty"`
	CooldownHours int `json:"cooldown_hours,omitempty"`
}

// SpecialConfig 特殊配置（节日加成窗口）
type SpecialConfig struct {
	StartTime     int64   `json:"start_time,omitempty"`
	EndTime       int64   `json:"end_time,omitempty"`
	FestivalBonus float64 `json:"festival_bonus,omitempty"`
}

// InFestival 当前时间是否在节日窗口内（闭区间）
func (s *SpecialConfig) InFestival(now time.Time) bool {
	if s == nil || s.StartTime == 0 || s.EndTime == 0 {
		return false
	}
	ts := now.Unix()
	return ts >= s.StartTime && ts <= s.EndTime
}

// RewardPayload 实际奖励内容（扁平结构，写入使用记录与盲盒固定奖励）
type RewardPayload struct {
	Balance          int64   `json:"balance,omitempty"`            // 余额，单位分
	TransferEnable   int64   `json:"transfer_enable,omitempty"`    // 流量，单位字节
	DeviceLimit      int     `json:"device_limit,omitempty"`       // 设备数
	ExpireDays       int     `json:"expire_days,omitempty"`        // 独立有效期延长天数
	ResetPackage     bool    `json:"reset_package,omitempty"`      // 是否重置流量
	PlanID           int64   `json:"plan_id,omitempty"`            // 套餐奖励
	PlanValidityDays int     `json:"plan_validity_days,omitempty"` // 套餐有效天数
	InviteRewardRate float64 `json:"invite_reward_rate,omitempty"` // 邀请奖励比例
}

// GrantKind 发放分支类型
type GrantKind int

const (
	GrantNone   GrantKind = iota // 无套餐/延期奖励
	GrantPlan                    // 套餐发放
	GrantExtend                  // 裸延期
)

// GrantOp 套餐发放与裸延期互斥，以带标签的变体表达
type GrantOp struct {
	Kind         GrantKind
	PlanID       int64
	ValidityDays int
	ExpireDays   int
}

// Grant 返回奖励的发放分支。套餐奖励优先，裸延期只在无套餐奖励时生效
func (p *RewardPayload) Grant() GrantOp {
	if p.PlanID > 0 {
		return GrantOp{Kind: GrantPlan, PlanID: p.PlanID, ValidityDays: p.PlanValidityDays}
	}
	if p.ExpireDays > 0 {
		return GrantOp{Kind: GrantExtend, ExpireDays: p.ExpireDays}
	}
	return GrantOp{Kind: GrantNone}
}

// Rewards 模板奖励配置
type Rewards struct {
	RewardPayload
	RandomRewards []RandomReward `json:"random_rewards,omitempty"`
}

// RandomReward 盲盒候选奖励
type RandomReward struct {
	Weight int `json:"weight"`
	RewardPayload
}
