// Package models 数据模型测试
package models

import (
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestGiftCardCode_IsAvailable(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		status     int
		expiresAt  *time.Time
		usageCount int
		maxUsage   int
		expected   bool
	}{
		{"可用", CodeStatusAvailable, nil, 0, 1, true},
		{"未到过期时间", CodeStatusAvailable, &future, 0, 1, true},
		{"已过有效期", CodeStatusAvailable, &past, 0, 1, false},
		{"已被使用", CodeStatusUsed, nil, 1, 1, false},
		{"已禁用", CodeStatusDisabled, nil, 0, 1, false},
		{"使用次数耗尽", CodeStatusAvailable, nil, 3, 3, false},
		{"多次使用未耗尽", CodeStatusAvailable, nil, 2, 3, true},
		{"未设置次数上限", CodeStatusAvailable, nil, 0, 0, true},
		{"未设置上限已有使用记录", CodeStatusAvailable, nil, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &GiftCardCode{
				Status:     tt.status,
				ExpiresAt:  tt.expiresAt,
				UsageCount: tt.usageCount,
				MaxUsage:   tt.maxUsage,
			}
			if got := c.IsAvailable(); got != tt.expected {
				t.Errorf("IsAvailable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGiftCardCode_StatusName(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name     string
		code     GiftCardCode
		expected string
	}{
		{"可用", GiftCardCode{Status: CodeStatusAvailable}, "可用"},
		{"可用带次数上限", GiftCardCode{Status: CodeStatusAvailable, UsageCount: 1, MaxUsage: 3}, "可用"},
		{"次数耗尽", GiftCardCode{Status: CodeStatusAvailable, UsageCount: 3, MaxUsage: 3}, "已使用"},
		{"状态可用但已过期", GiftCardCode{Status: CodeStatusAvailable, ExpiresAt: &past}, "已过期"},
		{"已使用", GiftCardCode{Status: CodeStatusUsed}, "已使用"},
		{"已禁用", GiftCardCode{Status: CodeStatusDisabled}, "已禁用"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.StatusName(); got != tt.expected {
				t.Errorf("StatusName() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpecialConfig_InFestival(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		sc       *SpecialConfig
		expected bool
	}{
		{"nil 配置", nil, false},
		{"未设置窗口", &SpecialConfig{FestivalBonus: 2.0}, false},
		{"窗口内", &SpecialConfig{StartTime: now.Unix() - 100, EndTime: now.Unix() + 100}, true},
		{"恰好等于起点", &SpecialConfig{StartTime: now.Unix(), EndTime: now.Unix() + 100}, true},
		{"恰好等于终点", &SpecialConfig{StartTime: now.Unix() - 100, EndTime: now.Unix()}, true},
		{"窗口之前", &SpecialConfig{StartTime: now.Unix() + 100, EndTime: now.Unix() + 200}, false},
		{"窗口之后", &SpecialConfig{StartTime: now.Unix() - 200, EndTime: now.Unix() - 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sc.InFestival(now); got != tt.expected {
				t.Errorf("InFestival() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRewardPayload_Grant(t *testing.T) {
	tests := []struct {
		name     string
		payload  RewardPayload
		expected GrantKind
	}{
		{"无奖励", RewardPayload{Balance: 1000}, GrantNone},
		{"套餐奖励", RewardPayload{PlanID: 5, PlanValidityDays: 30}, GrantPlan},
		{"裸延期", RewardPayload{ExpireDays: 7}, GrantExtend},
		{"套餐优先于延期", RewardPayload{PlanID: 5, ExpireDays: 7}, GrantPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.payload.Grant(); got.Kind != tt.expected {
				t.Errorf("Grant().Kind = %v, want %v", got.Kind, tt.expected)
			}
		})
	}
}

func TestUser_HasPlan(t *testing.T) {
	tests := []struct {
		name     string
		planID   *int64
		expected bool
	}{
		{"有套餐", int64Ptr(3), true},
		{"套餐 ID 为 0", int64Ptr(0), false},
		{"无套餐", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{PlanID: tt.planID}
			if got := u.HasPlan(); got != tt.expected {
				t.Errorf("HasPlan() = %v, want %v", got, tt.expected)
			}
		})
	}
}
