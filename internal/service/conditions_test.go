// Package service 条件检查测试
package service

import (
	"testing"
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func newTestUser(createdDaysAgo int) *models.User {
	return &models.User{
		ID:        1,
		CreatedAt: time.Now().Add(-time.Duration(createdDaysAgo) * 24 * time.Hour),
	}
}

func TestCheckUserConditions_NoConditions(t *testing.T) {
	res := CheckUserConditions(nil, ConditionInput{User: newTestUser(100), Now: time.Now()})
	if !res.CanRedeem {
		t.Errorf("无条件配置应直接通过, got reason=%s", res.Reason)
	}
}

func TestCheckUserConditions_NewUserOnly(t *testing.T) {
	tests := []struct {
		name       string
		maxDays    int
		userDays   int
		canRedeem  bool
		reasonCode string
	}{
		{"注册当天", 7, 0, true, ""},
		{"第 7 天整仍可使用", 7, 7, true, ""},
		{"第 8 天拒绝", 7, 8, false, "new_user_only"},
		{"未配置窗口时默认 7 天", 0, 8, false, "new_user_only"},
		{"自定义 30 天窗口", 30, 15, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds := &models.Conditions{NewUserOnly: true, NewUserMaxDays: tt.maxDays}
			res := CheckUserConditions(conds, ConditionInput{User: newTestUser(tt.userDays), Now: time.Now()})
			if res.CanRedeem != tt.canRedeem {
				t.Errorf("CanRedeem = %v, want %v (reason=%s)", res.CanRedeem, tt.canRedeem, res.Reason)
			}
			if res.ReasonCode != tt.reasonCode {
				t.Errorf("ReasonCode = %q, want %q", res.ReasonCode, tt.reasonCode)
			}
		})
	}
}

func TestCheckUserConditions_PaidUserOnly(t *testing.T) {
	conds := &models.Conditions{PaidUserOnly: true}

	res := CheckUserConditions(conds, ConditionInput{User: newTestUser(30), HasPaidOrder: false, Now: time.Now()})
	if res.CanRedeem || res.ReasonCode != "paid_user_only" {
		t.Errorf("未付费用户应被拒绝, got %+v", res)
	}

	res = CheckUserConditions(conds, ConditionInput{User: newTestUser(30), HasPaidOrder: true, Now: time.Now()})
	if !res.CanRedeem {
		t.Errorf("已付费用户应通过, got %+v", res)
	}
}

func TestCheckUserConditions_AllowedPlans(t *testing.T) {
	conds := &models.Conditions{AllowedPlans: []int64{2, 3}}

	tests := []struct {
		name       string
		planID     *int64
		canRedeem  bool
		reasonCode string
	}{
		{"无套餐", nil, false, "no_plan"},
		{"套餐不在列表", int64Ptr(5), false, "plan_not_allowed"},
		{"套餐在列表", int64Ptr(3), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newTestUser(30)
			user.PlanID = tt.planID
			res := CheckUserConditions(conds, ConditionInput{User: user, Now: time.Now()})
			if res.CanRedeem != tt.canRedeem {
				t.Errorf("CanRedeem = %v, want %v", res.CanRedeem, tt.canRedeem)
			}
			if res.ReasonCode != tt.reasonCode {
				t.Errorf("ReasonCode = %q, want %q", res.ReasonCode, tt.reasonCode)
			}
		})
	}
}

func TestCheckUserConditions_RequireInvite(t *testing.T) {
	conds := &models.Conditions{RequireInvite: true}

	res := CheckUserConditions(conds, ConditionInput{User: newTestUser(1), Now: time.Now()})
	if res.CanRedeem || res.ReasonCode != "require_invite" {
		t.Errorf("非邀请注册用户应被拒绝, got %+v", res)
	}

	invited := newTestUser(1)
	invited.InviteUserID = int64Ptr(99)
	res = CheckUserConditions(conds, ConditionInput{User: invited, Now: time.Now()})
	if !res.CanRedeem {
		t.Errorf("邀请注册用户应通过, got %+v", res)
	}
}

func TestCheckUserConditions_ShortCircuitOrder(t *testing.T) {
	// 同时不满足多个条件时，返回最先检查的新用户条件
	conds := &models.Conditions{
		NewUserOnly:  true,
		PaidUserOnly: true,
	}
	res := CheckUserConditions(conds, ConditionInput{User: newTestUser(30), HasPaidOrder: false, Now: time.Now()})
	if res.ReasonCode != "new_user_only" {
		t.Errorf("应按顺序短路返回 new_user_only, got %q", res.ReasonCode)
	}
}
