// Package service 礼品卡条件检查
package service

import (
	"fmt"
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
	"github.com/studycloud111/xboard-go/pkg/utils"
)

// EligibilityResult 条件检查结果
type EligibilityResult struct {
	CanRedeem  bool   `json:"can_redeem"`
	Reason     string `json:"reason,omitempty"`
	ReasonCode string `json:"reason_code,omitempty"`
}

func eligible() EligibilityResult {
	return EligibilityResult{CanRedeem: true}
}

func ineligible(code, reason string) EligibilityResult {
	return EligibilityResult{CanRedeem: false, Reason: reason, ReasonCode: code}
}

// ConditionInput 条件检查所需的用户快照
type ConditionInput struct {
	User         *models.User
	PlanName     string // 用户当前套餐名称，仅用于提示文案
	HasPaidOrder bool
	Now          time.Time
}

// CheckUserConditions 检查用户是否满足模板使用条件。按顺序短路：
// 新用户窗口、付费用户、允许套餐、邀请要求。纯函数，无副作用，
// 预览与事务内复检共用；事务外的结果仅供参考，提交前必须复检
func CheckUserConditions(conds *models.Conditions, in ConditionInput) EligibilityResult {
	if conds == nil {
		return eligible()
	}

	if conds.NewUserOnly {
		maxDays := conds.NewUserMaxDays
		if maxDays <= 0 {
			maxDays = 7
		}
		userDays := utils.DaysSince(in.User.CreatedAt, in.Now)
		// 第 maxDays 天当天仍可使用，超过才拒绝
		if userDays > maxDays {
			return ineligible("new_user_only",
				fmt.Sprintf("此礼品卡仅限注册 %d 天内的新用户使用，您的账号已注册 %d 天", maxDays, userDays))
		}
	}

	if conds.PaidUserOnly && !in.HasPaidOrder {
		return ineligible("paid_user_only", "此礼品卡仅限已付费用户使用，请先购买套餐后再来兑换")
	}

	if len(conds.AllowedPlans) > 0 {
		if !in.User.HasPlan() {
			return ineligible("no_plan", "此礼品卡仅限特定套餐用户使用，您当前没有套餐")
		}
		allowed := false
		for _, id := range conds.AllowedPlans {
			if id == *in.User.PlanID {
				allowed = true
				break
			}
		}
		if !allowed {
			planName := in.PlanName
			if planName == "" {
				planName = "当前套餐"
			}
			return ineligible("plan_not_allowed",
				fmt.Sprintf("此礼品卡仅限特定套餐用户使用，您的「%s」不在允许列表中", planName))
		}
	}

	if conds.RequireInvite && in.User.InviteUserID == nil {
		return ineligible("require_invite", "此礼品卡需要通过邀请链接注册的用户才能使用")
	}

	return eligible()
}
