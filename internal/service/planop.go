// Package service 套餐操作决策
package service

import (
	"fmt"

	"github.com/studycloud111/xboard-go/internal/database/models"
)

// 套餐操作类型
const (
	PlanActionExtend  = "extend"  // 相同套餐：延长有效期
	PlanActionAssign  = "assign"  // 无套餐：分配新套餐
	PlanActionReplace = "replace" // 不同套餐：替换并重置流量
)

// PlanOperation 套餐操作决策结果，实际发放与预览共用
type PlanOperation struct {
	Action          string `json:"operation_type"`
	CurrentPlanID   *int64 `json:"current_plan_id,omitempty"`
	CurrentPlanName string `json:"current_plan_name"`
	NewPlanID       int64  `json:"new_plan_id"`
	NewPlanName     string `json:"new_plan_name"`
	ValidityDays    int    `json:"validity_days"`
	TrafficReset    bool   `json:"traffic_reset"`
	Warning         string `json:"warning,omitempty"`
	Message         string `json:"message"`
}

// ResolvePlanOperation 决策套餐奖励的操作方式：
// 相同套餐只延长有效期、不重置流量；不同套餐或无套餐时分配/替换，
// 仅替换（用户原本持有套餐）伴随流量重置
func ResolvePlanOperation(user *models.User, currentPlanName string, plan *models.Plan, validityDays int) *PlanOperation {
	if user.HasPlan() && *user.PlanID == plan.ID {
		return &PlanOperation{
			Action:          PlanActionExtend,
			CurrentPlanID:   user.PlanID,
			CurrentPlanName: plan.Name,
			NewPlanID:       plan.ID,
			NewPlanName:     plan.Name,
			ValidityDays:    validityDays,
			TrafficReset:    false,
			Message:         fmt.Sprintf("将延长套餐「%s」的有效期 %d 天，不重置流量", plan.Name, validityDays),
		}
	}

	hadPlan := user.HasPlan()
	if currentPlanName == "" {
		currentPlanName = "无套餐"
	}

	op := &PlanOperation{
		CurrentPlanID:   user.PlanID,
		CurrentPlanName: currentPlanName,
		NewPlanID:       plan.ID,
		NewPlanName:     plan.Name,
		ValidityDays:    validityDays,
		TrafficReset:    hadPlan,
	}
	if hadPlan {
		op.Action = PlanActionReplace
		op.Warning = fmt.Sprintf("⚠️ 兑换后将替换您当前的套餐「%s」，流量将被重置", currentPlanName)
		op.Message = fmt.Sprintf("将把套餐从「%s」更换为「%s」，流量将被重置", currentPlanName, plan.Name)
	} else {
		op.Action = PlanActionAssign
		op.Message = fmt.Sprintf("将分配套餐「%s」给您", plan.Name)
	}
	return op
}
