// Package service 礼品卡奖励计算
package service

import (
	"fmt"
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
)

// CalculateActualRewards 计算实际奖励：静态字段原样复制，盲盒按权重抽取，
// 节日窗口内对数量字段应用加成倍率（向零截断）。返回奖励与倍率。
// 盲盒抽取不幂等，只允许在兑换事务内调用一次，结果必须固定到兑换码上
func CalculateActualRewards(tpl *models.GiftCardTemplate, now time.Time, randInt func(int) int) (models.RewardPayload, float64, error) {
	actual := tpl.Rewards.RewardPayload

	if tpl.Type == models.TemplateTypeMystery && tpl.Rewards.RandomRewards != nil {
		selected, err := drawRandomReward(tpl, randInt)
		if err != nil {
			return models.RewardPayload{}, 1.0, err
		}
		mergeReward(&actual, selected)
	}

	multiplier := 1.0
	if sc := tpl.SpecialConfig; sc.InFestival(now) && sc.FestivalBonus > 0 {
		multiplier = sc.FestivalBonus
		if multiplier > 1.0 {
			applyMultiplier(&actual, multiplier)
		}
	}

	return actual, multiplier, nil
}

// drawRandomReward 盲盒抽取：校验每项权重为正、总权重为正，
// 在 [1, totalWeight] 上均匀取整数，按列表顺序累加权重，
// 取第一个累计权重不小于抽取值的候选项（同权重按列表顺序，不重抽）
func drawRandomReward(tpl *models.GiftCardTemplate, randInt func(int) int) (*models.RandomReward, error) {
	list := tpl.Rewards.RandomRewards
	if len(list) == 0 {
		return nil, &ConfigError{TemplateID: tpl.ID, Reason: "盲盒配置错误：random_rewards 必须是非空数组"}
	}

	totalWeight := 0
	for i := range list {
		if list[i].Weight <= 0 {
			return nil, &ConfigError{
				TemplateID: tpl.ID,
				Reason:     fmt.Sprintf("盲盒配置错误：第 %d 项奖励缺少有效的权重", i+1),
			}
		}
		totalWeight += list[i].Weight
	}
	if totalWeight <= 0 {
		return nil, &ConfigError{TemplateID: tpl.ID, Reason: "盲盒配置错误：总权重必须大于 0"}
	}

	draw := randInt(totalWeight) + 1
	cumulative := 0
	for i := range list {
		cumulative += list[i].Weight
		if draw <= cumulative {
			return &list[i], nil
		}
	}
	return &list[len(list)-1], nil
}

// mergeReward 用抽中条目的非零字段覆盖基础奖励，剥离权重等内部字段
func mergeReward(base *models.RewardPayload, selected *models.RandomReward) {
	r := selected.RewardPayload
	if r.Balance != 0 {
		base.Balance = r.Balance
	}
	if r.TransferEnable != 0 {
		base.TransferEnable = r.TransferEnable
	}
	if r.DeviceLimit != 0 {
		base.DeviceLimit = r.DeviceLimit
	}
	if r.ExpireDays != 0 {
		base.ExpireDays = r.ExpireDays
	}
	if r.ResetPackage {
		base.ResetPackage = true
	}
	if r.PlanID != 0 {
		base.PlanID = r.PlanID
	}
	if r.PlanValidityDays != 0 {
		base.PlanValidityDays = r.PlanValidityDays
	}
	if r.InviteRewardRate != 0 {
		base.InviteRewardRate = r.InviteRewardRate
	}
}

// applyMultiplier 对数量型字段应用倍率并向零截断。
// 套餐 ID、奖励比例、布尔开关不参与加成
func applyMultiplier(r *models.RewardPayload, multiplier float64) {
	r.Balance = int64(float64(r.Balance) * multiplier)
	r.TransferEnable = int64(float64(r.TransferEnable) * multiplier)
	r.DeviceLimit = int(float64(r.DeviceLimit) * multiplier)
	r.ExpireDays = int(float64(r.ExpireDays) * multiplier)
	r.PlanValidityDays = int(float64(r.PlanValidityDays) * multiplier)
}
