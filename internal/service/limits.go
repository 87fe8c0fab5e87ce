// Package service 礼品卡使用频率限制
package service

import (
	"fmt"
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
	"github.com/studycloud111/xboard-go/pkg/utils"
)

// UsageStats 用户对某模板的历史使用统计。
// 获取时最多一次计数查询加一次最近记录查询，预览与事务路径共用
type UsageStats struct {
	UsedCount  int64
	LastUsedAt *time.Time
}

// CheckUsageLimit 检查使用频率限制：先查最大使用次数，再查冷却时间
func CheckUsageLimit(limits *models.Limits, stats UsageStats, now time.Time) EligibilityResult {
	if limits == nil {
		return eligible()
	}

	if limits.MaxUsePerUser > 0 && stats.UsedCount >= int64(limits.MaxUsePerUser) {
		return ineligible("max_use_reached",
			fmt.Sprintf("您已达到此礼品卡的最大使用次数限制（已使用 %d/%d 次）", stats.UsedCount, limits.MaxUsePerUser))
	}

	if limits.CooldownHours > 0 && stats.LastUsedAt != nil {
		cooldownEnd := stats.LastUsedAt.Add(time.Duration(limits.CooldownHours) * time.Hour)
		if now.Before(cooldownEnd) {
			hours, minutes := utils.FormatRemainTime(cooldownEnd.Sub(now))
			return ineligible("cooldown_active",
				fmt.Sprintf("此礼品卡有冷却时间限制，请在 %d 小时 %d 分钟后再试", hours, minutes))
		}
	}

	return eligible()
}
