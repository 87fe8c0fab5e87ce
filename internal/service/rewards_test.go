package service

import (
	"errors"
	"testing"
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
)

// fixedRand 返回固定值的随机源，drawn = randInt(total) + 1
func fixedRand(v int) func(int) int {
	return func(int) int { return v }
}

func TestCalculateActualRewards_Static(t *testing.T) {
	tpl := &models.GiftCardTemplate{
		Type: models.TemplateTypeGeneral,
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{Balance: 1000, TransferEnable: 1 << 30},
		},
	}

	rewards, multiplier, err := CalculateActualRewards(tpl, time.Now(), fixedRand(0))
	if err != nil {
		t.Fatalf("CalculateActualRewards() error = %v", err)
	}
	if rewards.Balance != 1000 || rewards.TransferEnable != 1<<30 {
		t.Errorf("静态奖励应原样返回, got %+v", rewards)
	}
	if multiplier != 1.0 {
		t.Errorf("非节日倍率应为 1.0, got %v", multiplier)
	}
}

func TestCalculateActualRewards_MysteryDraw(t *testing.T) {
	tpl := &models.GiftCardTemplate{
		Type: models.TemplateTypeMystery,
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{InviteRewardRate: 0.2},
			RandomRewards: []models.RandomReward{
				{Weight: 10, RewardPayload: models.RewardPayload{Balance: 100}},
				{Weight: 30, RewardPayload: models.RewardPayload{Balance: 500}},
				{Weight: 60, RewardPayload: models.RewardPayload{Balance: 2000}},
			},
		},
	}

	tests := []struct {
		name        string
		draw        int // randInt 返回值，实际抽取值 = draw+1
		wantBalance int64
	}{
		{"抽取值 1 命中第一项", 0, 100},
		{"抽取值 10 恰好命中第一项边界", 9, 100},
		{"抽取值 11 命中第二项", 10, 500},
		{"抽取值 40 恰好命中第二项边界", 39, 500},
		{"抽取值 100 命中最后一项", 99, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewards, _, err := CalculateActualRewards(tpl, time.Now(), fixedRand(tt.draw))
			if err != nil {
				t.Fatalf("CalculateActualRewards() error = %v", err)
			}
			if rewards.Balance != tt.wantBalance {
				t.Errorf("Balance = %d, want %d", rewards.Balance, tt.wantBalance)
			}
			// 基础配置中的非抽取字段保留
			if rewards.InviteRewardRate != 0.2 {
				t.Errorf("InviteRewardRate = %v, want 0.2", rewards.InviteRewardRate)
			}
		})
	}
}

func TestCalculateActualRewards_MysteryAbsentList(t *testing.T) {
	// 盲盒类型但未配置 random_rewards 键：按静态奖励处理，不报错
	tpl := &models.GiftCardTemplate{
		Type: models.TemplateTypeMystery,
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{Balance: 300},
		},
	}
	rewards, _, err := CalculateActualRewards(tpl, time.Now(), fixedRand(0))
	if err != nil {
		t.Fatalf("未配置抽取列表不应报错, got %v", err)
	}
	if rewards.Balance != 300 {
		t.Errorf("Balance = %d, want 300", rewards.Balance)
	}
}

func TestCalculateActualRewards_MysteryConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		rewards []models.RandomReward
	}{
		{"空列表", []models.RandomReward{}},
		{"权重为零", []models.RandomReward{{Weight: 0, RewardPayload: models.RewardPayload{Balance: 100}}}},
		{"权重为负", []models.RandomReward{{Weight: -5, RewardPayload: models.RewardPayload{Balance: 100}}}},
		{"部分项缺少权重", []models.RandomReward{
			{Weight: 10, RewardPayload: models.RewardPayload{Balance: 100}},
			{Weight: 0, RewardPayload: models.RewardPayload{Balance: 200}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := &models.GiftCardTemplate{
				ID:   7,
				Type: models.TemplateTypeMystery,
				Rewards: models.Rewards{
					RandomRewards: tt.rewards,
				},
			}
			_, _, err := CalculateActualRewards(tpl, time.Now(), fixedRand(0))
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("应返回 ConfigError, got %v", err)
			}
			if cfgErr.TemplateID != 7 {
				t.Errorf("TemplateID = %d, want 7", cfgErr.TemplateID)
			}
		})
	}
}

func TestCalculateActualRewards_FestivalBonus(t *testing.T) {
	now := time.Now()
	festival := &models.SpecialConfig{
		StartTime:     now.Unix() - 3600,
		EndTime:       now.Unix() + 3600,
		FestivalBonus: 1.5,
	}

	tpl := &models.GiftCardTemplate{
		Type:          models.TemplateTypeGeneral,
		SpecialConfig: festival,
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{
				Balance:          1001,
				TransferEnable:   1000,
				DeviceLimit:      3,
				ExpireDays:       5,
				PlanID:           9,
				PlanValidityDays: 10,
				InviteRewardRate: 0.2,
			},
		},
	}

	rewards, multiplier, err := CalculateActualRewards(tpl, now, fixedRand(0))
	if err != nil {
		t.Fatalf("CalculateActualRewards() error = %v", err)
	}
	if multiplier != 1.5 {
		t.Errorf("multiplier = %v, want 1.5", multiplier)
	}
	// 数量字段按倍率放大并向零截断
	if rewards.Balance != 1501 {
		t.Errorf("Balance = %d, want 1501", rewards.Balance)
	}
	if rewards.TransferEnable != 1500 {
		t.Errorf("TransferEnable = %d, want 1500", rewards.TransferEnable)
	}
	if rewards.DeviceLimit != 4 {
		t.Errorf("DeviceLimit = %d, want 4", rewards.DeviceLimit)
	}
	if rewards.ExpireDays != 7 {
		t.Errorf("ExpireDays = %d, want 7", rewards.ExpireDays)
	}
	if rewards.PlanValidityDays != 15 {
		t.Errorf("PlanValidityDays = %d, want 15", rewards.PlanValidityDays)
	}
	// 套餐 ID 与邀请比例不参与加成
	if rewards.PlanID != 9 {
		t.Errorf("PlanID = %d, want 9", rewards.PlanID)
	}
	if rewards.InviteRewardRate != 0.2 {
		t.Errorf("InviteRewardRate = %v, want 0.2", rewards.InviteRewardRate)
	}
}

func TestCalculateActualRewards_FestivalBonusOne(t *testing.T) {
	// 倍率为 1.0 时记录倍率但不缩放
	now := time.Now()
	tpl := &models.GiftCardTemplate{
		Type: models.TemplateTypeGeneral,
		SpecialConfig: &models.SpecialConfig{
			StartTime:     now.Unix() - 100,
			EndTime:       now.Unix() + 100,
			FestivalBonus: 1.0,
		},
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{Balance: 777},
		},
	}

	rewards, multiplier, err := CalculateActualRewards(tpl, now, fixedRand(0))
	if err != nil {
		t.Fatalf("CalculateActualRewards() error = %v", err)
	}
	if multiplier != 1.0 {
		t.Errorf("multiplier = %v, want 1.0", multiplier)
	}
	if rewards.Balance != 777 {
		t.Errorf("Balance = %d, want 777", rewards.Balance)
	}
}

func TestCalculateActualRewards_OutsideFestival(t *testing.T) {
	now := time.Now()
	tpl := &models.GiftCardTemplate{
		Type: models.TemplateTypeGeneral,
		SpecialConfig: &models.SpecialConfig{
			StartTime:     now.Unix() - 7200,
			EndTime:       now.Unix() - 3600,
			FestivalBonus: 2.0,
		},
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{Balance: 100},
		},
	}

	rewards, multiplier, err := CalculateActualRewards(tpl, now, fixedRand(0))
	if err != nil {
		t.Fatalf("CalculateActualRewards() error = %v", err)
	}
	if multiplier != 1.0 || rewards.Balance != 100 {
		t.Errorf("窗口外不应加成, multiplier=%v balance=%d", multiplier, rewards.Balance)
	}
}

func TestMergeReward_NonZeroOverride(t *testing.T) {
	tpl := &models.GiftCardTemplate{
		Type: models.TemplateTypeMystery,
		Rewards: models.Rewards{
			RewardPayload: models.RewardPayload{Balance: 50, TransferEnable: 100, InviteRewardRate: 0.1},
			RandomRewards: []models.RandomReward{
				{Weight: 1, RewardPayload: models.RewardPayload{Balance: 999}},
			},
		},
	}

	rewards, _, err := CalculateActualRewards(tpl, time.Now(), fixedRand(0))
	if err != nil {
		t.Fatalf("CalculateActualRewards() error = %v", err)
	}
	// 抽中项的非零字段覆盖基础配置，零值字段保留基础值
	if rewards.Balance != 999 {
		t.Errorf("Balance = %d, want 999", rewards.Balance)
	}
	if rewards.TransferEnable != 100 {
		t.Errorf("TransferEnable = %d, want 100", rewards.TransferEnable)
	}
	if rewards.InviteRewardRate != 0.1 {
		t.Errorf("InviteRewardRate = %v, want 0.1", rewards.InviteRewardRate)
	}
}
