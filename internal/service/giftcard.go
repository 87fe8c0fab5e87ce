// Package service 礼品卡服务
package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/studycloud111/xboard-go/internal/config"
	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"github.com/studycloud111/xboard-go/internal/database/repository"
	"github.com/studycloud111/xboard-go/pkg/logger"
	"github.com/studycloud111/xboard-go/pkg/utils"
	"gorm.io/gorm"
)

// GiftCardService 礼品卡服务
type GiftCardService struct {
	tplRepo    *repository.GiftCardTemplateRepository
	codeRepo   *repository.GiftCardCodeRepository
	usageRepo  *repository.GiftCardUsageRepository
	userRepo   *repository.UserRepository
	planRepo   *repository.PlanRepository
	userSvc    *UserService
	trafficSvc *TrafficResetService
	cfg        *config.Config
	randInt    func(int) int // 盲盒抽取随机源，测试可替换
}

// NewGiftCardService 创建礼品卡服务
func NewGiftCardService() *GiftCardService {
	return &GiftCardService{
		tplRepo:    repository.NewGiftCardTemplateRepository(),
		codeRepo:   repository.NewGiftCardCodeRepository(),
		usageRepo:  repository.NewGiftCardUsageRepository(),
		userRepo:   repository.NewUserRepository(),
		planRepo:   repository.NewPlanRepository(),
		userSvc:    NewUserService(),
		trafficSvc: NewTrafficResetService(),
		cfg:        config.Get(),
		randInt:    rand.Intn,
	}
}

// loadCode 加载兑换码与所属模板
func (s *GiftCardService) loadCode(db *gorm.DB, codeStr string) (*models.GiftCardCode, *models.GiftCardTemplate, error) {
	code, err := s.codeRepo.GetByCode(db, codeStr)
	if err != nil {
		return nil, nil, ErrCodeNotFound
	}
	tpl, err := s.tplRepo.GetByID(db, code.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("加载礼品卡模板失败: %w", err)
	}
	return code, tpl, nil
}

// validateActive 验证模板与兑换码本身是否可用（不检查用户条件）
func (s *GiftCardService) validateActive(code *models.GiftCardCode, tpl *models.GiftCardTemplate) error {
	if !tpl.IsAvailable() {
		return ErrTemplateDisabled
	}
	if !code.IsAvailable() {
		return &ConflictError{Reason: "兑换码不可用：" + code.StatusName()}
	}
	return nil
}

// ValidateIsActive 验证兑换码本身是否可用
func (s *GiftCardService) ValidateIsActive(codeStr string) error {
	code, tpl, err := s.loadCode(nil, codeStr)
	if err != nil {
		return err
	}
	return s.validateActive(code, tpl)
}

// Validate 验证兑换码与用户资格，预检路径。
// 事务外的结果仅供展示，提交前在事务内复检
func (s *GiftCardService) Validate(codeStr string, userID int64) error {
	code, tpl, err := s.loadCode(nil, codeStr)
	if err != nil {
		return err
	}
	if err := s.validateActive(code, tpl); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(nil, userID)
	if err != nil {
		return ErrUserNotFound
	}
	res, err := s.evalEligibility(nil, tpl, user)
	if err != nil {
		return err
	}
	if !res.CanRedeem {
		return &IneligibleError{ReasonCode: res.ReasonCode, Reason: res.Reason}
	}
	return nil
}

// CheckEligibility 检查用户是否满足兑换条件，返回结构化结果而非错误
func (s *GiftCardService) CheckEligibility(codeStr string, userID int64) (EligibilityResult, error) {
	_, tpl, err := s.loadCode(nil, codeStr)
	if err != nil {
		return EligibilityResult{}, err
	}
	user, err := s.userRepo.GetByID(nil, userID)
	if err != nil {
		return EligibilityResult{}, ErrUserNotFound
	}
	return s.evalEligibility(nil, tpl, user)
}

// evalEligibility 条件检查 + 频率限制检查，预览与事务内复检共用
func (s *GiftCardService) evalEligibility(db *gorm.DB, tpl *models.GiftCardTemplate, user *models.User) (EligibilityResult, error) {
	in := ConditionInput{User: user, Now: time.Now()}
	if tpl.Conditions != nil {
		if tpl.Conditions.PaidUserOnly {
			hasPaid, err := s.userRepo.HasCompletedOrder(db, user.ID)
			if err != nil {
				return EligibilityResult{}, err
			}
			in.HasPaidOrder = hasPaid
		}
		if len(tpl.Conditions.AllowedPlans) > 0 && user.HasPlan() {
			if plan, err := s.planRepo.GetByID(db, *user.PlanID); err == nil {
				in.PlanName = plan.Name
			}
		}
	}

	if res := CheckUserConditions(tpl.Conditions, in); !res.CanRedeem {
		return res, nil
	}

	stats, err := s.usageStats(db, tpl, user.ID)
	if err != nil {
		return EligibilityResult{}, err
	}
	return CheckUsageLimit(tpl.Limits, stats, time.Now()), nil
}

// usageStats 最多一次计数查询；仅配置了冷却且有历史记录时再查最近一次
func (s *GiftCardService) usageStats(db *gorm.DB, tpl *models.GiftCardTemplate, userID int64) (UsageStats, error) {
	var stats UsageStats
	limits := tpl.Limits
	if limits == nil || (limits.MaxUsePerUser <= 0 && limits.CooldownHours <= 0) {
		return stats, nil
	}

	count, err := s.usageRepo.CountByTemplateUser(db, tpl.ID, userID)
	if err != nil {
		return stats, err
	}
	stats.UsedCount = count

	if count > 0 && limits.CooldownHours > 0 {
		last, err := s.usageRepo.LatestByTemplateUser(db, tpl.ID, userID)
		if err != nil {
			return stats, err
		}
		if last != nil {
			t := last.CreatedAt
			stats.LastUsedAt = &t
		}
	}
	return stats, nil
}

// RedeemResult 兑换结果
type RedeemResult struct {
	Rewards       models.RewardPayload  `json:"rewards"`
	InviteRewards *models.InviteRewards `json:"invite_rewards,omitempty"`
	Code          string                `json:"code"`
	TemplateName  string                `json:"template_name"`
	OperationInfo *PlanOperation        `json:"operation_info,omitempty"`
	Multiplier    float64               `json:"multiplier"`
}

// Redeem 兑换礼品卡。整个流程在单个数据库事务内执行：行锁重读兑换码
// 与用户，复检可用性与资格（防止预检与提交之间状态变化），计算并固定
// 奖励，发放奖励与邀请奖励，消耗兑换码并写使用记录。任何一步失败整体
// 回滚，不会出现部分发放
func (s *GiftCardService) Redeem(codeStr string, userID int64, options map[string]interface{}) (*RedeemResult, error) {
	if s.cfg != nil && !s.cfg.GiftCard.Exchange {
		return nil, ErrExchangeDisabled
	}

	var result *RedeemResult
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		// 1. 行锁读取兑换码与用户，拿到权威状态
		code, err := s.codeRepo.GetByCodeForUpdate(tx, codeStr)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}
		tpl, err := s.tplRepo.GetByID(tx, code.TemplateID)
		if err != nil {
			return fmt.Errorf("加载礼品卡模板失败: %w", err)
		}
		user, err := s.userRepo.GetByIDForUpdate(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// 2. 复检可用性：并发的另一笔兑换可能已消耗最后一次使用
		if !tpl.IsAvailable() {
			return ErrTemplateDisabled
		}
		if !code.IsAvailable() {
			return &ConflictError{Reason: "兑换码已被使用或不可用"}
		}

		// 3. 复检用户资格
		res, err := s.evalEligibility(tx, tpl, user)
		if err != nil {
			return err
		}
		if !res.CanRedeem {
			return &IneligibleError{ReasonCode: res.ReasonCode, Reason: res.Reason}
		}

		// 4. 奖励只计算一次；盲盒抽取结果固定到兑换码，之后查看不再重抽
		rewards, multiplier, err := CalculateActualRewards(tpl, time.Now(), s.randInt)
		if err != nil {
			return err
		}
		if tpl.Type == models.TemplateTypeMystery {
			if err := s.codeRepo.PinActualRewards(tx, code.ID, &rewards); err != nil {
				return &ApplicationError{Op: "固定盲盒奖励失败", Err: err}
			}
		}

		// 5. 发放奖励
		opInfo, err := s.applyRewards(tx, tpl, code, user, &rewards)
		if err != nil {
			return err
		}

		// 6. 邀请奖励：邀请人缺失或被封禁时静默跳过，不阻塞主流程
		var inviteRewards *models.InviteRewards
		if user.InviteUserID != nil && rewards.InviteRewardRate > 0 {
			inviteRewards = s.giveInviteRewards(tx, user, &rewards)
		}

		// 7. 持久化用户、消耗兑换码、追加使用记录
		if err := s.userRepo.Save(tx, user); err != nil {
			return &ApplicationError{Op: "用户信息更新失败", Err: err}
		}
		consumed, err := s.codeRepo.Consume(tx, code.ID, user.ID)
		if err != nil {
			return &ApplicationError{Op: "更新兑换码失败", Err: err}
		}
		if !consumed {
			return &ConflictError{Reason: "兑换码已被使用或不可用"}
		}

		usage := &models.GiftCardUsage{
			UUID:          uuid.New().String(),
			CodeID:        code.ID,
			TemplateID:    tpl.ID,
			UserID:        user.ID,
			InviteUserID:  user.InviteUserID,
			Rewards:       rewards,
			InviteRewards: inviteRewards,
			Multiplier:    multiplier,
			Options:       options,
		}
		if err := s.usageRepo.Create(tx, usage); err != nil {
			return &ApplicationError{Op: "写入使用记录失败", Err: err}
		}

		result = &RedeemResult{
			Rewards:       rewards,
			InviteRewards: inviteRewards,
			Code:          code.Code,
			TemplateName:  tpl.Name,
			OperationInfo: opInfo,
			Multiplier:    multiplier,
		}
		return nil
	})
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			logger.Error().
				Int64("template", cfgErr.TemplateID).
				Str("code", codeStr).
				Msg(cfgErr.Reason)
		}
		return nil, err
	}

	logger.Info().
		Str("code", codeStr).
		Int64("user", userID).
		Float64("multiplier", result.Multiplier).
		Msg("礼品卡兑换成功")
	return result, nil
}

// applyRewards 发放奖励到用户。静态字段直接累加，重置流量仅对持有套餐
// 的用户生效；套餐发放与裸延期互斥，由奖励的发放分支决定
func (s *GiftCardService) applyRewards(tx *gorm.DB, tpl *models.GiftCardTemplate, code *models.GiftCardCode, user *models.User, rewards *models.RewardPayload) (*PlanOperation, error) {
	if rewards.Balance > 0 {
		if err := s.userSvc.AddBalance(tx, user.ID, rewards.Balance); err != nil {
			return nil, &ApplicationError{Op: "余额发放失败", Err: err}
		}
		// 行锁保护下同步内存快照，后续 Save 不会回写旧值
		user.Balance += rewards.Balance
	}
	if rewards.TransferEnable > 0 {
		user.TransferEnable += rewards.TransferEnable
	}
	if rewards.DeviceLimit > 0 {
		user.DeviceLimit += rewards.DeviceLimit
	}

	if rewards.ResetPackage && user.HasPlan() {
		if err := s.trafficSvc.PerformGiftCardReset(tx, user, code.Code, tpl.Name); err != nil {
			return nil, &ApplicationError{Op: "流量重置失败", Err: err}
		}
	}

	grant := rewards.Grant()
	switch grant.Kind {
	case models.GrantPlan:
		plan, err := s.planRepo.GetByID(tx, grant.PlanID)
		if err != nil {
			logger.Error().
				Int64("plan", grant.PlanID).
				Int64("template", tpl.ID).
				Str("code", code.Code).
				Msg("礼品卡套餐不存在")
			return nil, &ConfigError{TemplateID: tpl.ID, Reason: "礼品卡配置的套餐不存在，请联系管理员"}
		}

		currentPlanName := ""
		if user.HasPlan() && *user.PlanID != plan.ID {
			if cur, err := s.planRepo.GetByID(tx, *user.PlanID); err == nil {
				currentPlanName = cur.Name
			}
		}

		op := ResolvePlanOperation(user, currentPlanName, plan, grant.ValidityDays)
		switch op.Action {
		case PlanActionExtend:
			// 延长 0 天视为无操作
			if grant.ValidityDays <= 0 {
				return nil, nil
			}
			s.userSvc.ExtendSubscription(user, grant.ValidityDays)
			op.Message = fmt.Sprintf("套餐「%s」有效期已延长 %d 天", plan.Name, grant.ValidityDays)
		case PlanActionReplace:
			if err := s.trafficSvc.PerformGiftCardReset(tx, user, code.Code, tpl.Name); err != nil {
				return nil, &ApplicationError{Op: "流量重置失败", Err: err}
			}
			s.userSvc.AssignPlan(user, plan, grant.ValidityDays)
			op.Message = fmt.Sprintf("套餐已从「%s」更换为「%s」，流量已重置", op.CurrentPlanName, plan.Name)
		case PlanActionAssign:
			s.userSvc.AssignPlan(user, plan, grant.ValidityDays)
			op.Message = fmt.Sprintf("已分配套餐「%s」", plan.Name)
		}
		return op, nil

	case models.GrantExtend:
		s.userSvc.ExtendSubscription(user, grant.ExpireDays)
	}
	return nil, nil
}

// giveInviteRewards 发放邀请人奖励：余额与流量按比例向下取整独立计算，
// 非正的分成直接省略；只记录实际发放成功的字段。
// 套餐类奖励不参与邀请分成
func (s *GiftCardService) giveInviteRewards(tx *gorm.DB, user *models.User, rewards *models.RewardPayload) *models.InviteRewards {
	inviter, err := s.userRepo.GetByID(tx, *user.InviteUserID)
	if err != nil {
		logger.Warn().
			Int64("user", user.ID).
			Int64("inviter", *user.InviteUserID).
			Msg("邀请人不存在，跳过奖励发放")
		return nil
	}
	if inviter.Banned {
		logger.Info().
			Int64("user", user.ID).
			Int64("inviter", inviter.ID).
			Msg("邀请人已被封禁，跳过奖励发放")
		return nil
	}

	rate := rewards.InviteRewardRate
	granted := &models.InviteRewards{}

	if rewards.Balance > 0 {
		share := int64(float64(rewards.Balance) * rate)
		if share > 0 {
			if ok, err := s.userRepo.AddBalance(tx, inviter.ID, share); err == nil && ok {
				granted.Balance = share
				logger.Info().
					Int64("inviter", inviter.ID).
					Int64("balance", share).
					Msg("邀请人获得余额奖励")
			}
		}
	}
	if rewards.TransferEnable > 0 {
		share := int64(float64(rewards.TransferEnable) * rate)
		if share > 0 {
			if ok, err := s.userRepo.AddTransferEnable(tx, inviter.ID, share); err == nil && ok {
				granted.TransferEnable = share
				logger.Info().
					Int64("inviter", inviter.ID).
					Int64("transfer", share).
					Msg("邀请人获得流量奖励")
			}
		}
	}

	if granted.IsEmpty() {
		return nil
	}
	return granted
}

// RewardItem 预览奖励条目
type RewardItem struct {
	Raw         interface{} `json:"raw"`
	Formatted   string      `json:"formatted"`
	Description string      `json:"description"`
}

// RewardPreview 奖励预览
type RewardPreview struct {
	Raw       models.RewardPayload   `json:"raw"`
	Formatted map[string]interface{} `json:"formatted"`
}

// PreviewRewards 预览奖励（不实际发放）。盲盒预览是一次假设性抽取，
// 实际兑换时在事务内重新抽取并固定，预览结果不代表最终奖励
func (s *GiftCardService) PreviewRewards(codeStr string, userID int64) (*RewardPreview, error) {
	_, tpl, err := s.loadCode(nil, codeStr)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(nil, userID); err != nil {
		return nil, ErrUserNotFound
	}

	rewards, _, err := CalculateActualRewards(tpl, time.Now(), s.randInt)
	if err != nil {
		return nil, err
	}

	formatted := map[string]interface{}{}
	if rewards.Balance > 0 {
		formatted["balance"] = RewardItem{
			Raw:         rewards.Balance,
			Formatted:   utils.FormatBalance(rewards.Balance),
			Description: "余额奖励",
		}
	}
	if rewards.TransferEnable > 0 {
		formatted["transfer_enable"] = RewardItem{
			Raw:         rewards.TransferEnable,
			Formatted:   utils.FormatTraffic(rewards.TransferEnable),
			Description: "流量奖励",
		}
	}
	if rewards.DeviceLimit > 0 {
		formatted["device_limit"] = RewardItem{
			Raw:         rewards.DeviceLimit,
			Formatted:   fmt.Sprintf("%d 个设备", rewards.DeviceLimit),
			Description: "设备数奖励",
		}
	}
	if rewards.ExpireDays > 0 {
		formatted["expire_days"] = RewardItem{
			Raw:         rewards.ExpireDays,
			Formatted:   fmt.Sprintf("%d 天", rewards.ExpireDays),
			Description: "有效期延长",
		}
	}
	if rewards.ResetPackage {
		formatted["reset_package"] = RewardItem{
			Raw:         true,
			Formatted:   "是",
			Description: "重置流量",
		}
	}
	if rewards.PlanID > 0 {
		planName := "未知套餐"
		if plan, err := s.planRepo.GetByIDCached(rewards.PlanID); err == nil {
			planName = plan.Name
		}
		formatted["plan"] = map[string]interface{}{
			"id":            rewards.PlanID,
			"name":          planName,
			"description":   "套餐奖励",
			"validity_days": rewards.PlanValidityDays,
		}
	}

	return &RewardPreview{Raw: rewards, Formatted: formatted}, nil
}

// PredictPlanOperation 预判套餐操作（预检接口用），非套餐奖励返回 nil
func (s *GiftCardService) PredictPlanOperation(codeStr string, userID int64) (*PlanOperation, error) {
	_, tpl, err := s.loadCode(nil, codeStr)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(nil, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	planID := tpl.Rewards.PlanID
	if planID <= 0 {
		return nil, nil
	}
	plan, err := s.planRepo.GetByIDCached(planID)
	if err != nil {
		return nil, nil
	}

	currentPlanName := ""
	if user.HasPlan() && *user.PlanID != plan.ID {
		if cur, err := s.planRepo.GetByIDCached(*user.PlanID); err == nil {
			currentPlanName = cur.Name
		}
	}
	return ResolvePlanOperation(user, currentPlanName, plan, tpl.Rewards.PlanValidityDays), nil
}

// TemplateInfo 模板公开信息
type TemplateInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Type            int    `json:"type"`
	TypeName        string `json:"type_name"`
	Icon            string `json:"icon"`
	BackgroundImage string `json:"background_image"`
	ThemeColor      string `json:"theme_color"`
}

// PlanInfo 套餐公开信息
type PlanInfo struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	TransferEnable int64  `json:"transfer_enable"`
	DeviceLimit    int    `json:"device_limit"`
}

// CodeInfo 兑换码公开信息（不含敏感字段）
type CodeInfo struct {
	Code       string       `json:"code"`
	Template   TemplateInfo `json:"template"`
	Status     int          `json:"status"`
	StatusName string       `json:"status_name"`
	ExpiresAt  *time.Time   `json:"expires_at,omitempty"`
	UsageCount int          `json:"usage_count"`
	MaxUsage   int          `json:"max_usage"`
	PlanInfo   *PlanInfo    `json:"plan_info,omitempty"`
}

// ListActiveTemplates 列出启用中的礼品卡模板（卡片商城展示用）
func (s *GiftCardService) ListActiveTemplates() ([]TemplateInfo, error) {
	tpls, err := s.tplRepo.GetActive()
	if err != nil {
		return nil, err
	}
	infos := make([]TemplateInfo, 0, len(tpls))
	for i := range tpls {
		t := &tpls[i]
		infos = append(infos, TemplateInfo{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			Type:            t.Type,
			TypeName:        t.TypeName(),
			Icon:            t.Icon,
			BackgroundImage: t.BackgroundImage,
			ThemeColor:      t.ThemeColor,
		})
	}
	return infos, nil
}

// GetCodeInfo 获取兑换码公开信息
func (s *GiftCardService) GetCodeInfo(codeStr string) (*CodeInfo, error) {
	code, tpl, err := s.loadCode(nil, codeStr)
	if err != nil {
		return nil, err
	}

	info := &CodeInfo{
		Code: code.Code,
		Template: TemplateInfo{
			ID:              tpl.ID,
			Name:            tpl.Name,
			Description:     tpl.Description,
			Type:            tpl.Type,
			TypeName:        tpl.TypeName(),
			Icon:            tpl.Icon,
			BackgroundImage: tpl.BackgroundImage,
			ThemeColor:      tpl.ThemeColor,
		},
		Status:     code.Status,
		StatusName: code.StatusName(),
		ExpiresAt:  code.ExpiresAt,
		UsageCount: code.UsageCount,
		MaxUsage:   code.MaxUsage,
	}

	if tpl.Type == models.TemplateTypePlan && tpl.Rewards.PlanID > 0 {
		if plan, err := s.planRepo.GetByIDCached(tpl.Rewards.PlanID); err == nil {
			info.PlanInfo = &PlanInfo{
				ID:             plan.ID,
				Name:           plan.Name,
				TransferEnable: plan.TransferEnable,
				DeviceLimit:    plan.DeviceLimit,
			}
		}
	}
	return info, nil
}
