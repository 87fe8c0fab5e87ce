// Package service 用户账户服务
package service

import (
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
	"github.com/studycloud111/xboard-go/internal/database/repository"
	"github.com/studycloud111/xboard-go/pkg/logger"
	"gorm.io/gorm"
)

// UserService 用户账户服务：余额、订阅期、套餐分配
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService 创建用户账户服务
func NewUserService() *UserService {
	return &UserService{
		userRepo: repository.NewUserRepository(),
	}
}

// AddBalance 给用户增加余额（原子更新）
func (s *UserService) AddBalance(tx *gorm.DB, userID int64, amount int64) error {
	ok, err := s.userRepo.AddBalance(tx, userID, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// ExtendSubscription 延长订阅有效期。未过期在现有到期时间基础上延长，
// 已过期或无到期时间从当前时间起算。days <= 0 不做任何变更
func (s *UserService) ExtendSubscription(user *models.User, days int) {
	if days <= 0 {
		return
	}

	now := time.Now()
	base := now
	if user.ExpiredAt != nil && user.ExpiredAt.After(now) {
		base = *user.ExpiredAt
	}
	newExpiry := base.AddDate(0, 0, days)
	user.ExpiredAt = &newExpiry

	logger.Debug().
		Int64("user", user.ID).
		Int("days", days).
		Time("newExpiry", newExpiry).
		Msg("延长订阅有效期")
}

// AssignPlan 给用户分配套餐：设置套餐 ID、套餐额度，从当前时间起算有效期。
// validityDays <= 0 时视为长期套餐，清空到期时间
func (s *UserService) AssignPlan(user *models.User, plan *models.Plan, validityDays int) {
	planID := plan.ID
	user.PlanID = &planID

	if plan.TransferEnable > 0 {
		user.TransferEnable = plan.TransferEnable
	}
	if plan.DeviceLimit > 0 {
		user.DeviceLimit = plan.DeviceLimit
	}

	if validityDays > 0 {
		expiry := time.Now().AddDate(0, 0, validityDays)
		user.ExpiredAt = &expiry
	} else {
		user.ExpiredAt = nil
	}

	logger.Debug().
		Int64("user", user.ID).
		Int64("plan", plan.ID).
		Int("validityDays", validityDays).
		Msg("分配套餐")
}
