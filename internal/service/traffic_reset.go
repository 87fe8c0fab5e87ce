// Package service 流量重置服务
package service

import (
	"time"

	"github.com/studycloud111/xboard-go/internal/database/models"
	"github.com/studycloud111/xboard-go/internal/database/repository"
	"github.com/studycloud111/xboard-go/pkg/logger"
	"gorm.io/gorm"
)

// TrafficResetService 流量重置服务，每次重置写审计日志
type TrafficResetService struct {
	logRepo *repository.TrafficResetLogRepository
}

// NewTrafficResetService 创建流量重置服务
func NewTrafficResetService() *TrafficResetService {
	return &TrafficResetService{
		logRepo: repository.NewTrafficResetLogRepository(),
	}
}

// PerformGiftCardReset 执行礼品卡触发的流量重置：清零计数器、记录重置时间、
// 递增重置次数，并写入携带前后流量与触发来源的审计日志。
// 用户字段修改在内存中完成，由调用方在同一事务内保存
func (s *TrafficResetService) PerformGiftCardReset(tx *gorm.DB, user *models.User, code string, templateName string) error {
	oldUpload := user.U
	oldDownload := user.D
	oldTotal := oldUpload + oldDownload

	now := time.Now()
	user.U = 0
	user.D = 0
	user.LastResetAt = &now
	user.ResetCount++

	entry := &models.TrafficResetLog{
		UserID:        user.ID,
		ResetTime:     now.Unix(),
		TriggerSource: models.ResetSourceGiftCard,
		OldUpload:     oldUpload,
		OldDownload:   oldDownload,
		OldTotal:      oldTotal,
		NewUpload:     0,
		NewDownload:   0,
		NewTotal:      0,
		Metadata: map[string]string{
			"gift_card_code": code,
			"template_name":  templateName,
		},
	}

	if err := s.logRepo.Create(tx, entry); err != nil {
		logger.Error().Err(err).Int64("user", user.ID).Str("code", code).Msg("写入流量重置日志失败")
		return err
	}

	logger.Info().
		Int64("user", user.ID).
		Int64("oldTotal", oldTotal).
		Str("source", models.ResetSourceGiftCard).
		Msg("流量已重置")
	return nil
}
