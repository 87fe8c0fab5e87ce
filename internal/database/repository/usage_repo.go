// Package repository 礼品卡使用记录仓库
package repository

import (
	"errors"
	"time"

	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"gorm.io/gorm"
)

// GiftCardUsageRepository 使用记录仓库
type GiftCardUsageRepository struct {
	db *gorm.DB
}

// NewGiftCardUsageRepository 创建使用记录仓库
func NewGiftCardUsageRepository() *GiftCardUsageRepository {
	return &GiftCardUsageRepository{db: database.GetDB()}
}

// Create 写入使用记录（事务内）
func (r *GiftCardUsageRepository) Create(tx *gorm.DB, usage *models.GiftCardUsage) error {
	return tx.Create(usage).Error
}

// CountByTemplateUser 统计用户对某模板的历史兑换次数
func (r *GiftCardUsageRepository) CountByTemplateUser(db *gorm.DB, templateID, userID int64) (int64, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.GiftCardUsage{}).
		Where("template_id = ? AND user_id = ?", templateID, userID).
		Count(&count).Error
	return count, err
}

// LatestByTemplateUser 获取用户对某模板最近一次兑换记录，无记录返回 nil
func (r *GiftCardUsageRepository) LatestByTemplateUser(db *gorm.DB, templateID, userID int64) (*models.GiftCardUsage, error) {
	if db == nil {
		db = r.db
	}
	var usage models.GiftCardUsage
	err := db.Where("template_id = ? AND user_id = ?", templateID, userID).
		Order("created_at DESC").
		First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usage, nil
}

// CountSince 统计某时间之后的兑换次数（每日统计任务用）
func (r *GiftCardUsageRepository) CountSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.GiftCardUsage{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
