// Package repository 兑换码数据仓库
package repository

import (
	"time"

	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate 行锁读。SQLite 不支持 FOR UPDATE，测试环境下跳过
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GiftCardCodeRepository 兑换码仓库
type GiftCardCodeRepository struct {
	db *gorm.DB
}

// NewGiftCardCodeRepository 创建兑换码仓库
func NewGiftCardCodeRepository() *GiftCardCodeRepository {
	return &GiftCardCodeRepository{db: database.GetDB()}
}

// GetByCode 根据兑换码字符串获取。db 传 nil 时使用默认连接
func (r *GiftCardCodeRepository) GetByCode(db *gorm.DB, code string) (*models.GiftCardCode, error) {
	if db == nil {
		db = r.db
	}
	var c models.GiftCardCode
	err := db.Where("code = ?", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByCodeForUpdate 事务内带行锁读取兑换码
func (r *GiftCardCodeRepository) GetByCodeForUpdate(tx *gorm.DB, code string) (*models.GiftCardCode, error) {
	var c models.GiftCardCode
	err := lockForUpdate(tx).Where("code = ?", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// PinActualRewards 固定盲盒奖励（只写一次，后续查看不再重抽）。
// 通过模型字段更新，让 serializer:json 负责序列化
func (r *GiftCardCodeRepository) PinActualRewards(tx *gorm.DB, codeID int64, rewards *models.RewardPayload) error {
	return tx.Model(&models.GiftCardCode{}).
		Where("id = ? AND actual_rewards IS NULL", codeID).
		Select("actual_rewards").
		Updates(&models.GiftCardCode{ActualRewards: rewards}).Error
}

// Consume 消耗一次使用次数。条件更新保证并发下最后一次使用只被一个事务拿到
func (r *GiftCardCodeRepository) Consume(tx *gorm.DB, codeID int64, userID int64) (bool, error) {
	now := time.Now()
	result := tx.Model(&models.GiftCardCode{}).
		Where("id = ? AND status = ? AND usage_count < max_usage", codeID, models.CodeStatusAvailable).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"used_user_id": userID,
			"used_at":      now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	// 达到最大次数后流转到已使用状态
	err := tx.Model(&models.GiftCardCode{}).
		Where("id = ? AND usage_count >= max_usage", codeID).
		Update("status", models.CodeStatusUsed).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkExpired 批量标记过期的兑换码，返回影响行数
func (r *GiftCardCodeRepository) MarkExpired() (int64, error) {
	result := r.db.Model(&models.GiftCardCode{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.CodeStatusAvailable, time.Now()).
		Update("status", models.CodeStatusExpired)
	return result.RowsAffected, result.Error
}

// CountByStatus 按状态统计兑换码数量
func (r *GiftCardCodeRepository) CountByStatus(status int) (int64, error) {
	var count int64
	err := r.db.Model(&models.GiftCardCode{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
