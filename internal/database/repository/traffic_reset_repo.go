// Package repository 流量重置日志仓库
package repository

import (
	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"gorm.io/gorm"
)

// TrafficResetLogRepository 流量重置日志仓库
type TrafficResetLogRepository struct {
	db *gorm.DB
}

// NewTrafficResetLogRepository 创建流量重置日志仓库
func NewTrafficResetLogRepository() *TrafficResetLogRepository {
	return &TrafficResetLogRepository{db: database.GetDB()}
}

// Create 写入重置日志（事务内）
func (r *TrafficResetLogRepository) Create(tx *gorm.DB, log *models.TrafficResetLog) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(log).Error
}
