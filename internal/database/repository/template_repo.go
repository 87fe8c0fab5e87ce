// Package repository 礼品卡模板数据仓库
package repository

import (
	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"gorm.io/gorm"
)

// GiftCardTemplateRepository 礼品卡模板仓库
type GiftCardTemplateRepository struct {
	db *gorm.DB
}

// NewGiftCardTemplateRepository 创建礼品卡模板仓库
func NewGiftCardTemplateRepository() *GiftCardTemplateRepository {
	return &GiftCardTemplateRepository{db: database.GetDB()}
}

// GetByID 根据 ID 获取模板。db 传 nil 时使用默认连接，事务内复用事务连接
func (r *GiftCardTemplateRepository) GetByID(db *gorm.DB, id int64) (*models.GiftCardTemplate, error) {
	if db == nil {
		db = r.db
	}
	var tpl models.GiftCardTemplate
	err := db.Where("id = ?", id).First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// GetActive 获取所有启用的模板（按排序）
func (r *GiftCardTemplateRepository) GetActive() ([]models.GiftCardTemplate, error) {
	var tpls []models.GiftCardTemplate
	err := r.db.Where("status = ?", true).Order("sort ASC").Find(&tpls).Error
	return tpls, err
}
