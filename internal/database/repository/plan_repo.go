// Package repository 套餐数据仓库
package repository

import (
	"fmt"
	"time"

	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"github.com/studycloud111/xboard-go/pkg/utils"
	"gorm.io/gorm"
)

// PlanRepository 套餐仓库
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建套餐仓库
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{db: database.GetDB()}
}

// GetByID 根据 ID 获取套餐。db 传 nil 时使用默认连接
func (r *PlanRepository) GetByID(db *gorm.DB, id int64) (*models.Plan, error) {
	if db == nil {
		db = r.db
	}
	var plan models.Plan
	err := db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByIDCached 带缓存获取套餐。套餐是只读引用数据，预览接口高频访问
func (r *PlanRepository) GetByIDCached(id int64) (*models.Plan, error) {
	key := fmt.Sprintf("plan:%d", id)
	val, err := utils.CacheGetOrSet(key, 5*time.Minute, func() (interface{}, error) {
		return r.GetByID(nil, id)
	})
	if err != nil {
		return nil, err
	}
	return val.(*models.Plan), nil
}
