// Package repository 用户数据仓库
package repository

import (
	"github.com/studycloud111/xboard-go/internal/database"
	"github.com/studycloud111/xboard-go/internal/database/models"
	"gorm.io/gorm"
)

// UserRepository 用户仓库
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository() *UserRepository {
	return &UserRepository{db: database.GetDB()}
}

// GetByID 根据 ID 获取用户。db 传 nil 时使用默认连接
func (r *UserRepository) GetByID(db *gorm.DB, id int64) (*models.User, error) {
	if db == nil {
		db = r.db
	}
	var user models.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDForUpdate 事务内带行锁读取用户
func (r *UserRepository) GetByIDForUpdate(tx *gorm.DB, id int64) (*models.User, error) {
	var user models.User
	err := lockForUpdate(tx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save 保存用户（事务内）
func (r *UserRepository) Save(tx *gorm.DB, user *models.User) error {
	return tx.Save(user).Error
}

// AddBalance 原子增加用户余额，返回是否命中用户
func (r *UserRepository) AddBalance(tx *gorm.DB, userID int64, amount int64) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddTransferEnable 原子增加用户可用流量
func (r *UserRepository) AddTransferEnable(tx *gorm.DB, userID int64, bytes int64) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("transfer_enable", gorm.Expr("transfer_enable + ?", bytes))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HasCompletedOrder 用户是否存在已完成订单
func (r *UserRepository) HasCompletedOrder(db *gorm.DB, userID int64) (bool, error) {
	if db == nil {
		db = r.db
	}
	var count int64
	err := db.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusCompleted).
		Count(&count).Error
	return count > 0, err
}
