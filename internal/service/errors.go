// Package service 礼品卡服务错误定义
package service

import (
	"errors"
	"fmt"
)

var (
	ErrCodeNotFound     = errors.New("兑换码不存在")
	ErrTemplateDisabled = errors.New("该礼品卡类型已停用")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrUserNotSet       = errors.New("未设置使用用户")
	ErrExchangeDisabled = errors.New("兑换功能已关闭")
)

// ConfigError 模板配置错误（盲盒奖励配置非法、套餐不存在）。
// 必须在任何状态变更前失败，并携带模板标识便于运维排查
type ConfigError struct {
	TemplateID int64
	Reason     string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// IneligibleError 用户不满足兑换条件。携带机器可读的 reason_code，
// 属预期错误，不作为系统错误记录
type IneligibleError struct {
	ReasonCode string
	Reason     string
}

func (e *IneligibleError) Error() string {
	return e.Reason
}

// ConflictError 并发冲突：兑换码在预检与提交之间被其他事务消耗，
// 或用户状态发生变化
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// ApplicationError 下游发放操作失败，事务整体回滚
type ApplicationError struct {
	Op  string
	Err error
}

func (e *ApplicationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}
