// Package scheduler 定时任务调度
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/studycloud111/xboard-go/internal/config"
	"github.com/studycloud111/xboard-go/internal/database/repository"
	"github.com/studycloud111/xboard-go/pkg/logger"
	"github.com/studycloud111/xboard-go/pkg/utils"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron      *gocron.Scheduler
	cfg       *config.Config
	codeRepo  *repository.GiftCardCodeRepository
	usageRepo *repository.GiftCardUsageRepository
}

var instance *Scheduler

// New 创建调度器
func New(cfg *config.Config) *Scheduler {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	s := gocron.NewScheduler(loc)
	s.SetMaxConcurrentJobs(5, gocron.RescheduleMode)

	instance = &Scheduler{
		cron:      s,
		cfg:       cfg,
		codeRepo:  repository.NewGiftCardCodeRepository(),
		usageRepo: repository.NewGiftCardUsageRepository(),
	}

	return instance
}

// Get 获取调度器实例
func Get() *Scheduler {
	return instance
}

// Start 启动调度器
func (s *Scheduler) Start() {
	logger.Info().Msg("启动定时任务调度器")

	s.registerJobs()

	s.cron.StartAsync()
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	logger.Info().Msg("停止定时任务调度器")
	s.cron.Stop()
}

// registerJobs 注册所有定时任务
func (s *Scheduler) registerJobs() {
	cfg := s.cfg.Scheduler

	// 过期兑换码清扫 - 每小时整点
	if cfg.ExpireSweep {
		s.cron.Every(1).Hour().Do(s.sweepExpiredCodes)
		logger.Info().Msg("已注册: 过期兑换码清扫任务 (每小时)")
	}

	// 兑换日报 - 每天早上 9 点
	if cfg.DailyStats {
		s.cron.Every(1).Day().At("09:00").Do(s.reportDailyStats)
		logger.Info().Msg("已注册: 兑换日报任务 (每天 09:00)")
	}
}

// AddJob 添加自定义任务
func (s *Scheduler) AddJob(cronExpr string, job func()) error {
	_, err := s.cron.Cron(cronExpr).Do(job)
	return err
}

// sweepExpiredCodes 将已过有效期的可用兑换码批量标记为过期。
// 读取路径同样会判断过期，这里只是让库表状态与读取语义一致
func (s *Scheduler) sweepExpiredCodes() {
	affected, err := s.codeRepo.MarkExpired()
	if err != nil {
		logger.Error().Err(err).Msg("过期兑换码清扫失败")
		return
	}
	if affected > 0 {
		logger.Info().Int64("count", affected).Msg("已标记过期兑换码")
	}
}

// reportDailyStats 统计过去 24 小时兑换量
func (s *Scheduler) reportDailyStats() {
	since := utils.TimeNowCST().Add(-24 * time.Hour)
	count, err := s.usageRepo.CountSince(since)
	if err != nil {
		logger.Error().Err(err).Msg("兑换日报统计失败")
		return
	}
	logger.Info().
		Int64("redemptions", count).
		Time("since", since).
		Msg("兑换日报")
}
