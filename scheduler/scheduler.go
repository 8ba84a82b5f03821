package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"video_matcher/config"
	"video_matcher/logger"
)

// 计算下一个指定时间点
func getNextTimePoint(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// 验证小时和分钟是否有效，无效时回退到凌晨3点
func validateHourMinute(hour, minute int) (int, int) {
	if hour < 0 || hour > 23 {
		logger.Warn("无效的小时值", "hour", hour, "default", 3)
		hour = 3
	}
	if minute < 0 || minute > 59 {
		logger.Warn("无效的分钟值", "minute", minute, "default", 0)
		minute = 0
	}
	return hour, minute
}

// 任务类型
type TaskType int

const (
	TaskCachePrune TaskType = iota
	TaskSelectionPurge
)

// 任务状态
type TaskStatus struct {
	LastRun     time.Time
	NextRun     time.Time
	IsRunning   bool
	Description string
}

// CachePruner 清理过期的内存缓存
type CachePruner interface {
	Prune() int
}

// SelectionPurger 删除过期的选片日志
type SelectionPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// 任务调度器
type Scheduler struct {
	cfg    *config.Config
	cache  CachePruner     // 为nil时不注册缓存清理任务
	purger SelectionPurger // 为nil时不注册日志清理任务
	tasks  map[TaskType]*TaskStatus
	mutex  sync.Mutex
	wg     sync.WaitGroup
}

// 创建新的调度器
func NewScheduler(cfg *config.Config, cache CachePruner, purger SelectionPurger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		cache:  cache,
		purger: purger,
		tasks:  make(map[TaskType]*TaskStatus),
	}
}

// Start 初始化任务并在后台运行主循环，ctx取消后退出
func (s *Scheduler) Start(ctx context.Context) {
	s.initTasks(time.Now())
	go s.run(ctx)
	logger.Info("调度器已启动", "check_interval_sec", s.cfg.Scheduler.CheckIntervalSec, "task_count", len(s.tasks))
}

// 初始化任务
func (s *Scheduler) initTasks(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cache != nil {
		interval := time.Duration(s.cfg.Cache.CleanupIntervalSec) * time.Second
		s.tasks[TaskCachePrune] = &TaskStatus{
			NextRun:     now.Add(interval),
			Description: fmt.Sprintf("清理过期搜索缓存 (每%d秒)", s.cfg.Cache.CleanupIntervalSec),
		}
	}

	if s.purger != nil {
		hour, minute := validateHourMinute(s.cfg.Scheduler.DefaultHour, s.cfg.Scheduler.DefaultMinute)
		next := getNextTimePoint(now, hour, minute)
		s.tasks[TaskSelectionPurge] = &TaskStatus{
			LastRun:     next.Add(-24 * time.Hour),
			NextRun:     next,
			Description: fmt.Sprintf("清理%d天前的选片日志 (%02d:%02d)", s.cfg.Scheduler.RetentionDays, hour, minute),
		}
	}
}

// 主循环
func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.cfg.Scheduler.CheckIntervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("调度器已停止")
			return
		case now := <-ticker.C:
			s.checkTasks(ctx, now)
		}
	}
}

// 检查任务，到期的任务在独立goroutine中执行
func (s *Scheduler) checkTasks(ctx context.Context, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, status := range s.tasks {
		if status.IsRunning || status.NextRun.IsZero() {
			continue
		}
		if !now.Before(status.NextRun) {
			status.IsRunning = true
			s.wg.Add(1)
			go s.runTask(ctx, taskType, now)
		}
	}
}

// 运行任务
func (s *Scheduler) runTask(ctx context.Context, taskType TaskType, now time.Time) {
	defer s.wg.Done()
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		status := s.tasks[taskType]
		status.IsRunning = false
		status.LastRun = now

		// 更新下次运行时间
		switch taskType {
		case TaskCachePrune:
			status.NextRun = now.Add(time.Duration(s.cfg.Cache.CleanupIntervalSec) * time.Second)
		case TaskSelectionPurge:
			hour, minute := validateHourMinute(s.cfg.Scheduler.DefaultHour, s.cfg.Scheduler.DefaultMinute)
			status.NextRun = getNextTimePoint(now.Add(time.Minute), hour, minute)
		}
		logger.Debug("任务执行完成", "task", status.Description, "next_run", status.NextRun.Format("2006-01-02 15:04:05"))
	}()

	switch taskType {
	case TaskCachePrune:
		removed := s.cache.Prune()
		logger.Debug("搜索缓存清理完成", "removed", removed)
	case TaskSelectionPurge:
		cutoff := now.AddDate(0, 0, -s.cfg.Scheduler.RetentionDays)
		n, err := s.purger.PurgeBefore(ctx, cutoff)
		if err != nil {
			logger.Error("清理选片日志失败", "error", err)
			return
		}
		logger.Info("选片日志清理完成", "deleted", n, "cutoff", cutoff.Format("2006-01-02 15:04:05"))
	}
}
