package scheduler

import (
	"context"
	"errors"
	"time"

	"TeamNewsSync/internal/config"
	"TeamNewsSync/internal/service"

	"github.com/sirupsen/logrus"
)

// Scheduler 内置轻量调度器：每分钟检查一次，整点触发对应任务。
// daily_hour整点触发每日全量任务，hourly_from~hourly_until区间的
// 其余整点触发增量任务。外部cron直接打任务API时可关闭本调度器。
type Scheduler struct {
	runner *service.JobRunner
	cfg    *config.ScheduleConfig
	logger *logrus.Logger
}

func New(runner *service.JobRunner, cfg *config.ScheduleConfig, logger *logrus.Logger) *Scheduler {
	return &Scheduler{runner: runner, cfg: cfg, logger: logger}
}

// Start 启动调度循环（goroutine内运行，ctx取消即退出）
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		var lastFired time.Time
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("调度器已停止")
				return
			case now := <-ticker.C:
				// 每个整点只触发一次
				if now.Minute() != 0 || now.Truncate(time.Hour).Equal(lastFired) {
					continue
				}
				if job := s.jobForHour(now.Hour()); job != "" {
					lastFired = now.Truncate(time.Hour)
					s.trigger(job)
				}
			}
		}
	}()
	s.logger.Infof("调度器已启动，每日任务%d点，增量任务%d-%d点",
		s.cfg.DailyHour, s.cfg.HourlyFrom, s.cfg.HourlyUntil)
}

// jobForHour 当前小时应触发的任务名，无任务返回空串
func (s *Scheduler) jobForHour(hour int) string {
	if hour == s.cfg.DailyHour {
		return service.JobDaily
	}
	if hour >= s.cfg.HourlyFrom && hour <= s.cfg.HourlyUntil {
		return service.JobHourly
	}
	return ""
}

func (s *Scheduler) trigger(name string) {
	handle, err := s.runner.RunAsync(name)
	if errors.Is(err, service.ErrJobRunning) {
		s.logger.Warnf("任务%s上一轮仍在运行，本轮跳过", name)
		return
	}
	if err != nil {
		s.logger.WithError(err).Errorf("调度触发任务%s失败", name)
		return
	}
	s.logger.Infof("调度触发任务%s, job_id: %s", name, handle.JobID)
}
