package cron

import (
	"Wellspring/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine             *cron.Cron
	counterFlushJob    *job.CounterFlushJob
	challengeWinnerJob *job.ChallengeWinnerJob
	mediaCleanupJob    *job.MediaCleanupJob
}

func NewCronManager(
	counterFlushJob *job.CounterFlushJob,
	challengeWinnerJob *job.ChallengeWinnerJob,
	mediaCleanupJob *job.MediaCleanupJob,
) *Manager {
	return &Manager{
		engine:             cron.New(cron.WithSeconds()),
		counterFlushJob:    counterFlushJob,
		challengeWinnerJob: challengeWinnerJob,
		mediaCleanupJob:    mediaCleanupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 计数增量每分钟回写一次
	if _, err := s.engine.AddJob("0 * * * * *", s.counterFlushJob); err != nil {
		return err
	}
	// 到期挑战每天凌晨结算
	if _, err := s.engine.AddJob("0 10 0 * * *", s.challengeWinnerJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.mediaCleanupJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
