package task

import (
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"

	"github.com/xyhcode/blog-api/pkg/domain/repository"
	statistics_service "github.com/xyhcode/blog-api/pkg/service/statistics"
)

// Scheduler 封装了 cron 实例和其依赖。
// 它是整个定时任务模块的核心协调者，负责任务的注册、启动和停止。
type Scheduler struct {
	cron        *cron.Cron
	logger      *slog.Logger
	statSvc     statistics_service.Service
	commentRepo repository.CommentRepository
}

// NewScheduler 是 Scheduler 的构造函数。
func NewScheduler(statSvc statistics_service.Service, commentRepo repository.CommentRepository) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")

	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			NewPanicRecoveryWrapper(logger),
			NewLoggingWrapper(logger),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)

	return &Scheduler{
		cron:        c,
		logger:      logger,
		statSvc:     statSvc,
		commentRepo: commentRepo,
	}
}

// RegisterJobs 在调度器中注册所有定义好的定时任务。
func (s *Scheduler) RegisterJobs() {
	s.logger.Info("Registering all periodic jobs...")

	// --- 任务1: 聚合昨日访问统计 ---
	aggregationJob := NewVisitorAggregationJob(s.statSvc)
	if _, err := s.cron.AddJob("0 10 0 * * *", aggregationJob); err != nil {
		s.logger.Error("Failed to add 'VisitorAggregationJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'VisitorAggregationJob'", "schedule", "every day at 0:10:00 AM")

	// --- 任务2: 清理过期的被拒绝评论 ---
	cleanupJob := NewCommentCleanupJob(s.commentRepo)
	if _, err := s.cron.AddJob("0 0 3 * * *", cleanupJob); err != nil {
		s.logger.Error("Failed to add 'CommentCleanupJob'", slog.Any("error", err))
		os.Exit(1)
	}
	s.logger.Info("-> Successfully registered 'CommentCleanupJob'", "schedule", "every day at 3:00:00 AM")

	s.logger.Info("All periodic jobs registered.")
}

// Start 启动 cron 调度器。
func (s *Scheduler) Start() {
	s.logger.Info("Cron scheduler started.")
	s.cron.Start()
}

// Stop 优雅地停止 cron 调度器。
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron scheduler gracefully stopped.")
}
