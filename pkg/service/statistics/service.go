package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

// 原始访问日志的保留天数，聚合完成后更早的日志会被清理
const logRetentionDays = 90

type Service interface {
	// RecordVisit 写入一条访问日志，由统计中间件在请求完成后异步调用
	RecordVisit(ctx context.Context, req *model.VisitorLogRequest) error

	// GetBasicStatistics 返回今日与累计的 PV/UV 概览。
	// 今日数据从原始日志实时统计，历史数据取自按天聚合表。
	GetBasicStatistics(ctx context.Context) (*model.VisitorStatistics, error)

	// AggregateDaily 统计指定日期的 PV/UV 并写入聚合表，重复执行覆盖旧值
	AggregateDaily(ctx context.Context, date time.Time) error

	// PruneLogs 清理保留期之外的原始访问日志，返回删除条数
	PruneLogs(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	logRepo  repository.VisitorLogRepository
	statRepo repository.VisitorStatRepository
}

func NewService(logRepo repository.VisitorLogRepository, statRepo repository.VisitorStatRepository) Service {
	return &serviceImpl{
		logRepo:  logRepo,
		statRepo: statRepo,
	}
}

// dayRange 返回某天的 [0点, 次日0点) 区间
func dayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}

func (s *serviceImpl) RecordVisit(ctx context.Context, req *model.VisitorLogRequest) error {
	log := &model.VisitorLog{
		VisitorID: req.VisitorID,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Referer:   req.Referer,
		URLPath:   req.URLPath,
	}
	if err := s.logRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("写入访问日志失败: %w", err)
	}
	return nil
}

func (s *serviceImpl) GetBasicStatistics(ctx context.Context) (*model.VisitorStatistics, error) {
	todayStart, todayEnd := dayRange(time.Now())

	todayPV, err := s.logRepo.CountByDateRange(ctx, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("统计今日访问量失败: %w", err)
	}
	todayUV, err := s.logRepo.CountDistinctVisitors(ctx, todayStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("统计今日访客数失败: %w", err)
	}

	// 聚合表只包含已结束的日期，加上今日实时数据得到累计值
	totalPV, totalUV, err := s.statRepo.SumTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("汇总历史统计失败: %w", err)
	}

	return &model.VisitorStatistics{
		TodayVisitors: todayUV,
		TodayViews:    todayPV,
		TotalVisitors: totalUV + todayUV,
		TotalViews:    totalPV + todayPV,
	}, nil
}

func (s *serviceImpl) AggregateDaily(ctx context.Context, date time.Time) error {
	start, end := dayRange(date)

	pv, err := s.logRepo.CountByDateRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("统计 %s 访问量失败: %w", start.Format("2006-01-02"), err)
	}
	uv, err := s.logRepo.CountDistinctVisitors(ctx, start, end)
	if err != nil {
		return fmt.Errorf("统计 %s 访客数失败: %w", start.Format("2006-01-02"), err)
	}

	stat := &model.VisitorStat{
		Date: start,
		PV:   pv,
		UV:   uv,
	}
	if err := s.statRepo.Upsert(ctx, stat); err != nil {
		return fmt.Errorf("写入 %s 聚合统计失败: %w", start.Format("2006-01-02"), err)
	}
	return nil
}

func (s *serviceImpl) PruneLogs(ctx context.Context) (int64, error) {
	cutoff, _ := dayRange(time.Now().AddDate(0, 0, -logRetentionDays))
	deleted, err := s.logRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("清理过期访问日志失败: %w", err)
	}
	return deleted, nil
}
