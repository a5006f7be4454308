package repository

import (
	"context"
	"time"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// VisitorLogRepository 定义了访问日志的数据仓库接口。
type VisitorLogRepository interface {
	Create(ctx context.Context, log *model.VisitorLog) error
	// CountByDateRange 统计 [start, end) 区间内的访问量 (PV)
	CountByDateRange(ctx context.Context, start, end time.Time) (int64, error)
	// CountDistinctVisitors 统计 [start, end) 区间内的独立访客数 (UV)
	CountDistinctVisitors(ctx context.Context, start, end time.Time) (int64, error)
	// DeleteBefore 清理指定时间之前的原始日志
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// VisitorStatRepository 定义了按天聚合统计的数据仓库接口。
type VisitorStatRepository interface {
	// Upsert 按日期写入聚合行，同一天重复聚合时覆盖旧值
	Upsert(ctx context.Context, stat *model.VisitorStat) error
	GetByDate(ctx context.Context, date time.Time) (*model.VisitorStat, error)
	// SumTotals 汇总所有聚合行的 PV/UV
	SumTotals(ctx context.Context) (pv int64, uv int64, err error)
}
