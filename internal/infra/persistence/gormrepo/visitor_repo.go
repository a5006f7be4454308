package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

// GormVisitorLogRepository 访问日志仓库的 gorm 实现
type GormVisitorLogRepository struct {
	db *gorm.DB
}

// NewVisitorLogRepository 创建访问日志仓库
func NewVisitorLogRepository(db *gorm.DB) repository.VisitorLogRepository {
	return &GormVisitorLogRepository{db: db}
}

// Create 写入一条访问日志
func (r *GormVisitorLogRepository) Create(ctx context.Context, log *model.VisitorLog) error {
	po := &VisitorLog{
		VisitorID: log.VisitorID,
		IPAddress: log.IPAddress,
		UserAgent: log.UserAgent,
		Referer:   log.Referer,
		URLPath:   log.URLPath,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("写入访问日志失败: %w", err)
	}
	log.ID = po.ID
	log.CreatedAt = po.CreatedAt
	return nil
}

// CountByDateRange 统计 [start, end) 区间内的访问量 (PV)
func (r *GormVisitorLogRepository) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VisitorLog{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计访问量失败: %w", err)
	}
	return count, nil
}

// CountDistinctVisitors 统计 [start, end) 区间内的独立访客数 (UV)
func (r *GormVisitorLogRepository) CountDistinctVisitors(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VisitorLog{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Distinct("visitor_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计独立访客数失败: %w", err)
	}
	return count, nil
}

// DeleteBefore 清理指定时间之前的原始日志
func (r *GormVisitorLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&VisitorLog{})
	if res.Error != nil {
		return 0, fmt.Errorf("清理访问日志失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// GormVisitorStatRepository 按天聚合统计仓库的 gorm 实现
type GormVisitorStatRepository struct {
	db *gorm.DB
}

// NewVisitorStatRepository 创建聚合统计仓库
func NewVisitorStatRepository(db *gorm.DB) repository.VisitorStatRepository {
	return &GormVisitorStatRepository{db: db}
}

// Upsert 按日期写入聚合行，同一天重复聚合时覆盖旧值，保证任务幂等。
func (r *GormVisitorStatRepository) Upsert(ctx context.Context, stat *model.VisitorStat) error {
	po := &VisitorStat{
		Date: stat.Date,
		PV:   stat.PV,
		UV:   stat.UV,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"pv", "uv", "updated_at"}),
	}).Create(po).Error
	if err != nil {
		return fmt.Errorf("写入聚合统计失败: %w", err)
	}
	return nil
}

// GetByDate 获取某天的聚合行，不存在时返回 ErrNotFound
func (r *GormVisitorStatRepository) GetByDate(ctx context.Context, date time.Time) (*model.VisitorStat, error) {
	var po VisitorStat
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("该日期没有聚合统计: %w", constant.ErrNotFound)
		}
		return nil, fmt.Errorf("获取聚合统计失败: %w", err)
	}
	return &model.VisitorStat{
		ID:        po.ID,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Date:      po.Date,
		PV:        po.PV,
		UV:        po.UV,
	}, nil
}

// SumTotals 汇总所有聚合行的 PV/UV
func (r *GormVisitorStatRepository) SumTotals(ctx context.Context) (int64, int64, error) {
	type sums struct {
		PV int64
		UV int64
	}
	var s sums
	err := r.db.WithContext(ctx).Model(&VisitorStat{}).
		Select("COALESCE(SUM(pv), 0) AS pv, COALESCE(SUM(uv), 0) AS uv").
		Scan(&s).Error
	if err != nil {
		return 0, 0, fmt.Errorf("汇总访问统计失败: %w", err)
	}
	return s.PV, s.UV, nil
}
