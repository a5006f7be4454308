package statistics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xyhcode/blog-api/internal/infra/persistence/gormrepo"
	"github.com/xyhcode/blog-api/pkg/domain/model"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return NewService(gormrepo.NewVisitorLogRepository(db), gormrepo.NewVisitorStatRepository(db))
}

func TestRecordVisitAndBasicStatistics(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	visits := []struct {
		visitorID string
		path      string
	}{
		{visitorID: "v1", path: "/api/articles"},
		{visitorID: "v1", path: "/api/articles/abc"},
		{visitorID: "v2", path: "/api/articles"},
	}
	for _, v := range visits {
		err := svc.RecordVisit(ctx, &model.VisitorLogRequest{
			VisitorID: v.visitorID,
			IPAddress: "127.0.0.1",
			UserAgent: "test-agent",
			URLPath:   v.path,
		})
		if err != nil {
			t.Fatalf("写入访问日志失败: %v", err)
		}
	}

	stats, err := svc.GetBasicStatistics(ctx)
	if err != nil {
		t.Fatalf("获取统计概览失败: %v", err)
	}
	if stats.TodayViews != 3 {
		t.Errorf("今日访问应为 3, 实际: %d", stats.TodayViews)
	}
	if stats.TodayVisitors != 2 {
		t.Errorf("今日访客应为 2, 实际: %d", stats.TodayVisitors)
	}
	if stats.TotalViews != 3 || stats.TotalVisitors != 2 {
		t.Errorf("无历史数据时累计值应等于今日值: %+v", stats)
	}
}

func TestAggregateDailyOverwrites(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	today := time.Now()
	for i := 0; i < 2; i++ {
		err := svc.RecordVisit(ctx, &model.VisitorLogRequest{
			VisitorID: fmt.Sprintf("v%d", i),
			URLPath:   "/api/articles",
		})
		if err != nil {
			t.Fatalf("写入访问日志失败: %v", err)
		}
	}

	if err := svc.AggregateDaily(ctx, today); err != nil {
		t.Fatalf("聚合失败: %v", err)
	}
	// 重复聚合应覆盖而不是报错或翻倍
	if err := svc.AggregateDaily(ctx, today); err != nil {
		t.Fatalf("重复聚合失败: %v", err)
	}

	// 聚合任务正常只处理已结束的日期；对今日强行聚合时，
	// 累计值 = 聚合行(2/2) + 今日实时(2/2)
	stats, err := svc.GetBasicStatistics(ctx)
	if err != nil {
		t.Fatalf("获取统计概览失败: %v", err)
	}
	if stats.TotalViews != 4 || stats.TotalVisitors != 4 {
		t.Errorf("聚合后的累计值不符: %+v", stats)
	}
}

func TestPruneLogs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.RecordVisit(ctx, &model.VisitorLogRequest{VisitorID: "v1", URLPath: "/"}); err != nil {
		t.Fatalf("写入访问日志失败: %v", err)
	}
	// 刚写入的日志在保留期内，不应被清理
	deleted, err := svc.PruneLogs(ctx)
	if err != nil {
		t.Fatalf("清理日志失败: %v", err)
	}
	if deleted != 0 {
		t.Errorf("保留期内的日志不应被清理, 删除了: %d", deleted)
	}
}
