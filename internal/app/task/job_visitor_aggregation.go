package task

import (
	"context"
	"log"
	"time"

	statistics_service "github.com/xyhcode/blog-api/pkg/service/statistics"
)

// VisitorAggregationJob 负责把前一天的访问日志聚合为按天统计行，
// 并清理保留期之外的原始日志。
type VisitorAggregationJob struct {
	statSvc statistics_service.Service
}

// NewVisitorAggregationJob 是任务的构造函数
func NewVisitorAggregationJob(statSvc statistics_service.Service) *VisitorAggregationJob {
	return &VisitorAggregationJob{statSvc: statSvc}
}

// Run 是 Job 接口要求实现的方法
func (j *VisitorAggregationJob) Run() {
	ctx := context.Background()
	yesterday := time.Now().AddDate(0, 0, -1)

	if err := j.statSvc.AggregateDaily(ctx, yesterday); err != nil {
		log.Printf("任务 '%s' 聚合昨日统计失败: %v", j.Name(), err)
		return
	}

	pruned, err := j.statSvc.PruneLogs(ctx)
	if err != nil {
		log.Printf("任务 '%s' 清理过期日志失败: %v", j.Name(), err)
		return
	}
	log.Printf("任务 '%s' 执行完毕，清理了 %d 条过期访问日志。", j.Name(), pruned)
}

// Name 方法让日志包装器可以打印出更有意义的任务名
func (j *VisitorAggregationJob) Name() string {
	return "VisitorAggregationJob"
}
