package task

import (
	"context"
	"log"

	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

// 被拒绝评论的保留天数
const rejectedCommentRetentionDays = 30

// CommentCleanupJob 负责定期清理保留期之外被拒绝的评论。
type CommentCleanupJob struct {
	commentRepo repository.CommentRepository
}

// NewCommentCleanupJob 是任务的构造函数
func NewCommentCleanupJob(commentRepo repository.CommentRepository) *CommentCleanupJob {
	return &CommentCleanupJob{commentRepo: commentRepo}
}

// Run 是 Job 接口要求实现的方法
func (j *CommentCleanupJob) Run() {
	deleted, err := j.commentRepo.DeleteRejectedBefore(context.Background(), rejectedCommentRetentionDays)
	if err != nil {
		log.Printf("任务 '%s' 清理被拒绝评论失败: %v", j.Name(), err)
		return
	}
	log.Printf("任务 '%s' 执行完毕，清理了 %d 条被拒绝的评论。", j.Name(), deleted)
}

// Name 方法让日志包装器可以打印出更有意义的任务名
func (j *CommentCleanupJob) Name() string {
	return "CommentCleanupJob"
}
