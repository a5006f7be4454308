package repository

import (
	"context"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// CommentRepository 定义了评论的数据仓库接口。
type CommentRepository interface {
	// Create 在同一事务内校验文章和用户存在后插入评论，
	// 任一前置校验失败时返回 ErrNotFound 且不落任何数据
	Create(ctx context.Context, comment *model.Comment) error

	GetByID(ctx context.Context, id uint) (*model.Comment, error)

	// ListByArticle 列出某文章下的评论，status 为 nil 时不过滤状态，
	// 始终按创建时间倒序
	ListByArticle(ctx context.Context, articleID uint, status *model.CommentStatus, query model.PageQuery) ([]*model.Comment, int64, error)

	ListByStatus(ctx context.Context, status model.CommentStatus, query model.PageQuery) ([]*model.Comment, int64, error)
	ListByUser(ctx context.Context, userID uint, query model.PageQuery) ([]*model.Comment, int64, error)

	// UpdateStatus 直接覆盖评论状态，无状态机限制
	UpdateStatus(ctx context.Context, id uint, status model.CommentStatus) (*model.Comment, error)

	Delete(ctx context.Context, id uint) error

	CountByArticleAndStatus(ctx context.Context, articleID uint, status model.CommentStatus) (int64, error)
	CountByStatus(ctx context.Context, status model.CommentStatus) (int64, error)

	// DeleteRejectedBefore 清理指定时间之前被拒绝的评论，返回删除条数
	DeleteRejectedBefore(ctx context.Context, beforeDays int) (int64, error)
}
