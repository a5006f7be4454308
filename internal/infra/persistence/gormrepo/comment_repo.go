package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

// GormCommentRepository 评论仓库的 gorm 实现
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) repository.CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create 在同一事务内校验文章和用户存在后插入评论。
// 任一前置校验失败时整个事务回滚，不会留下评论行。
func (r *GormCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Article{}).Where("id = ?", comment.ArticleID).Count(&count).Error; err != nil {
			return fmt.Errorf("查询文章失败: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("文章不存在 (ID: %d): %w", comment.ArticleID, constant.ErrNotFound)
		}

		if err := tx.Model(&User{}).Where("id = ?", comment.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("用户不存在 (ID: %d): %w", comment.UserID, constant.ErrNotFound)
		}

		po := &Comment{
			Content:   comment.Content,
			Status:    string(comment.Status),
			ArticleID: comment.ArticleID,
			UserID:    comment.UserID,
		}
		if err := tx.Create(po).Error; err != nil {
			return fmt.Errorf("创建评论失败: %w", err)
		}

		comment.ID = po.ID
		comment.CreatedAt = po.CreatedAt
		comment.UpdatedAt = po.UpdatedAt
		return nil
	})
}

// GetByID 根据 ID 获取评论
func (r *GormCommentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	var po Comment
	if err := r.db.WithContext(ctx).First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("评论不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}
		return nil, fmt.Errorf("获取评论失败: %w", err)
	}
	return commentToModel(&po), nil
}

func (r *GormCommentRepository) list(ctx context.Context, query model.PageQuery, scope func(*gorm.DB) *gorm.DB) ([]*model.Comment, int64, error) {
	base := scope(r.db.WithContext(ctx).Model(&Comment{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计评论总数失败: %w", err)
	}

	var pos []*Comment
	err := base.
		Order("created_at DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取评论列表失败: %w", err)
	}

	comments := make([]*model.Comment, len(pos))
	for i, po := range pos {
		comments[i] = commentToModel(po)
	}
	return comments, total, nil
}

// ListByArticle 列出某文章下的评论，status 为 nil 时不过滤状态
func (r *GormCommentRepository) ListByArticle(ctx context.Context, articleID uint, status *model.CommentStatus, query model.PageQuery) ([]*model.Comment, int64, error) {
	return r.list(ctx, query, func(db *gorm.DB) *gorm.DB {
		db = db.Where("article_id = ?", articleID)
		if status != nil {
			db = db.Where("status = ?", string(*status))
		}
		return db
	})
}

// ListByStatus 按状态列出评论
func (r *GormCommentRepository) ListByStatus(ctx context.Context, status model.CommentStatus, query model.PageQuery) ([]*model.Comment, int64, error) {
	return r.list(ctx, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", string(status))
	})
}

// ListByUser 按评论人列出评论
func (r *GormCommentRepository) ListByUser(ctx context.Context, userID uint, query model.PageQuery) ([]*model.Comment, int64, error) {
	return r.list(ctx, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

// UpdateStatus 直接覆盖评论状态并返回更新后的评论
func (r *GormCommentRepository) UpdateStatus(ctx context.Context, id uint, status model.CommentStatus) (*model.Comment, error) {
	res := r.db.WithContext(ctx).Model(&Comment{}).Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return nil, fmt.Errorf("更新评论状态失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("评论不存在 (ID: %d): %w", id, constant.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete 删除评论
func (r *GormCommentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Comment{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除评论失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("评论不存在 (ID: %d): %w", id, constant.ErrNotFound)
	}
	return nil
}

// CountByArticleAndStatus 统计某文章下指定状态的评论数
func (r *GormCommentRepository) CountByArticleAndStatus(ctx context.Context, articleID uint, status model.CommentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Comment{}).
		Where("article_id = ? AND status = ?", articleID, string(status)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计文章评论数失败: %w", err)
	}
	return count, nil
}

// CountByStatus 全局统计指定状态的评论数
func (r *GormCommentRepository) CountByStatus(ctx context.Context, status model.CommentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Comment{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计评论数失败: %w", err)
	}
	return count, nil
}

// DeleteRejectedBefore 清理 beforeDays 天之前被拒绝的评论
func (r *GormCommentRepository) DeleteRejectedBefore(ctx context.Context, beforeDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -beforeDays)
	res := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(model.CommentStatusRejected), cutoff).
		Delete(&Comment{})
	if res.Error != nil {
		return 0, fmt.Errorf("清理被拒绝评论失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}
