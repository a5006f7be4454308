package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

// GormArticleRepository 文章仓库的 gorm 实现
type GormArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文章仓库
func NewArticleRepository(db *gorm.DB) repository.ArticleRepository {
	return &GormArticleRepository{db: db}
}

// Create 插入文章并建立标签关联。
// Omit("Tags.*") 让 gorm 只写 article_tags 关联行，不会去更新标签本身。
func (r *GormArticleRepository) Create(ctx context.Context, article *model.Article, tagIDs []uint) error {
	po := &Article{
		Title:       article.Title,
		Content:     article.Content,
		ContentHTML: article.ContentHTML,
		Summary:     article.Summary,
		Author:      article.Author,
		Status:      string(article.Status),
		CategoryID:  article.CategoryID,
		CoverImage:  article.CoverImage,
		ViewCount:   article.ViewCount,
	}
	for _, id := range tagIDs {
		po.Tags = append(po.Tags, &Tag{ID: id})
	}

	if err := r.db.WithContext(ctx).Omit("Tags.*").Create(po).Error; err != nil {
		return fmt.Errorf("创建文章失败: %w", err)
	}

	article.ID = po.ID
	article.CreatedAt = po.CreatedAt
	article.UpdatedAt = po.UpdatedAt
	return nil
}

// Update 保存文章字段；tagIDs 非 nil 时整体替换标签关联。
func (r *GormArticleRepository) Update(ctx context.Context, article *model.Article, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":        article.Title,
			"content":      article.Content,
			"content_html": article.ContentHTML,
			"summary":      article.Summary,
			"author":       article.Author,
			"status":       string(article.Status),
			"category_id":  article.CategoryID,
			"cover_image":  article.CoverImage,
		}
		res := tx.Model(&Article{}).Where("id = ?", article.ID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("更新文章失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("文章不存在 (ID: %d): %w", article.ID, constant.ErrNotFound)
		}

		if tagIDs != nil {
			tags := make([]*Tag, len(tagIDs))
			for i, id := range tagIDs {
				tags[i] = &Tag{ID: id}
			}
			if err := tx.Model(&Article{ID: article.ID}).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("替换文章标签关联失败: %w", err)
			}
		}
		return nil
	})
}

// Delete 在同一事务内清理评论和标签关联后删除文章。
func (r *GormArticleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Article{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("查询文章失败: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("文章不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}

		if err := tx.Where("article_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return fmt.Errorf("删除文章评论失败: %w", err)
		}
		if err := tx.Model(&Article{ID: id}).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("清理文章标签关联失败: %w", err)
		}
		if err := tx.Delete(&Article{}, id).Error; err != nil {
			return fmt.Errorf("删除文章失败: %w", err)
		}
		return nil
	})
}

// GetByID 带分类和标签一并取出
func (r *GormArticleRepository) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	var po Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		First(&po, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("文章不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}
		return nil, fmt.Errorf("获取文章失败: %w", err)
	}
	return articleToModel(&po), nil
}

// orderClause 组装排序子句，排序字段的白名单校验在 service 层完成。
func orderClause(query model.PageQuery) string {
	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = model.ArticleSortByCreatedAt
	}
	dir := "DESC"
	if strings.EqualFold(query.SortDir, model.SortDirAsc) {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", sortBy, dir)
}

func (r *GormArticleRepository) listPublished(ctx context.Context, query model.PageQuery, scope func(*gorm.DB) *gorm.DB) ([]*model.Article, int64, error) {
	base := r.db.WithContext(ctx).Model(&Article{}).
		Where("status = ?", string(model.ArticleStatusPublished))
	if scope != nil {
		base = scope(base)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计文章总数失败: %w", err)
	}

	var pos []*Article
	err := base.
		Preload("Category").
		Preload("Tags").
		Order(orderClause(query)).
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取文章列表失败: %w", err)
	}

	articles := make([]*model.Article, len(pos))
	for i, po := range pos {
		articles[i] = articleToModel(po)
	}
	return articles, total, nil
}

// ListPublished 按分页参数列出已发布文章
func (r *GormArticleRepository) ListPublished(ctx context.Context, query model.PageQuery) ([]*model.Article, int64, error) {
	return r.listPublished(ctx, query, nil)
}

// ListByCategory 列出某分类下的已发布文章
func (r *GormArticleRepository) ListByCategory(ctx context.Context, categoryID uint, query model.PageQuery) ([]*model.Article, int64, error) {
	return r.listPublished(ctx, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("category_id = ?", categoryID)
	})
}

// ListByTag 通过关联表列出某标签下的已发布文章
func (r *GormArticleRepository) ListByTag(ctx context.Context, tagID uint, query model.PageQuery) ([]*model.Article, int64, error) {
	return r.listPublished(ctx, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)",
			r.db.Table("article_tags").Select("article_id").Where("tag_id = ?", tagID))
	})
}

// Search 在标题和正文中做不区分大小写的子串匹配，按创建时间倒序。
func (r *GormArticleRepository) Search(ctx context.Context, keyword string, query model.PageQuery) ([]*model.Article, int64, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"
	query.SortBy = model.ArticleSortByCreatedAt
	query.SortDir = model.SortDirDesc
	return r.listPublished(ctx, query, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	})
}

// ListPopular 按浏览量倒序取前 limit 篇已发布文章
func (r *GormArticleRepository) ListPopular(ctx context.Context, limit int) ([]*model.Article, error) {
	var pos []*Article
	err := r.db.WithContext(ctx).
		Where("status = ?", string(model.ArticleStatusPublished)).
		Preload("Category").
		Preload("Tags").
		Order("view_count DESC").
		Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("获取热门文章失败: %w", err)
	}

	articles := make([]*model.Article, len(pos))
	for i, po := range pos {
		articles[i] = articleToModel(po)
	}
	return articles, nil
}

// IncrementViewCount 以单条 UPDATE 原子加一，避免读改写竞态。
func (r *GormArticleRepository) IncrementViewCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("更新文章浏览量失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("文章不存在 (ID: %d): %w", id, constant.ErrNotFound)
	}
	return nil
}

// CountByCategory 统计引用某分类的文章数
func (r *GormArticleRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Article{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计分类文章数失败: %w", err)
	}
	return count, nil
}
