package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

// GormTagRepository 文章标签仓库的 gorm 实现
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建文章标签仓库
func NewTagRepository(db *gorm.DB) repository.TagRepository {
	return &GormTagRepository{db: db}
}

// Create 创建标签
func (r *GormTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	po := &Tag{
		Name:  tag.Name,
		Color: tag.Color,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("创建标签失败: %w", err)
	}
	tag.ID = po.ID
	tag.CreatedAt = po.CreatedAt
	tag.UpdatedAt = po.UpdatedAt
	return nil
}

// Update 保存标签字段
func (r *GormTagRepository) Update(ctx context.Context, tag *model.Tag) error {
	res := r.db.WithContext(ctx).Model(&Tag{}).Where("id = ?", tag.ID).
		Updates(map[string]interface{}{
			"name":  tag.Name,
			"color": tag.Color,
		})
	if res.Error != nil {
		return fmt.Errorf("更新标签失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("标签不存在 (ID: %d): %w", tag.ID, constant.ErrNotFound)
	}
	return nil
}

// Delete 先解除与文章的关联再删除标签本身
func (r *GormTagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Tag{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("查询标签失败: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("标签不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}

		if err := tx.Exec("DELETE FROM article_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("解除标签关联失败: %w", err)
		}
		if err := tx.Delete(&Tag{}, id).Error; err != nil {
			return fmt.Errorf("删除标签失败: %w", err)
		}
		return nil
	})
}

// GetByID 根据 ID 获取标签
func (r *GormTagRepository) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var po Tag
	if err := r.db.WithContext(ctx).First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("标签不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}
		return nil, fmt.Errorf("获取标签失败: %w", err)
	}
	return tagToModel(&po), nil
}

// GetByIDs 批量查找标签，调用方比对返回数量以发现未知 ID
func (r *GormTagRepository) GetByIDs(ctx context.Context, ids []uint) ([]*model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var pos []*Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("批量获取标签失败: %w", err)
	}
	tags := make([]*model.Tag, len(pos))
	for i, po := range pos {
		tags[i] = tagToModel(po)
	}
	return tags, nil
}

// GetByName 按名称查找，不存在时返回 (nil, nil)
func (r *GormTagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	var po Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("按名称获取标签失败: %w", err)
	}
	return tagToModel(&po), nil
}

// List 列出全部标签，按名称排序
func (r *GormTagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	var pos []*Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("获取标签列表失败: %w", err)
	}
	tags := make([]*model.Tag, len(pos))
	for i, po := range pos {
		tags[i] = tagToModel(po)
	}
	return tags, nil
}

// ListPaged 分页列出标签
func (r *GormTagRepository) ListPaged(ctx context.Context, query model.PageQuery) ([]*model.Tag, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Tag{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计标签总数失败: %w", err)
	}

	var pos []*Tag
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取标签列表失败: %w", err)
	}

	tags := make([]*model.Tag, len(pos))
	for i, po := range pos {
		tags[i] = tagToModel(po)
	}
	return tags, total, nil
}

// ExistsByName 检查名称是否被 excludeID 之外的记录占用
func (r *GormTagRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&Tag{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("检查标签名称失败: %w", err)
	}
	return count > 0, nil
}
