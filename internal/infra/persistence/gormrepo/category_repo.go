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

// GormCategoryRepository 文章分类仓库的 gorm 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建文章分类仓库
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create 创建分类
func (r *GormCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	po := &Category{
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("创建分类失败: %w", err)
	}
	category.ID = po.ID
	category.CreatedAt = po.CreatedAt
	category.UpdatedAt = po.UpdatedAt
	return nil
}

// Update 保存分类字段
func (r *GormCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	res := r.db.WithContext(ctx).Model(&Category{}).Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"icon":        category.Icon,
		})
	if res.Error != nil {
		return fmt.Errorf("更新分类失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("分类不存在 (ID: %d): %w", category.ID, constant.ErrNotFound)
	}
	return nil
}

// Delete 删除分类，引用守卫在 service 层完成
func (r *GormCategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除分类失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("分类不存在 (ID: %d): %w", id, constant.ErrNotFound)
	}
	return nil
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var po Category
	if err := r.db.WithContext(ctx).First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("分类不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}
		return nil, fmt.Errorf("获取分类失败: %w", err)
	}
	return categoryToModel(&po), nil
}

// GetByName 按名称查找，不存在时返回 (nil, nil)
func (r *GormCategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	var po Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("按名称获取分类失败: %w", err)
	}
	return categoryToModel(&po), nil
}

// List 列出全部分类，按名称排序
func (r *GormCategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	var pos []*Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&pos).Error; err != nil {
		return nil, fmt.Errorf("获取分类列表失败: %w", err)
	}
	categories := make([]*model.Category, len(pos))
	for i, po := range pos {
		categories[i] = categoryToModel(po)
	}
	return categories, nil
}

// ListPaged 分页列出分类
func (r *GormCategoryRepository) ListPaged(ctx context.Context, query model.PageQuery) ([]*model.Category, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计分类总数失败: %w", err)
	}

	var pos []*Category
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取分类列表失败: %w", err)
	}

	categories := make([]*model.Category, len(pos))
	for i, po := range pos {
		categories[i] = categoryToModel(po)
	}
	return categories, total, nil
}

// ExistsByName 检查名称是否被 excludeID 之外的记录占用
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&Category{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("检查分类名称失败: %w", err)
	}
	return count > 0, nil
}
