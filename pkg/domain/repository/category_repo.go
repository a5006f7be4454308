package repository

import (
	"context"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// CategoryRepository 定义了文章分类的数据仓库接口。
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	// GetByName 按名称查找，不存在时返回 (nil, nil)，用于存在性探测
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	ListPaged(ctx context.Context, query model.PageQuery) ([]*model.Category, int64, error)
	// ExistsByName 检查名称是否被 excludeID 之外的记录占用
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
}
