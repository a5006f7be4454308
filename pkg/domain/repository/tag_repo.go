package repository

import (
	"context"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// TagRepository 定义了文章标签的数据仓库接口。
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, tag *model.Tag) error
	// Delete 先解除与文章的关联再删除标签本身
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Tag, error)
	// GetByIDs 批量查找，调用方负责比对返回数量以发现未知 ID
	GetByIDs(ctx context.Context, ids []uint) ([]*model.Tag, error)
	// GetByName 按名称查找，不存在时返回 (nil, nil)，用于存在性探测
	GetByName(ctx context.Context, name string) (*model.Tag, error)
	List(ctx context.Context) ([]*model.Tag, error)
	ListPaged(ctx context.Context, query model.PageQuery) ([]*model.Tag, int64, error)
	// ExistsByName 检查名称是否被 excludeID 之外的记录占用
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
}
