package repository

import (
	"context"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// ArticleRepository 定义了文章的数据仓库接口。
// 所有读取方法都会把分类和标签一并取出（主动加载，不做惰性关联）；
// 记录不存在时统一返回包装过的 constant.ErrNotFound。
type ArticleRepository interface {
	// Create 插入文章并按 ID 关联标签，回填生成的 ID 和时间戳
	Create(ctx context.Context, article *model.Article, tagIDs []uint) error

	// Update 保存文章字段；tagIDs 非 nil 时整体替换标签关联
	Update(ctx context.Context, article *model.Article, tagIDs []uint) error

	// Delete 在同一事务内清理标签关联和评论后删除文章
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*model.Article, error)

	// ListPublished 按分页参数列出已发布文章
	ListPublished(ctx context.Context, query model.PageQuery) ([]*model.Article, int64, error)

	// ListByCategory / ListByTag 按关联过滤，只返回已发布文章
	ListByCategory(ctx context.Context, categoryID uint, query model.PageQuery) ([]*model.Article, int64, error)
	ListByTag(ctx context.Context, tagID uint, query model.PageQuery) ([]*model.Article, int64, error)

	// Search 在已发布文章的标题和正文中做子串匹配，按创建时间倒序
	Search(ctx context.Context, keyword string, query model.PageQuery) ([]*model.Article, int64, error)

	// ListPopular 按浏览量倒序取前 limit 篇已发布文章
	ListPopular(ctx context.Context, limit int) ([]*model.Article, error)

	// IncrementViewCount 以单条 UPDATE 语句原子地给浏览量加一，
	// 不存在的文章返回 ErrNotFound
	IncrementViewCount(ctx context.Context, id uint) error

	// CountByCategory 统计引用某分类的文章数，用于删除分类前的守卫
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}
