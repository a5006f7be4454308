package repository

import (
	"context"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// UserRepository 定义了用户的数据仓库接口。
// GetByID 在记录不存在时返回 ErrNotFound；按用户名/邮箱/GithubID 的
// 查找方法则返回 (nil, nil)，供 service 层做存在性探测。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGithubID(ctx context.Context, githubID string) (*model.User, error)
	List(ctx context.Context, query model.PageQuery) ([]*model.User, int64, error)
	// ExistsByUsername / ExistsByEmail 检查值是否被 excludeID 之外的记录占用
	ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
}
