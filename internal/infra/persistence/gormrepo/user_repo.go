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

// GormUserRepository 用户仓库的 gorm 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &GormUserRepository{db: db}
}

// Create 创建用户
func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	po := &User{
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		GithubID: user.GithubID,
		Role:     string(user.Role),
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}
	user.ID = po.ID
	user.CreatedAt = po.CreatedAt
	user.UpdatedAt = po.UpdatedAt
	return nil
}

// Update 保存用户字段
func (r *GormUserRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":  user.Username,
			"email":     user.Email,
			"avatar":    user.Avatar,
			"github_id": user.GithubID,
			"role":      string(user.Role),
		})
	if res.Error != nil {
		return fmt.Errorf("更新用户失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("用户不存在 (ID: %d): %w", user.ID, constant.ErrNotFound)
	}
	return nil
}

// Delete 删除用户
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除用户失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("用户不存在 (ID: %d): %w", id, constant.ErrNotFound)
	}
	return nil
}

// GetByID 根据 ID 获取用户，不存在时返回 ErrNotFound
func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var po User
	if err := r.db.WithContext(ctx).First(&po, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("用户不存在 (ID: %d): %w", id, constant.ErrNotFound)
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return userToModel(&po), nil
}

// getByField 按唯一字段查找，不存在时返回 (nil, nil)
func (r *GormUserRepository) getByField(ctx context.Context, field string, value string) (*model.User, error) {
	var po User
	err := r.db.WithContext(ctx).Where(field+" = ?", value).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return userToModel(&po), nil
}

// GetByUsername 按用户名查找，不存在时返回 (nil, nil)
func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getByField(ctx, "username", username)
}

// GetByEmail 按邮箱查找，不存在时返回 (nil, nil)
func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByField(ctx, "email", email)
}

// GetByGithubID 按 GithubID 查找，不存在时返回 (nil, nil)
func (r *GormUserRepository) GetByGithubID(ctx context.Context, githubID string) (*model.User, error) {
	return r.getByField(ctx, "github_id", githubID)
}

// List 分页列出用户
func (r *GormUserRepository) List(ctx context.Context, query model.PageQuery) ([]*model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用户总数失败: %w", err)
	}

	var pos []*User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取用户列表失败: %w", err)
	}

	users := make([]*model.User, len(pos))
	for i, po := range pos {
		users[i] = userToModel(po)
	}
	return users, total, nil
}

// ExistsByUsername 检查用户名是否被 excludeID 之外的记录占用
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.existsByField(ctx, "username", username, excludeID)
}

// ExistsByEmail 检查邮箱是否被 excludeID 之外的记录占用
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.existsByField(ctx, "email", email, excludeID)
}

func (r *GormUserRepository) existsByField(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&User{}).Where(field+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("检查用户唯一性失败: %w", err)
	}
	return count > 0, nil
}
