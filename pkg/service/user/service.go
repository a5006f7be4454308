package user

import (
	"context"
	"fmt"

	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
	"github.com/xyhcode/blog-api/pkg/idgen"
)

type Service interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserResponse, error)
	Update(ctx context.Context, publicID string, req *model.UpdateUserRequest) (*model.UserResponse, error)
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*model.UserResponse, error)
	List(ctx context.Context, query model.PageQuery) (*model.PageResult, error)

	// 按自然键查找，不存在时返回 (nil, nil) 而不是错误，
	// 与按 ID 查找的 ErrNotFound 语义区分开
	GetByUsername(ctx context.Context, username string) (*model.UserResponse, error)
	GetByEmail(ctx context.Context, email string) (*model.UserResponse, error)
	GetByGithubID(ctx context.Context, githubID string) (*model.UserResponse, error)

	// CheckUsername / CheckEmail 探测值是否已被占用
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)

	// UpsertByGithub 按 GithubID 查找用户，存在则同步资料，不存在则建档。
	// 新建用户的角色固定为普通用户。
	UpsertByGithub(ctx context.Context, req *model.GithubLoginRequest) (*model.User, error)
}

type serviceImpl struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) Service {
	return &serviceImpl{repo: repo}
}

// ToResponse 将用户领域模型转换为 API 响应结构
func ToResponse(u *model.User) (*model.UserResponse, error) {
	if u == nil {
		return nil, nil
	}
	publicID, err := idgen.GeneratePublicID(u.ID, idgen.EntityTypeUser)
	if err != nil {
		return nil, fmt.Errorf("生成用户公共ID失败: %w", err)
	}
	githubID := ""
	if u.GithubID != nil {
		githubID = *u.GithubID
	}
	return &model.UserResponse{
		ID:        publicID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		GithubID:  githubID,
		Role:      u.Role,
	}, nil
}

// decodeID 解码公共 ID 并校验实体类型
func decodeID(publicID string) (uint, error) {
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != idgen.EntityTypeUser {
		return 0, fmt.Errorf("%w: %s", constant.ErrInvalidPublicID, publicID)
	}
	return dbID, nil
}

// checkUnique 对用户名和邮箱做排除自身的占用检查
func (s *serviceImpl) checkUnique(ctx context.Context, username, email string, excludeID uint) error {
	if username != "" {
		taken, err := s.repo.ExistsByUsername(ctx, username, excludeID)
		if err != nil {
			return fmt.Errorf("检查用户名失败: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: 用户名 '%s' 已被占用", constant.ErrConflict, username)
		}
	}
	if email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return fmt.Errorf("检查邮箱失败: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: 邮箱 '%s' 已被占用", constant.ErrConflict, email)
		}
	}
	return nil
}

func (s *serviceImpl) Create(ctx context.Context, req *model.CreateUserRequest) (*model.UserResponse, error) {
	if err := s.checkUnique(ctx, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	role := model.UserRoleUser
	if req.Role != "" {
		role = model.UserRole(req.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: 未知的用户角色 '%s'", constant.ErrBadRequest, req.Role)
		}
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
		Role:     role,
	}
	if req.GithubID != "" {
		existing, err := s.repo.GetByGithubID(ctx, req.GithubID)
		if err != nil {
			return nil, fmt.Errorf("检查 GithubID 失败: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: GithubID '%s' 已被绑定", constant.ErrConflict, req.GithubID)
		}
		githubID := req.GithubID
		user.GithubID = &githubID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return ToResponse(user)
}

func (s *serviceImpl) Update(ctx context.Context, publicID string, req *model.UpdateUserRequest) (*model.UserResponse, error) {
	dbID, err := decodeID(publicID)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}

	var newUsername, newEmail string
	if req.Username != nil && *req.Username != user.Username {
		newUsername = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		newEmail = *req.Email
	}
	if err := s.checkUnique(ctx, newUsername, newEmail, dbID); err != nil {
		return nil, err
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	if newEmail != "" {
		user.Email = newEmail
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Role != nil {
		role := model.UserRole(*req.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("%w: 未知的用户角色 '%s'", constant.ErrBadRequest, *req.Role)
		}
		user.Role = role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return ToResponse(user)
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := decodeID(publicID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, dbID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, dbID)
}

func (s *serviceImpl) Get(ctx context.Context, publicID string) (*model.UserResponse, error) {
	dbID, err := decodeID(publicID)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return ToResponse(user)
}

func (s *serviceImpl) List(ctx context.Context, query model.PageQuery) (*model.PageResult, error) {
	if query.Offset < 0 || query.Limit < 1 {
		return nil, fmt.Errorf("%w: 非法的分页参数", constant.ErrBadRequest)
	}
	users, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("分页查询用户失败: %w", err)
	}
	responses := make([]*model.UserResponse, 0, len(users))
	for _, u := range users {
		resp, err := ToResponse(u)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return &model.PageResult{
		Items:  responses,
		Total:  total,
		Offset: query.Offset,
		Limit:  query.Limit,
	}, nil
}

func (s *serviceImpl) GetByUsername(ctx context.Context, username string) (*model.UserResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("按用户名查找用户失败: %w", err)
	}
	return ToResponse(user)
}

func (s *serviceImpl) GetByEmail(ctx context.Context, email string) (*model.UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("按邮箱查找用户失败: %w", err)
	}
	return ToResponse(user)
}

func (s *serviceImpl) GetByGithubID(ctx context.Context, githubID string) (*model.UserResponse, error) {
	user, err := s.repo.GetByGithubID(ctx, githubID)
	if err != nil {
		return nil, fmt.Errorf("按 GithubID 查找用户失败: %w", err)
	}
	return ToResponse(user)
}

func (s *serviceImpl) CheckUsername(ctx context.Context, username string) (bool, error) {
	taken, err := s.repo.ExistsByUsername(ctx, username, 0)
	if err != nil {
		return false, fmt.Errorf("检查用户名失败: %w", err)
	}
	return taken, nil
}

func (s *serviceImpl) CheckEmail(ctx context.Context, email string) (bool, error) {
	taken, err := s.repo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return false, fmt.Errorf("检查邮箱失败: %w", err)
	}
	return taken, nil
}

func (s *serviceImpl) UpsertByGithub(ctx context.Context, req *model.GithubLoginRequest) (*model.User, error) {
	existing, err := s.repo.GetByGithubID(ctx, req.GithubID)
	if err != nil {
		return nil, fmt.Errorf("按 GithubID 查找用户失败: %w", err)
	}

	if existing != nil {
		// 已绑定用户：同步来自 GitHub 的最新资料，角色保持不变。
		// 新用户名或邮箱已被其他账号占用时跳过该字段，避免登录被全盘拒绝。
		changed := false
		if req.Username != "" && req.Username != existing.Username {
			taken, err := s.repo.ExistsByUsername(ctx, req.Username, existing.ID)
			if err != nil {
				return nil, fmt.Errorf("检查用户名失败: %w", err)
			}
			if !taken {
				existing.Username = req.Username
				changed = true
			}
		}
		if req.Email != "" && req.Email != existing.Email {
			taken, err := s.repo.ExistsByEmail(ctx, req.Email, existing.ID)
			if err != nil {
				return nil, fmt.Errorf("检查邮箱失败: %w", err)
			}
			if !taken {
				existing.Email = req.Email
				changed = true
			}
		}
		if req.Avatar != "" && req.Avatar != existing.Avatar {
			existing.Avatar = req.Avatar
			changed = true
		}
		if changed {
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("同步用户资料失败: %w", err)
			}
		}
		return existing, nil
	}

	// 首次登录建档，用户名或邮箱被占用时直接拒绝而不是静默改名
	if err := s.checkUnique(ctx, req.Username, req.Email, 0); err != nil {
		return nil, err
	}
	githubID := req.GithubID
	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Avatar:   req.Avatar,
		GithubID: &githubID,
		Role:     model.UserRoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}
