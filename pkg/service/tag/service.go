package tag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
	"github.com/xyhcode/blog-api/pkg/idgen"
	"github.com/xyhcode/blog-api/pkg/service/utility"
)

// 标签列表的缓存键与有效期
const (
	cacheKeyAll = "blog:tag:all"
	cacheTTL    = 10 * time.Minute
)

type Service interface {
	Create(ctx context.Context, req *model.CreateTagRequest) (*model.TagResponse, error)
	Update(ctx context.Context, publicID string, req *model.UpdateTagRequest) (*model.TagResponse, error)
	// Delete 解除标签与文章的关联后删除标签，不影响文章本身
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*model.TagResponse, error)
	// GetByName 按名称精确查找，不存在时返回 ErrNotFound
	GetByName(ctx context.Context, name string) (*model.TagResponse, error)
	// CheckName 探测名称是否已被占用
	CheckName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*model.TagResponse, error)
	ListPaged(ctx context.Context, query model.PageQuery) (*model.PageResult, error)
}

type serviceImpl struct {
	repo     repository.TagRepository
	cacheSvc utility.CacheService
}

func NewService(repo repository.TagRepository, cacheSvc utility.CacheService) Service {
	return &serviceImpl{
		repo:     repo,
		cacheSvc: cacheSvc,
	}
}

// ToResponse 将标签领域模型转换为 API 响应结构，数据库 ID 被编码为公共 ID
func ToResponse(t *model.Tag) (*model.TagResponse, error) {
	if t == nil {
		return nil, nil
	}
	publicID, err := idgen.GeneratePublicID(t.ID, idgen.EntityTypeTag)
	if err != nil {
		return nil, fmt.Errorf("生成标签公共ID失败: %w", err)
	}
	return &model.TagResponse{
		ID:        publicID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Name:      t.Name,
		Color:     t.Color,
	}, nil
}

// decodeID 解码公共 ID 并校验实体类型
func decodeID(publicID string) (uint, error) {
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != idgen.EntityTypeTag {
		return 0, fmt.Errorf("%w: %s", constant.ErrInvalidPublicID, publicID)
	}
	return dbID, nil
}

func (s *serviceImpl) Create(ctx context.Context, req *model.CreateTagRequest) (*model.TagResponse, error) {
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("检查标签名称失败: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: 标签名称 '%s' 已存在", constant.ErrConflict, req.Name)
	}

	tag := &model.Tag{
		Name:  req.Name,
		Color: req.Color,
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("创建标签失败: %w", err)
	}
	s.invalidateCache(ctx)
	return ToResponse(tag)
}

func (s *serviceImpl) Update(ctx context.Context, publicID string, req *model.UpdateTagRequest) (*model.TagResponse, error) {
	dbID, err := decodeID(publicID)
	if err != nil {
		return nil, err
	}
	tag, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != tag.Name {
		taken, err := s.repo.ExistsByName(ctx, *req.Name, dbID)
		if err != nil {
			return nil, fmt.Errorf("检查标签名称失败: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: 标签名称 '%s' 已存在", constant.ErrConflict, *req.Name)
		}
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}

	if err := s.repo.Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("更新标签失败: %w", err)
	}
	s.invalidateCache(ctx)
	return ToResponse(tag)
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := decodeID(publicID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, dbID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, dbID); err != nil {
		return fmt.Errorf("删除标签失败: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *serviceImpl) Get(ctx context.Context, publicID string) (*model.TagResponse, error) {
	dbID, err := decodeID(publicID)
	if err != nil {
		return nil, err
	}
	tag, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return ToResponse(tag)
}

func (s *serviceImpl) GetByName(ctx context.Context, name string) (*model.TagResponse, error) {
	tag, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("按名称查询标签失败: %w", err)
	}
	if tag == nil {
		return nil, fmt.Errorf("%w: 标签 '%s'", constant.ErrNotFound, name)
	}
	return ToResponse(tag)
}

func (s *serviceImpl) CheckName(ctx context.Context, name string) (bool, error) {
	tag, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("检查标签名称失败: %w", err)
	}
	return tag != nil, nil
}

func (s *serviceImpl) List(ctx context.Context) ([]*model.TagResponse, error) {
	if cached, err := s.cacheSvc.Get(ctx, cacheKeyAll); err == nil && cached != "" {
		var responses []*model.TagResponse
		if err := json.Unmarshal([]byte(cached), &responses); err == nil {
			return responses, nil
		}
	}

	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询标签列表失败: %w", err)
	}
	responses := make([]*model.TagResponse, 0, len(tags))
	for _, t := range tags {
		resp, err := ToResponse(t)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if data, err := json.Marshal(responses); err == nil {
		if err := s.cacheSvc.Set(ctx, cacheKeyAll, string(data), cacheTTL); err != nil {
			slog.Warn("写入标签列表缓存失败", "error", err)
		}
	}
	return responses, nil
}

func (s *serviceImpl) ListPaged(ctx context.Context, query model.PageQuery) (*model.PageResult, error) {
	if query.Offset < 0 || query.Limit < 1 {
		return nil, fmt.Errorf("%w: 非法的分页参数", constant.ErrBadRequest)
	}
	tags, total, err := s.repo.ListPaged(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("分页查询标签失败: %w", err)
	}
	responses := make([]*model.TagResponse, 0, len(tags))
	for _, t := range tags {
		resp, err := ToResponse(t)
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

func (s *serviceImpl) invalidateCache(ctx context.Context) {
	if err := s.cacheSvc.Delete(ctx, cacheKeyAll); err != nil {
		slog.Warn("清理标签列表缓存失败", "error", err)
	}
}
