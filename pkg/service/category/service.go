package category

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

// 分类列表的缓存键与有效期
const (
	cacheKeyAll = "blog:category:all"
	cacheTTL    = 10 * time.Minute
)

type Service interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.CategoryResponse, error)
	Update(ctx context.Context, publicID string, req *model.UpdateCategoryRequest) (*model.CategoryResponse, error)
	// Delete 在分类仍被文章引用时返回 ErrCategoryInUse，拒绝删除
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*model.CategoryResponse, error)
	// GetByName 按名称精确查找，不存在时返回 ErrNotFound
	GetByName(ctx context.Context, name string) (*model.CategoryResponse, error)
	// CheckName 探测名称是否已被占用
	CheckName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*model.CategoryResponse, error)
	ListPaged(ctx context.Context, query model.PageQuery) (*model.PageResult, error)
}

type serviceImpl struct {
	repo        repository.CategoryRepository
	articleRepo repository.ArticleRepository
	cacheSvc    utility.CacheService
}

func NewService(
	repo repository.CategoryRepository,
	articleRepo repository.ArticleRepository,
	cacheSvc utility.CacheService,
) Service {
	return &serviceImpl{
		repo:        repo,
		articleRepo: articleRepo,
		cacheSvc:    cacheSvc,
	}
}

// ToResponse 将分类领域模型转换为 API 响应结构，数据库 ID 被编码为公共 ID
func ToResponse(c *model.Category) (*model.CategoryResponse, error) {
	if c == nil {
		return nil, nil
	}
	publicID, err := idgen.GeneratePublicID(c.ID, idgen.EntityTypeCategory)
	if err != nil {
		return nil, fmt.Errorf("生成分类公共ID失败: %w", err)
	}
	return &model.CategoryResponse{
		ID:          publicID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
	}, nil
}

// decodeID 解码公共 ID 并校验实体类型
func decodeID(publicID string) (uint, error) {
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != idgen.EntityTypeCategory {
		return 0, fmt.Errorf("%w: %s", constant.ErrInvalidPublicID, publicID)
	}
	return dbID, nil
}

func (s *serviceImpl) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.CategoryResponse, error) {
	// 先做存在性探测给出友好错误，数据库唯一索引兜底并发场景
	existing, err := s.repo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("检查分类名称失败: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: 分类名称 '%s' 已存在", constant.ErrConflict, req.Name)
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}
	s.invalidateCache(ctx)
	return ToResponse(category)
}

func (s *serviceImpl) Update(ctx context.Context, publicID string, req *model.UpdateCategoryRequest) (*model.CategoryResponse, error) {
	dbID, err := decodeID(publicID)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		// 改名时排除自身后检查占用
		taken, err := s.repo.ExistsByName(ctx, *req.Name, dbID)
		if err != nil {
			return nil, fmt.Errorf("检查分类名称失败: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: 分类名称 '%s' 已存在", constant.ErrConflict, *req.Name)
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	s.invalidateCache(ctx)
	return ToResponse(category)
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := decodeID(publicID)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, dbID); err != nil {
		return err
	}

	count, err := s.articleRepo.CountByCategory(ctx, dbID)
	if err != nil {
		return fmt.Errorf("统计分类下文章数失败: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: 仍有 %d 篇文章引用该分类", constant.ErrCategoryInUse, count)
	}

	if err := s.repo.Delete(ctx, dbID); err != nil {
		return fmt.Errorf("删除分类失败: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *serviceImpl) Get(ctx context.Context, publicID string) (*model.CategoryResponse, error) {
	dbID, err := decodeID(publicID)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return ToResponse(category)
}

func (s *serviceImpl) GetByName(ctx context.Context, name string) (*model.CategoryResponse, error) {
	category, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("按名称查询分类失败: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: 分类 '%s'", constant.ErrNotFound, name)
	}
	return ToResponse(category)
}

func (s *serviceImpl) CheckName(ctx context.Context, name string) (bool, error) {
	category, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("检查分类名称失败: %w", err)
	}
	return category != nil, nil
}

func (s *serviceImpl) List(ctx context.Context) ([]*model.CategoryResponse, error) {
	// 分类全量列表是高频读路径，走缓存
	if cached, err := s.cacheSvc.Get(ctx, cacheKeyAll); err == nil && cached != "" {
		var responses []*model.CategoryResponse
		if err := json.Unmarshal([]byte(cached), &responses); err == nil {
			return responses, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}
	responses := make([]*model.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp, err := ToResponse(c)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if data, err := json.Marshal(responses); err == nil {
		if err := s.cacheSvc.Set(ctx, cacheKeyAll, string(data), cacheTTL); err != nil {
			slog.Warn("写入分类列表缓存失败", "error", err)
		}
	}
	return responses, nil
}

func (s *serviceImpl) ListPaged(ctx context.Context, query model.PageQuery) (*model.PageResult, error) {
	if query.Offset < 0 || query.Limit < 1 {
		return nil, fmt.Errorf("%w: 非法的分页参数", constant.ErrBadRequest)
	}
	categories, total, err := s.repo.ListPaged(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("分页查询分类失败: %w", err)
	}
	responses := make([]*model.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp, err := ToResponse(c)
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
		slog.Warn("清理分类列表缓存失败", "error", err)
	}
}
