package article

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xyhcode/blog-api/internal/pkg/parser"
	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
	"github.com/xyhcode/blog-api/pkg/idgen"
	"github.com/xyhcode/blog-api/pkg/service/category"
	"github.com/xyhcode/blog-api/pkg/service/tag"
	"github.com/xyhcode/blog-api/pkg/service/utility"
)

// 热门文章的缓存键与有效期
const (
	cacheKeyPopular     = "blog:article:popular"
	popularCacheTTL     = 5 * time.Minute
	popularDefaultLimit = 10
	popularMaxLimit     = 50
)

type Service interface {
	Create(ctx context.Context, req *model.CreateArticleRequest) (*model.ArticleResponse, error)
	Update(ctx context.Context, publicID string, req *model.UpdateArticleRequest) (*model.ArticleResponse, error)
	Delete(ctx context.Context, publicID string) error
	Get(ctx context.Context, publicID string) (*model.ArticleResponse, error)

	// ListPublished 分页列出已发布文章，排序字段仅限白名单
	ListPublished(ctx context.Context, query model.PageQuery) (*model.PageResult, error)
	ListByCategory(ctx context.Context, categoryPublicID string, query model.PageQuery) (*model.PageResult, error)
	ListByTag(ctx context.Context, tagPublicID string, query model.PageQuery) (*model.PageResult, error)
	Search(ctx context.Context, keyword string, query model.PageQuery) (*model.PageResult, error)

	// ListPopular 返回浏览量最高的 limit 篇已发布文章，
	// limit 不合法时取默认值，默认条数的结果短暂缓存
	ListPopular(ctx context.Context, limit int) ([]*model.ArticleResponse, error)

	// IncrementViewCount 给文章浏览量原子加一
	IncrementViewCount(ctx context.Context, publicID string) error
}

type serviceImpl struct {
	repo         repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	cacheSvc     utility.CacheService
}

func NewService(
	repo repository.ArticleRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	cacheSvc utility.CacheService,
) Service {
	return &serviceImpl{
		repo:         repo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		cacheSvc:     cacheSvc,
	}
}

// ToResponse 将文章领域模型转换为 API 响应结构，关联的分类和标签一并转换
func ToResponse(a *model.Article) (*model.ArticleResponse, error) {
	if a == nil {
		return nil, nil
	}
	publicID, err := idgen.GeneratePublicID(a.ID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, fmt.Errorf("生成文章公共ID失败: %w", err)
	}

	var categoryResp *model.CategoryResponse
	if a.Category != nil {
		categoryResp, err = category.ToResponse(a.Category)
		if err != nil {
			return nil, err
		}
	}
	tagResps := make([]*model.TagResponse, 0, len(a.Tags))
	for _, t := range a.Tags {
		tagResp, err := tag.ToResponse(t)
		if err != nil {
			return nil, err
		}
		tagResps = append(tagResps, tagResp)
	}

	return &model.ArticleResponse{
		ID:          publicID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Title:       a.Title,
		Content:     a.Content,
		ContentHTML: a.ContentHTML,
		Summary:     a.Summary,
		Author:      a.Author,
		Status:      a.Status,
		Category:    categoryResp,
		Tags:        tagResps,
		CoverImage:  a.CoverImage,
		ViewCount:   a.ViewCount,
	}, nil
}

// decodeID 解码公共 ID 并校验实体类型
func decodeID(publicID string, entityType uint64) (uint, error) {
	dbID, decodedType, err := idgen.DecodePublicID(publicID)
	if err != nil || decodedType != entityType {
		return 0, fmt.Errorf("%w: %s", constant.ErrInvalidPublicID, publicID)
	}
	return dbID, nil
}

// validatePageQuery 校验分页参数和排序字段白名单
func validatePageQuery(query model.PageQuery) error {
	if query.Offset < 0 || query.Limit < 1 {
		return fmt.Errorf("%w: 非法的分页参数", constant.ErrBadRequest)
	}
	switch query.SortBy {
	case "", model.ArticleSortByCreatedAt, model.ArticleSortByUpdatedAt, model.ArticleSortByViewCount:
	default:
		return fmt.Errorf("%w: 不支持的排序字段 '%s'", constant.ErrBadRequest, query.SortBy)
	}
	switch query.SortDir {
	case "", model.SortDirAsc, model.SortDirDesc:
	default:
		return fmt.Errorf("%w: 不支持的排序方向 '%s'", constant.ErrBadRequest, query.SortDir)
	}
	return nil
}

// resolveCategoryID 把请求里的分类公共 ID 解析为数据库 ID 并确认其存在
func (s *serviceImpl) resolveCategoryID(ctx context.Context, categoryPublicID *string) (*uint, error) {
	if categoryPublicID == nil || *categoryPublicID == "" {
		return nil, nil
	}
	dbID, err := decodeID(*categoryPublicID, idgen.EntityTypeCategory)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, dbID); err != nil {
		return nil, err
	}
	return &dbID, nil
}

// resolveTagIDs 把请求里的标签公共 ID 列表解析为数据库 ID 并逐一确认存在，
// 任何未知 ID 都会使整个操作失败。标签关联是集合语义，重复 ID 先去重。
func (s *serviceImpl) resolveTagIDs(ctx context.Context, tagPublicIDs []string) ([]uint, error) {
	if tagPublicIDs == nil {
		return nil, nil
	}
	decoded, err := idgen.DecodePublicIDBatch(tagPublicIDs, idgen.EntityTypeTag)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidPublicID, err)
	}

	dbIDs := make([]uint, 0, len(decoded))
	seen := make(map[uint]struct{}, len(decoded))
	for _, id := range decoded {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		dbIDs = append(dbIDs, id)
	}

	tags, err := s.tagRepo.GetByIDs(ctx, dbIDs)
	if err != nil {
		return nil, fmt.Errorf("查询标签失败: %w", err)
	}
	if len(tags) != len(dbIDs) {
		return nil, fmt.Errorf("%w: 请求中包含不存在的标签", constant.ErrNotFound)
	}
	return dbIDs, nil
}

func (s *serviceImpl) Create(ctx context.Context, req *model.CreateArticleRequest) (*model.ArticleResponse, error) {
	categoryID, err := s.resolveCategoryID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	tagIDs, err := s.resolveTagIDs(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	contentHTML, err := parser.MarkdownToHTML(req.Content)
	if err != nil {
		return nil, fmt.Errorf("渲染文章内容失败: %w", err)
	}

	// 新建文章一律从草稿开始，发布通过后续的更新操作完成
	article := &model.Article{
		Title:       req.Title,
		Content:     req.Content,
		ContentHTML: contentHTML,
		Summary:     req.Summary,
		Author:      req.Author,
		Status:      model.ArticleStatusDraft,
		CategoryID:  categoryID,
		CoverImage:  req.CoverImage,
	}
	if err := s.repo.Create(ctx, article, tagIDs); err != nil {
		return nil, fmt.Errorf("创建文章失败: %w", err)
	}

	created, err := s.repo.GetByID(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	return ToResponse(created)
}

func (s *serviceImpl) Update(ctx context.Context, publicID string, req *model.UpdateArticleRequest) (*model.ArticleResponse, error) {
	dbID, err := decodeID(publicID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}
	article, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		contentHTML, err := parser.MarkdownToHTML(*req.Content)
		if err != nil {
			return nil, fmt.Errorf("渲染文章内容失败: %w", err)
		}
		article.Content = *req.Content
		article.ContentHTML = contentHTML
	}
	if req.Summary != nil {
		article.Summary = *req.Summary
	}
	if req.Author != nil {
		article.Author = *req.Author
	}
	if req.Status != nil {
		status := model.ArticleStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: 未知的文章状态 '%s'", constant.ErrBadRequest, *req.Status)
		}
		article.Status = status
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			article.CategoryID = nil
		} else {
			categoryID, err := s.resolveCategoryID(ctx, req.CategoryID)
			if err != nil {
				return nil, err
			}
			article.CategoryID = categoryID
		}
	}
	if req.CoverImage != nil {
		article.CoverImage = *req.CoverImage
	}

	// tagIDs 为 nil 表示保持现有标签关联
	var tagIDs []uint
	if req.TagIDs != nil {
		resolved, err := s.resolveTagIDs(ctx, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			resolved = []uint{}
		}
		tagIDs = resolved
	}

	if err := s.repo.Update(ctx, article, tagIDs); err != nil {
		return nil, fmt.Errorf("更新文章失败: %w", err)
	}
	s.invalidatePopularCache(ctx)

	updated, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return ToResponse(updated)
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := decodeID(publicID, idgen.EntityTypeArticle)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, dbID); err != nil {
		return err
	}
	s.invalidatePopularCache(ctx)
	return nil
}

func (s *serviceImpl) Get(ctx context.Context, publicID string) (*model.ArticleResponse, error) {
	dbID, err := decodeID(publicID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}
	article, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return ToResponse(article)
}

// toPageResult 把仓库层返回的文章切片包装成统一分页结构
func toPageResult(articles []*model.Article, total int64, query model.PageQuery) (*model.PageResult, error) {
	responses := make([]*model.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		resp, err := ToResponse(a)
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

func (s *serviceImpl) ListPublished(ctx context.Context, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	articles, total, err := s.repo.ListPublished(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}
	return toPageResult(articles, total, query)
}

func (s *serviceImpl) ListByCategory(ctx context.Context, categoryPublicID string, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	categoryID, err := decodeID(categoryPublicID, idgen.EntityTypeCategory)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	articles, total, err := s.repo.ListByCategory(ctx, categoryID, query)
	if err != nil {
		return nil, fmt.Errorf("按分类查询文章失败: %w", err)
	}
	return toPageResult(articles, total, query)
}

func (s *serviceImpl) ListByTag(ctx context.Context, tagPublicID string, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	tagID, err := decodeID(tagPublicID, idgen.EntityTypeTag)
	if err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return nil, err
	}
	articles, total, err := s.repo.ListByTag(ctx, tagID, query)
	if err != nil {
		return nil, fmt.Errorf("按标签查询文章失败: %w", err)
	}
	return toPageResult(articles, total, query)
}

func (s *serviceImpl) Search(ctx context.Context, keyword string, query model.PageQuery) (*model.PageResult, error) {
	if keyword == "" {
		return nil, fmt.Errorf("%w: 搜索关键词不能为空", constant.ErrBadRequest)
	}
	if query.Offset < 0 || query.Limit < 1 {
		return nil, fmt.Errorf("%w: 非法的分页参数", constant.ErrBadRequest)
	}
	articles, total, err := s.repo.Search(ctx, keyword, query)
	if err != nil {
		return nil, fmt.Errorf("搜索文章失败: %w", err)
	}
	return toPageResult(articles, total, query)
}

func (s *serviceImpl) ListPopular(ctx context.Context, limit int) ([]*model.ArticleResponse, error) {
	if limit < 1 || limit > popularMaxLimit {
		limit = popularDefaultLimit
	}

	// 只缓存默认条数的结果，自定义条数直接查库
	useCache := limit == popularDefaultLimit
	if useCache {
		if cached, err := s.cacheSvc.Get(ctx, cacheKeyPopular); err == nil && cached != "" {
			var responses []*model.ArticleResponse
			if err := json.Unmarshal([]byte(cached), &responses); err == nil {
				return responses, nil
			}
		}
	}

	articles, err := s.repo.ListPopular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("查询热门文章失败: %w", err)
	}
	responses := make([]*model.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		resp, err := ToResponse(a)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if useCache {
		if data, err := json.Marshal(responses); err == nil {
			if err := s.cacheSvc.Set(ctx, cacheKeyPopular, string(data), popularCacheTTL); err != nil {
				slog.Warn("写入热门文章缓存失败", "error", err)
			}
		}
	}
	return responses, nil
}

func (s *serviceImpl) IncrementViewCount(ctx context.Context, publicID string) error {
	dbID, err := decodeID(publicID, idgen.EntityTypeArticle)
	if err != nil {
		return err
	}
	return s.repo.IncrementViewCount(ctx, dbID)
}

func (s *serviceImpl) invalidatePopularCache(ctx context.Context) {
	if err := s.cacheSvc.Delete(ctx, cacheKeyPopular); err != nil {
		slog.Warn("清理热门文章缓存失败", "error", err)
	}
}
