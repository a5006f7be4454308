package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/xyhcode/blog-api/internal/pkg/parser"
	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
	"github.com/xyhcode/blog-api/pkg/idgen"
)

type Service interface {
	// Create 以登录用户身份在文章下发表评论，新评论始终处于待审核状态
	Create(ctx context.Context, userPublicID string, req *model.CreateCommentRequest) (*model.CommentResponse, error)

	Get(ctx context.Context, publicID string) (*model.CommentResponse, error)

	// ListApprovedByArticle 是公开读路径，只返回已通过审核的评论
	ListApprovedByArticle(ctx context.Context, articlePublicID string, query model.PageQuery) (*model.PageResult, error)

	// ListByArticle 是管理读路径，status 为空字符串时不过滤状态
	ListByArticle(ctx context.Context, articlePublicID string, status string, query model.PageQuery) (*model.PageResult, error)
	ListByStatus(ctx context.Context, status string, query model.PageQuery) (*model.PageResult, error)
	ListByUser(ctx context.Context, userPublicID string, query model.PageQuery) (*model.PageResult, error)

	// UpdateStatus 直接覆盖评论的审核状态
	UpdateStatus(ctx context.Context, publicID string, req *model.UpdateCommentStatusRequest) (*model.CommentResponse, error)

	Delete(ctx context.Context, publicID string) error

	// CountApprovedByArticle 统计某文章下已通过审核的评论数
	CountApprovedByArticle(ctx context.Context, articlePublicID string) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo repository.CommentRepository
}

func NewService(repo repository.CommentRepository) Service {
	return &serviceImpl{repo: repo}
}

// ToResponse 将评论领域模型转换为 API 响应结构
func ToResponse(c *model.Comment) (*model.CommentResponse, error) {
	if c == nil {
		return nil, nil
	}
	publicID, err := idgen.GeneratePublicID(c.ID, idgen.EntityTypeComment)
	if err != nil {
		return nil, fmt.Errorf("生成评论公共ID失败: %w", err)
	}
	articlePublicID, err := idgen.GeneratePublicID(c.ArticleID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, fmt.Errorf("生成文章公共ID失败: %w", err)
	}
	userPublicID, err := idgen.GeneratePublicID(c.UserID, idgen.EntityTypeUser)
	if err != nil {
		return nil, fmt.Errorf("生成用户公共ID失败: %w", err)
	}
	return &model.CommentResponse{
		ID:        publicID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Content:   c.Content,
		Status:    c.Status,
		ArticleID: articlePublicID,
		UserID:    userPublicID,
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

// parseStatus 把请求里的状态字符串解析为枚举
func parseStatus(raw string) (model.CommentStatus, error) {
	status := model.CommentStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: 未知的评论状态 '%s'", constant.ErrBadRequest, raw)
	}
	return status, nil
}

func validatePageQuery(query model.PageQuery) error {
	if query.Offset < 0 || query.Limit < 1 {
		return fmt.Errorf("%w: 非法的分页参数", constant.ErrBadRequest)
	}
	return nil
}

func (s *serviceImpl) Create(ctx context.Context, userPublicID string, req *model.CreateCommentRequest) (*model.CommentResponse, error) {
	userID, err := decodeID(userPublicID, idgen.EntityTypeUser)
	if err != nil {
		return nil, err
	}
	articleID, err := decodeID(req.ArticleID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}

	// 评论入库前剥离所有 HTML 标签
	content := strings.TrimSpace(parser.StripHTML(req.Content))
	if content == "" {
		return nil, fmt.Errorf("%w: 评论内容不能为空", constant.ErrBadRequest)
	}

	comment := &model.Comment{
		Content:   content,
		Status:    model.CommentStatusPending,
		ArticleID: articleID,
		UserID:    userID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return ToResponse(comment)
}

func (s *serviceImpl) Get(ctx context.Context, publicID string) (*model.CommentResponse, error) {
	dbID, err := decodeID(publicID, idgen.EntityTypeComment)
	if err != nil {
		return nil, err
	}
	comment, err := s.repo.GetByID(ctx, dbID)
	if err != nil {
		return nil, err
	}
	return ToResponse(comment)
}

// toPageResult 把仓库层返回的评论切片包装成统一分页结构
func toPageResult(comments []*model.Comment, total int64, query model.PageQuery) (*model.PageResult, error) {
	responses := make([]*model.CommentResponse, 0, len(comments))
	for _, c := range comments {
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

func (s *serviceImpl) ListApprovedByArticle(ctx context.Context, articlePublicID string, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	articleID, err := decodeID(articlePublicID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}
	approved := model.CommentStatusApproved
	comments, total, err := s.repo.ListByArticle(ctx, articleID, &approved, query)
	if err != nil {
		return nil, fmt.Errorf("查询文章评论失败: %w", err)
	}
	return toPageResult(comments, total, query)
}

func (s *serviceImpl) ListByArticle(ctx context.Context, articlePublicID string, status string, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	articleID, err := decodeID(articlePublicID, idgen.EntityTypeArticle)
	if err != nil {
		return nil, err
	}
	var statusFilter *model.CommentStatus
	if status != "" {
		parsed, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		statusFilter = &parsed
	}
	comments, total, err := s.repo.ListByArticle(ctx, articleID, statusFilter, query)
	if err != nil {
		return nil, fmt.Errorf("查询文章评论失败: %w", err)
	}
	return toPageResult(comments, total, query)
}

func (s *serviceImpl) ListByStatus(ctx context.Context, status string, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	parsed, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	comments, total, err := s.repo.ListByStatus(ctx, parsed, query)
	if err != nil {
		return nil, fmt.Errorf("按状态查询评论失败: %w", err)
	}
	return toPageResult(comments, total, query)
}

func (s *serviceImpl) ListByUser(ctx context.Context, userPublicID string, query model.PageQuery) (*model.PageResult, error) {
	if err := validatePageQuery(query); err != nil {
		return nil, err
	}
	userID, err := decodeID(userPublicID, idgen.EntityTypeUser)
	if err != nil {
		return nil, err
	}
	comments, total, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("查询用户评论失败: %w", err)
	}
	return toPageResult(comments, total, query)
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, publicID string, req *model.UpdateCommentStatusRequest) (*model.CommentResponse, error) {
	dbID, err := decodeID(publicID, idgen.EntityTypeComment)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	comment, err := s.repo.UpdateStatus(ctx, dbID, status)
	if err != nil {
		return nil, err
	}
	return ToResponse(comment)
}

func (s *serviceImpl) Delete(ctx context.Context, publicID string) error {
	dbID, err := decodeID(publicID, idgen.EntityTypeComment)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, dbID)
}

func (s *serviceImpl) CountApprovedByArticle(ctx context.Context, articlePublicID string) (int64, error) {
	articleID, err := decodeID(articlePublicID, idgen.EntityTypeArticle)
	if err != nil {
		return 0, err
	}
	return s.repo.CountByArticleAndStatus(ctx, articleID, model.CommentStatusApproved)
}

func (s *serviceImpl) CountPending(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, model.CommentStatusPending)
}
