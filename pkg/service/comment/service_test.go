package comment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xyhcode/blog-api/internal/infra/persistence/gormrepo"
	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
	"github.com/xyhcode/blog-api/pkg/idgen"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testEnv struct {
	svc         Service
	articleRepo repository.ArticleRepository
	userRepo    repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return &testEnv{
		svc:         NewService(gormrepo.NewCommentRepository(db)),
		articleRepo: gormrepo.NewArticleRepository(db),
		userRepo:    gormrepo.NewUserRepository(db),
	}
}

// seed 创建一篇文章和一个用户，返回两者的公共ID
func (e *testEnv) seed(t *testing.T) (articlePublicID, userPublicID string) {
	t.Helper()
	ctx := context.Background()

	article := &model.Article{
		Title:   "文章",
		Content: "内容",
		Summary: "摘要",
		Author:  "作者",
		Status:  model.ArticleStatusPublished,
	}
	if err := e.articleRepo.Create(ctx, article, nil); err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	user := &model.User{
		Username: "commenter",
		Email:    "commenter@example.com",
		Role:     model.UserRoleUser,
	}
	if err := e.userRepo.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	articlePublicID, err := idgen.GeneratePublicID(article.ID, idgen.EntityTypeArticle)
	if err != nil {
		t.Fatalf("生成公共ID失败: %v", err)
	}
	userPublicID, err = idgen.GeneratePublicID(user.ID, idgen.EntityTypeUser)
	if err != nil {
		t.Fatalf("生成公共ID失败: %v", err)
	}
	return articlePublicID, userPublicID
}

func TestCreateStartsPendingAndStripsHTML(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	articleID, userID := env.seed(t)

	created, err := env.svc.Create(ctx, userID, &model.CreateCommentRequest{
		ArticleID: articleID,
		Content:   "<script>alert(1)</script>好文章，<b>学习了</b>",
	})
	if err != nil {
		t.Fatalf("创建评论失败: %v", err)
	}
	if created.Status != model.CommentStatusPending {
		t.Errorf("新评论应为待审核, 实际: %s", created.Status)
	}
	if created.Content != "好文章，学习了" {
		t.Errorf("评论内容应剥离 HTML 标签, 实际: %q", created.Content)
	}

	// 剥离标签后为空的评论应被拒绝
	_, err = env.svc.Create(ctx, userID, &model.CreateCommentRequest{
		ArticleID: articleID,
		Content:   "<p>  </p>",
	})
	if !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("空评论应返回 ErrBadRequest, 实际: %v", err)
	}
}

func TestCreateChecksExistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	articleID, userID := env.seed(t)

	missingArticle, _ := idgen.GeneratePublicID(999, idgen.EntityTypeArticle)
	_, err := env.svc.Create(ctx, userID, &model.CreateCommentRequest{
		ArticleID: missingArticle,
		Content:   "评论",
	})
	if !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的文章应返回 ErrNotFound, 实际: %v", err)
	}

	missingUser, _ := idgen.GeneratePublicID(999, idgen.EntityTypeUser)
	_, err = env.svc.Create(ctx, missingUser, &model.CreateCommentRequest{
		ArticleID: articleID,
		Content:   "评论",
	})
	if !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的用户应返回 ErrNotFound, 实际: %v", err)
	}

	// 校验失败不应留下任何评论
	result, err := env.svc.ListByArticle(ctx, articleID, "", model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("查询评论失败: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("失败的创建不应落任何数据, 总数: %d", result.Total)
	}
}

func TestApprovedListFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	articleID, userID := env.seed(t)

	first, err := env.svc.Create(ctx, userID, &model.CreateCommentRequest{ArticleID: articleID, Content: "第一条"})
	if err != nil {
		t.Fatalf("创建评论失败: %v", err)
	}
	if _, err := env.svc.Create(ctx, userID, &model.CreateCommentRequest{ArticleID: articleID, Content: "第二条"}); err != nil {
		t.Fatalf("创建评论失败: %v", err)
	}

	// 公开列表不含待审核评论
	public, err := env.svc.ListApprovedByArticle(ctx, articleID, model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("查询公开评论失败: %v", err)
	}
	if public.Total != 0 {
		t.Errorf("待审核评论不应公开, 总数: %d", public.Total)
	}

	approved, err := env.svc.UpdateStatus(ctx, first.ID, &model.UpdateCommentStatusRequest{
		Status: string(model.CommentStatusApproved),
	})
	if err != nil {
		t.Fatalf("审核评论失败: %v", err)
	}
	if approved.Status != model.CommentStatusApproved {
		t.Errorf("审核后状态不符: %s", approved.Status)
	}

	public, err = env.svc.ListApprovedByArticle(ctx, articleID, model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("查询公开评论失败: %v", err)
	}
	if public.Total != 1 {
		t.Errorf("审核通过后公开总数应为 1, 实际: %d", public.Total)
	}

	count, err := env.svc.CountApprovedByArticle(ctx, articleID)
	if err != nil {
		t.Fatalf("统计已通过评论失败: %v", err)
	}
	if count != 1 {
		t.Errorf("已通过评论数应为 1, 实际: %d", count)
	}
	pending, err := env.svc.CountPending(ctx)
	if err != nil {
		t.Fatalf("统计待审核评论失败: %v", err)
	}
	if pending != 1 {
		t.Errorf("待审核评论数应为 1, 实际: %d", pending)
	}
}

func TestUpdateStatusOverwrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	articleID, userID := env.seed(t)

	created, err := env.svc.Create(ctx, userID, &model.CreateCommentRequest{ArticleID: articleID, Content: "评论"})
	if err != nil {
		t.Fatalf("创建评论失败: %v", err)
	}

	// 任意状态间可以直接切换，没有状态机限制
	transitions := []model.CommentStatus{
		model.CommentStatusApproved,
		model.CommentStatusRejected,
		model.CommentStatusPending,
		model.CommentStatusRejected,
	}
	for _, status := range transitions {
		updated, err := env.svc.UpdateStatus(ctx, created.ID, &model.UpdateCommentStatusRequest{Status: string(status)})
		if err != nil {
			t.Fatalf("切换到 %s 失败: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("状态应为 %s, 实际: %s", status, updated.Status)
		}
	}

	if _, err := env.svc.UpdateStatus(ctx, created.ID, &model.UpdateCommentStatusRequest{Status: "MAYBE"}); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("非法状态应返回 ErrBadRequest, 实际: %v", err)
	}

	missing, _ := idgen.GeneratePublicID(999, idgen.EntityTypeComment)
	if _, err := env.svc.UpdateStatus(ctx, missing, &model.UpdateCommentStatusRequest{Status: string(model.CommentStatusApproved)}); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的评论应返回 ErrNotFound, 实际: %v", err)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	articleID, userID := env.seed(t)

	created, err := env.svc.Create(ctx, userID, &model.CreateCommentRequest{ArticleID: articleID, Content: "评论"})
	if err != nil {
		t.Fatalf("创建评论失败: %v", err)
	}
	if err := env.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("删除评论失败: %v", err)
	}
	if _, err := env.svc.Get(ctx, created.ID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("删除后的查询应返回 ErrNotFound, 实际: %v", err)
	}
}
