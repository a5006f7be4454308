package category

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
	"github.com/xyhcode/blog-api/pkg/service/utility"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestService(t *testing.T) (Service, repository.ArticleRepository) {
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
	articleRepo := gormrepo.NewArticleRepository(db)
	svc := NewService(gormrepo.NewCategoryRepository(db), articleRepo, utility.NewMemoryCacheService())
	return svc, articleRepo
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateCategoryRequest{
		Name:        "技术",
		Description: "技术类文章",
		Icon:        "code",
	})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	if created.ID == "" {
		t.Fatal("创建后应返回公共ID")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("按公共ID查询失败: %v", err)
	}
	if got.Name != "技术" || got.Description != "技术类文章" || got.Icon != "code" {
		t.Errorf("查询结果与创建内容不一致: %+v", got)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &model.CreateCategoryRequest{Name: "生活"}); err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	_, err := svc.Create(ctx, &model.CreateCategoryRequest{Name: "生活"})
	if !errors.Is(err, constant.ErrConflict) {
		t.Errorf("重名创建应返回 ErrConflict, 实际: %v", err)
	}
}

func TestUpdateRename(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, _ := svc.Create(ctx, &model.CreateCategoryRequest{Name: "前端"})
	second, _ := svc.Create(ctx, &model.CreateCategoryRequest{Name: "后端"})

	// 改成已占用的名称应冲突
	takenName := "前端"
	if _, err := svc.Update(ctx, second.ID, &model.UpdateCategoryRequest{Name: &takenName}); !errors.Is(err, constant.ErrConflict) {
		t.Errorf("改为占用名称应返回 ErrConflict, 实际: %v", err)
	}

	// 名称不变的更新不应把自己当成冲突
	sameName := "前端"
	newDesc := "前端开发"
	updated, err := svc.Update(ctx, first.ID, &model.UpdateCategoryRequest{Name: &sameName, Description: &newDesc})
	if err != nil {
		t.Fatalf("名称不变的更新不应失败: %v", err)
	}
	if updated.Description != "前端开发" {
		t.Errorf("描述未更新: %+v", updated)
	}
}

func TestDeleteBlockedWhenInUse(t *testing.T) {
	svc, articleRepo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateCategoryRequest{Name: "随笔"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	dbID, _, err := idgen.DecodePublicID(created.ID)
	if err != nil {
		t.Fatalf("解码公共ID失败: %v", err)
	}

	article := &model.Article{
		Title:      "测试文章",
		Content:    "内容",
		Summary:    "摘要",
		Author:     "作者",
		Status:     model.ArticleStatusPublished,
		CategoryID: &dbID,
	}
	if err := articleRepo.Create(ctx, article, nil); err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, constant.ErrCategoryInUse) {
		t.Errorf("被引用的分类删除应返回 ErrCategoryInUse, 实际: %v", err)
	}

	if err := articleRepo.Delete(ctx, article.ID); err != nil {
		t.Fatalf("删除文章失败: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Errorf("无引用的分类删除应成功, 实际: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("删除后的查询应返回 ErrNotFound, 实际: %v", err)
	}
}

func TestListPaged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, &model.CreateCategoryRequest{Name: fmt.Sprintf("分类%d", i)}); err != nil {
			t.Fatalf("创建分类失败: %v", err)
		}
	}

	result, err := svc.ListPaged(ctx, model.PageQuery{Offset: 2, Limit: 2})
	if err != nil {
		t.Fatalf("分页查询失败: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("总数应为 5, 实际: %d", result.Total)
	}
	items, ok := result.Items.([]*model.CategoryResponse)
	if !ok {
		t.Fatalf("Items 类型不正确: %T", result.Items)
	}
	if len(items) != 2 {
		t.Errorf("当前页应有 2 条, 实际: %d", len(items))
	}

	if _, err := svc.ListPaged(ctx, model.PageQuery{Offset: -1, Limit: 10}); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("负偏移量应返回 ErrBadRequest, 实际: %v", err)
	}
}

func TestInvalidPublicID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		publicID string
	}{
		{name: "乱码", publicID: "!!!"},
		{name: "空字符串", publicID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Get(ctx, tt.publicID); !errors.Is(err, constant.ErrInvalidPublicID) {
				t.Errorf("应返回 ErrInvalidPublicID, 实际: %v", err)
			}
		})
	}

	// 其他实体类型的合法ID也应被拒绝
	articleID, err := idgen.GeneratePublicID(1, idgen.EntityTypeArticle)
	if err != nil {
		t.Fatalf("生成公共ID失败: %v", err)
	}
	if _, err := svc.Get(ctx, articleID); !errors.Is(err, constant.ErrInvalidPublicID) {
		t.Errorf("文章类型的ID应返回 ErrInvalidPublicID, 实际: %v", err)
	}
}
