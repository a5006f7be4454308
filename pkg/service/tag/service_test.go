package tag

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
	svc := NewService(gormrepo.NewTagRepository(db), utility.NewMemoryCacheService())
	return svc, gormrepo.NewArticleRepository(db)
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateTagRequest{Name: "Go", Color: "#00ADD8"})
	if err != nil {
		t.Fatalf("创建标签失败: %v", err)
	}
	if created.ID == "" {
		t.Fatal("创建后应返回公共ID")
	}

	// 重名创建应冲突
	if _, err := svc.Create(ctx, &model.CreateTagRequest{Name: "Go"}); !errors.Is(err, constant.ErrConflict) {
		t.Errorf("重名创建应返回 ErrConflict, 实际: %v", err)
	}

	tags, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("查询标签列表失败: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Go" || tags[0].Color != "#00ADD8" {
		t.Errorf("标签列表内容不符: %+v", tags)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, _ := svc.Create(ctx, &model.CreateTagRequest{Name: "Redis"})
	second, _ := svc.Create(ctx, &model.CreateTagRequest{Name: "MySQL"})

	takenName := "Redis"
	if _, err := svc.Update(ctx, second.ID, &model.UpdateTagRequest{Name: &takenName}); !errors.Is(err, constant.ErrConflict) {
		t.Errorf("改为占用名称应返回 ErrConflict, 实际: %v", err)
	}

	newColor := "#D82C20"
	updated, err := svc.Update(ctx, first.ID, &model.UpdateTagRequest{Color: &newColor})
	if err != nil {
		t.Fatalf("更新标签失败: %v", err)
	}
	if updated.Color != "#D82C20" || updated.Name != "Redis" {
		t.Errorf("更新结果不符: %+v", updated)
	}
}

func TestDeleteDetachesArticles(t *testing.T) {
	svc, articleRepo := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateTagRequest{Name: "Docker"})
	if err != nil {
		t.Fatalf("创建标签失败: %v", err)
	}
	tagID, _, err := idgen.DecodePublicID(created.ID)
	if err != nil {
		t.Fatalf("解码公共ID失败: %v", err)
	}

	article := &model.Article{
		Title:   "容器化部署",
		Content: "内容",
		Summary: "摘要",
		Author:  "作者",
		Status:  model.ArticleStatusPublished,
	}
	if err := articleRepo.Create(ctx, article, []uint{tagID}); err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}

	// 删除标签不应影响文章，只解除关联
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("删除标签失败: %v", err)
	}
	got, err := articleRepo.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("查询文章失败: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("删除标签后文章不应再关联标签: %+v", got.Tags)
	}

	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("删除后的查询应返回 ErrNotFound, 实际: %v", err)
	}
}
