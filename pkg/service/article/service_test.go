package article

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xyhcode/blog-api/internal/infra/persistence/gormrepo"
	"github.com/xyhcode/blog-api/pkg/constant"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/idgen"
	"github.com/xyhcode/blog-api/pkg/service/category"
	"github.com/xyhcode/blog-api/pkg/service/tag"
	"github.com/xyhcode/blog-api/pkg/service/utility"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testEnv struct {
	svc         Service
	categorySvc category.Service
	tagSvc      tag.Service
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

	articleRepo := gormrepo.NewArticleRepository(db)
	categoryRepo := gormrepo.NewCategoryRepository(db)
	tagRepo := gormrepo.NewTagRepository(db)
	cacheSvc := utility.NewMemoryCacheService()

	return &testEnv{
		svc:         NewService(articleRepo, categoryRepo, tagRepo, cacheSvc),
		categorySvc: category.NewService(categoryRepo, articleRepo, cacheSvc),
		tagSvc:      tag.NewService(tagRepo, cacheSvc),
	}
}

// publish 把草稿文章切换为已发布状态
func (e *testEnv) publish(t *testing.T, publicID string) {
	t.Helper()
	status := string(model.ArticleStatusPublished)
	if _, err := e.svc.Update(context.Background(), publicID, &model.UpdateArticleRequest{Status: &status}); err != nil {
		t.Fatalf("发布文章失败: %v", err)
	}
}

func TestCreateStartsAsDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title:   "第一篇文章",
		Content: "# 标题\n\n正文段落",
		Summary: "摘要",
		Author:  "作者",
	})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	if created.Status != model.ArticleStatusDraft {
		t.Errorf("新建文章应为草稿, 实际: %s", created.Status)
	}
	if !strings.Contains(created.ContentHTML, "<h1") || !strings.Contains(created.ContentHTML, "正文段落") {
		t.Errorf("Markdown 应在写入时渲染为 HTML: %s", created.ContentHTML)
	}
	if created.ViewCount != 0 {
		t.Errorf("新建文章浏览量应为 0, 实际: %d", created.ViewCount)
	}

	// 草稿不出现在公开列表
	result, err := env.svc.ListPublished(ctx, model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("查询文章列表失败: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("草稿不应出现在已发布列表, 总数: %d", result.Total)
	}
}

func TestCreateWithUnknownRelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	missingCategory, _ := idgen.GeneratePublicID(999, idgen.EntityTypeCategory)
	_, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title:      "文章",
		Content:    "内容",
		Summary:    "摘要",
		Author:     "作者",
		CategoryID: &missingCategory,
	})
	if !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的分类应返回 ErrNotFound, 实际: %v", err)
	}

	missingTag, _ := idgen.GeneratePublicID(999, idgen.EntityTypeTag)
	_, err = env.svc.Create(ctx, &model.CreateArticleRequest{
		Title:   "文章",
		Content: "内容",
		Summary: "摘要",
		Author:  "作者",
		TagIDs:  []string{missingTag},
	})
	if !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的标签应返回 ErrNotFound, 实际: %v", err)
	}
}

func TestCreateWithRelations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.categorySvc.Create(ctx, &model.CreateCategoryRequest{Name: "技术"})
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	tagA, _ := env.tagSvc.Create(ctx, &model.CreateTagRequest{Name: "Go"})
	tagB, _ := env.tagSvc.Create(ctx, &model.CreateTagRequest{Name: "Web"})

	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title:      "带关联的文章",
		Content:    "内容",
		Summary:    "摘要",
		Author:     "作者",
		CategoryID: &cat.ID,
		TagIDs:     []string{tagA.ID, tagB.ID},
	})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	if created.Category == nil || created.Category.Name != "技术" {
		t.Errorf("分类应被主动加载: %+v", created.Category)
	}
	if len(created.Tags) != 2 {
		t.Errorf("标签应被主动加载, 实际数量: %d", len(created.Tags))
	}
}

func TestCreateWithDuplicateTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tg, err := env.tagSvc.Create(ctx, &model.CreateTagRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("创建标签失败: %v", err)
	}

	// 标签关联是集合语义，同一 ID 重复出现不应被当成未知标签拒绝
	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title:   "文章",
		Content: "内容",
		Summary: "摘要",
		Author:  "作者",
		TagIDs:  []string{tg.ID, tg.ID, tg.ID},
	})
	if err != nil {
		t.Fatalf("重复标签ID的创建不应失败: %v", err)
	}
	if len(created.Tags) != 1 || created.Tags[0].Name != "Go" {
		t.Errorf("重复的标签应去重为一个关联, 实际: %+v", created.Tags)
	}
}

func TestUpdateTagSemantics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tagA, _ := env.tagSvc.Create(ctx, &model.CreateTagRequest{Name: "A"})
	tagB, _ := env.tagSvc.Create(ctx, &model.CreateTagRequest{Name: "B"})

	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title:   "文章",
		Content: "内容",
		Summary: "摘要",
		Author:  "作者",
		TagIDs:  []string{tagA.ID},
	})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}

	// tag_ids 缺省时保持原有关联
	newTitle := "改过的标题"
	updated, err := env.svc.Update(ctx, created.ID, &model.UpdateArticleRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("更新文章失败: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].Name != "A" {
		t.Errorf("未提交 tag_ids 时应保持原关联: %+v", updated.Tags)
	}

	// 提交新列表时整体替换
	newTags := []string{tagB.ID}
	updated, err = env.svc.Update(ctx, created.ID, &model.UpdateArticleRequest{TagIDs: &newTags})
	if err != nil {
		t.Fatalf("更新文章失败: %v", err)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].Name != "B" {
		t.Errorf("提交 tag_ids 时应整体替换: %+v", updated.Tags)
	}

	// 提交空列表时清空关联
	empty := []string{}
	updated, err = env.svc.Update(ctx, created.ID, &model.UpdateArticleRequest{TagIDs: &empty})
	if err != nil {
		t.Fatalf("更新文章失败: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Errorf("提交空 tag_ids 时应清空关联: %+v", updated.Tags)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "文章", Content: "内容", Summary: "摘要", Author: "作者",
	})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}

	bad := "FLYING"
	if _, err := env.svc.Update(ctx, created.ID, &model.UpdateArticleRequest{Status: &bad}); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("非法状态应返回 ErrBadRequest, 实际: %v", err)
	}

	env.publish(t, created.ID)
	got, err := env.svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询文章失败: %v", err)
	}
	if got.Status != model.ArticleStatusPublished {
		t.Errorf("发布后状态应为 PUBLISHED, 实际: %s", got.Status)
	}
}

func TestListPublishedSortValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query model.PageQuery
	}{
		{name: "未知排序字段", query: model.PageQuery{Offset: 0, Limit: 10, SortBy: "title"}},
		{name: "未知排序方向", query: model.PageQuery{Offset: 0, Limit: 10, SortBy: "created_at", SortDir: "sideways"}},
		{name: "负偏移量", query: model.PageQuery{Offset: -1, Limit: 10}},
		{name: "零大小", query: model.PageQuery{Offset: 0, Limit: 0}},
		{name: "负页码折算", query: model.NewPageQueryFromPage(-1, 10, "", "")},
		{name: "负大小折算", query: model.NewPageQueryFromPage(1, -5, "", "")},
		{name: "页码大小同为负数折算", query: model.NewPageQueryFromPage(-1, -5, "", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.svc.ListPublished(ctx, tt.query); !errors.Is(err, constant.ErrBadRequest) {
				t.Errorf("应返回 ErrBadRequest, 实际: %v", err)
			}
		})
	}
}

func TestListByCategoryAndTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, _ := env.categorySvc.Create(ctx, &model.CreateCategoryRequest{Name: "技术"})
	tg, _ := env.tagSvc.Create(ctx, &model.CreateTagRequest{Name: "Go"})

	inCategory, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "分类内", Content: "内容", Summary: "摘要", Author: "作者", CategoryID: &cat.ID,
	})
	tagged, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "打了标签", Content: "内容", Summary: "摘要", Author: "作者", TagIDs: []string{tg.ID},
	})
	env.publish(t, inCategory.ID)
	env.publish(t, tagged.ID)

	// 草稿同样挂在分类下，但不应出现在结果里
	draft, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "草稿", Content: "内容", Summary: "摘要", Author: "作者", CategoryID: &cat.ID,
	})
	_ = draft

	byCat, err := env.svc.ListByCategory(ctx, cat.ID, model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("按分类查询失败: %v", err)
	}
	if byCat.Total != 1 {
		t.Errorf("分类下已发布文章应为 1 篇, 实际: %d", byCat.Total)
	}

	byTag, err := env.svc.ListByTag(ctx, tg.ID, model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("按标签查询失败: %v", err)
	}
	if byTag.Total != 1 {
		t.Errorf("标签下已发布文章应为 1 篇, 实际: %d", byTag.Total)
	}

	missing, _ := idgen.GeneratePublicID(999, idgen.EntityTypeCategory)
	if _, err := env.svc.ListByCategory(ctx, missing, model.PageQuery{Offset: 0, Limit: 10}); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的分类应返回 ErrNotFound, 实际: %v", err)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	match, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "Golang 并发模型", Content: "goroutine 与 channel", Summary: "摘要", Author: "作者",
	})
	other, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "前端框架对比", Content: "Vue 与 React", Summary: "摘要", Author: "作者",
	})
	env.publish(t, match.ID)
	env.publish(t, other.ID)

	result, err := env.svc.Search(ctx, "golang", model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("大小写不敏感搜索应命中 1 篇, 实际: %d", result.Total)
	}

	if _, err := env.svc.Search(ctx, "", model.PageQuery{Offset: 0, Limit: 10}); !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("空关键词应返回 ErrBadRequest, 实际: %v", err)
	}
}

func TestIncrementViewCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "文章", Content: "内容", Summary: "摘要", Author: "作者",
	})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := env.svc.IncrementViewCount(ctx, created.ID); err != nil {
			t.Fatalf("浏览量加一失败: %v", err)
		}
	}
	got, err := env.svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询文章失败: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("浏览量应为 3, 实际: %d", got.ViewCount)
	}

	missing, _ := idgen.GeneratePublicID(999, idgen.EntityTypeArticle)
	if err := env.svc.IncrementViewCount(ctx, missing); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的文章应返回 ErrNotFound, 实际: %v", err)
	}
}

func TestListPopular(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	low, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "冷门", Content: "内容", Summary: "摘要", Author: "作者",
	})
	high, _ := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "热门", Content: "内容", Summary: "摘要", Author: "作者",
	})
	env.publish(t, low.ID)
	env.publish(t, high.ID)

	for i := 0; i < 5; i++ {
		if err := env.svc.IncrementViewCount(ctx, high.ID); err != nil {
			t.Fatalf("浏览量加一失败: %v", err)
		}
	}

	popular, err := env.svc.ListPopular(ctx, 10)
	if err != nil {
		t.Fatalf("查询热门文章失败: %v", err)
	}
	if len(popular) != 2 || popular[0].Title != "热门" {
		t.Errorf("热门文章应按浏览量倒序: %+v", popular)
	}

	// 自定义条数不走缓存，直接按 limit 截断
	top1, err := env.svc.ListPopular(ctx, 1)
	if err != nil {
		t.Fatalf("查询热门文章失败: %v", err)
	}
	if len(top1) != 1 || top1[0].Title != "热门" {
		t.Errorf("limit=1 应只返回浏览量最高的一篇: %+v", top1)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, &model.CreateArticleRequest{
		Title: "待删除", Content: "内容", Summary: "摘要", Author: "作者",
	})
	if err != nil {
		t.Fatalf("创建文章失败: %v", err)
	}
	if err := env.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("删除文章失败: %v", err)
	}
	if _, err := env.svc.Get(ctx, created.ID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("删除后的查询应返回 ErrNotFound, 实际: %v", err)
	}
	if err := env.svc.Delete(ctx, created.ID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("重复删除应返回 ErrNotFound, 实际: %v", err)
	}
}
