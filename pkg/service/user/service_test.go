package user

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
	"github.com/xyhcode/blog-api/pkg/idgen"
)

func TestMain(m *testing.M) {
	if err := idgen.InitSqidsEncoder(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestService(t *testing.T) Service {
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
	return NewService(gormrepo.NewUserRepository(db))
}

func TestCreateUniqueness(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateUserRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
	})
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	if created.Role != model.UserRoleUser {
		t.Errorf("默认角色应为普通用户, 实际: %s", created.Role)
	}

	tests := []struct {
		name string
		req  *model.CreateUserRequest
	}{
		{
			name: "用户名重复",
			req:  &model.CreateUserRequest{Username: "zhangsan", Email: "other@example.com"},
		},
		{
			name: "邮箱重复",
			req:  &model.CreateUserRequest{Username: "lisi", Email: "zhangsan@example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.req); !errors.Is(err, constant.ErrConflict) {
				t.Errorf("应返回 ErrConflict, 实际: %v", err)
			}
		})
	}
}

func TestCreateWithInvalidRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateUserRequest{
		Username: "wangwu",
		Email:    "wangwu@example.com",
		Role:     "SUPERMAN",
	})
	if !errors.Is(err, constant.ErrBadRequest) {
		t.Errorf("非法角色应返回 ErrBadRequest, 实际: %v", err)
	}
}

func TestUpdateExcludesSelf(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, _ := svc.Create(ctx, &model.CreateUserRequest{Username: "userA", Email: "a@example.com"})
	second, _ := svc.Create(ctx, &model.CreateUserRequest{Username: "userB", Email: "b@example.com"})

	// 改成别人的用户名应冲突
	taken := "userA"
	if _, err := svc.Update(ctx, second.ID, &model.UpdateUserRequest{Username: &taken}); !errors.Is(err, constant.ErrConflict) {
		t.Errorf("占用用户名应返回 ErrConflict, 实际: %v", err)
	}

	// 提交与自身相同的用户名不应冲突
	same := "userA"
	role := string(model.UserRoleAdmin)
	updated, err := svc.Update(ctx, first.ID, &model.UpdateUserRequest{Username: &same, Role: &role})
	if err != nil {
		t.Fatalf("提交自身用户名的更新不应失败: %v", err)
	}
	if updated.Role != model.UserRoleAdmin {
		t.Errorf("角色未更新: %+v", updated)
	}
}

func TestUpsertByGithub(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 首次登录建档
	first, err := svc.UpsertByGithub(ctx, &model.GithubLoginRequest{
		GithubID: "10001",
		Username: "octocat",
		Email:    "octocat@example.com",
		Avatar:   "https://example.com/a.png",
	})
	if err != nil {
		t.Fatalf("首次登录建档失败: %v", err)
	}
	if first.Role != model.UserRoleUser {
		t.Errorf("新建用户的角色应为普通用户, 实际: %s", first.Role)
	}

	// 再次登录同步头像，不新建用户
	second, err := svc.UpsertByGithub(ctx, &model.GithubLoginRequest{
		GithubID: "10001",
		Username: "octocat",
		Email:    "octocat@example.com",
		Avatar:   "https://example.com/b.png",
	})
	if err != nil {
		t.Fatalf("再次登录失败: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("同一 GithubID 应复用用户, 首次 %d 再次 %d", first.ID, second.ID)
	}
	if second.Avatar != "https://example.com/b.png" {
		t.Errorf("头像未同步: %s", second.Avatar)
	}

	result, err := svc.List(ctx, model.PageQuery{Offset: 0, Limit: 10})
	if err != nil {
		t.Fatalf("查询用户列表失败: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("用户总数应为 1, 实际: %d", result.Total)
	}

	// 未绑定的用户名被占用时建档应失败
	_, err = svc.UpsertByGithub(ctx, &model.GithubLoginRequest{
		GithubID: "10002",
		Username: "octocat",
		Email:    "other@example.com",
	})
	if !errors.Is(err, constant.ErrConflict) {
		t.Errorf("占用用户名的建档应返回 ErrConflict, 实际: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	publicID, err := idgen.GeneratePublicID(9999, idgen.EntityTypeUser)
	if err != nil {
		t.Fatalf("生成公共ID失败: %v", err)
	}
	if _, err := svc.Get(ctx, publicID); !errors.Is(err, constant.ErrNotFound) {
		t.Errorf("不存在的用户应返回 ErrNotFound, 实际: %v", err)
	}
}

func TestGetByNaturalKeys(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateUserRequest{
		Username: "lisi",
		Email:    "lisi@example.com",
		GithubID: "gh-lisi",
	})
	if err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	tests := []struct {
		name   string
		lookup func() (*model.UserResponse, error)
		found  bool
	}{
		{"按用户名命中", func() (*model.UserResponse, error) { return svc.GetByUsername(ctx, "lisi") }, true},
		{"按邮箱命中", func() (*model.UserResponse, error) { return svc.GetByEmail(ctx, "lisi@example.com") }, true},
		{"按GithubID命中", func() (*model.UserResponse, error) { return svc.GetByGithubID(ctx, "gh-lisi") }, true},
		{"用户名不存在", func() (*model.UserResponse, error) { return svc.GetByUsername(ctx, "wangwu") }, false},
		{"邮箱不存在", func() (*model.UserResponse, error) { return svc.GetByEmail(ctx, "none@example.com") }, false},
		{"GithubID不存在", func() (*model.UserResponse, error) { return svc.GetByGithubID(ctx, "gh-none") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if err != nil {
				t.Fatalf("查找不应报错: %v", err)
			}
			if tt.found {
				if got == nil || got.ID != created.ID {
					t.Errorf("应命中已建档的用户, 实际: %+v", got)
				}
			} else if got != nil {
				t.Errorf("不存在时应返回 nil, 实际: %+v", got)
			}
		})
	}
}
