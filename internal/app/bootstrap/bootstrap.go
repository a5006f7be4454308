package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/xyhcode/blog-api/internal/infra/persistence/gormrepo"
	"github.com/xyhcode/blog-api/internal/pkg/utils"
	"github.com/xyhcode/blog-api/pkg/config"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/domain/repository"
)

type Bootstrapper struct {
	db       *gorm.DB
	cfg      *config.Config
	userRepo repository.UserRepository
}

func NewBootstrapper(db *gorm.DB, cfg *config.Config, userRepo repository.UserRepository) *Bootstrapper {
	return &Bootstrapper{
		db:       db,
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// InitializeDatabase 同步数据库 Schema 并完成启动期的引导检查。
func (b *Bootstrapper) InitializeDatabase() error {
	log.Println("--- 开始执行数据库初始化引导程序 ---")

	if err := gormrepo.AutoMigrate(b.db); err != nil {
		return fmt.Errorf("数据库 schema 创建/更新失败: %w", err)
	}
	log.Println("--- 数据库 Schema 同步成功 ---")

	if err := b.ensureJWTSecret(); err != nil {
		return err
	}
	b.promoteConfiguredAdmin()

	log.Println("--- 数据库初始化引导程序执行完成 ---")
	return nil
}

// ensureJWTSecret 在未配置 JWT 密钥时自动生成一个。
// 自动生成的密钥只在本次进程内有效，重启后已签发的令牌会全部失效。
func (b *Bootstrapper) ensureJWTSecret() error {
	if b.cfg.GetString(config.KeyJWTSecret) != "" {
		return nil
	}

	secret, err := utils.GenerateRandomString(32)
	if err != nil {
		return fmt.Errorf("自动生成 JWT 密钥失败: %w", err)
	}
	b.cfg.Set(config.KeyJWTSecret, secret)
	log.Println("警告: 未配置 JWT.Secret，已自动生成临时密钥。生产环境请通过配置文件或 BLOG_JWT_SECRET 固定密钥。")
	return nil
}

// promoteConfiguredAdmin 把 BLOG_ADMIN_EMAIL 指定的用户提升为管理员。
// 该用户尚未注册时跳过，等其首次登录后下次启动再提升。
func (b *Bootstrapper) promoteConfiguredAdmin() {
	email, ok := os.LookupEnv("BLOG_ADMIN_EMAIL")
	if !ok || email == "" {
		return
	}

	ctx := context.Background()
	user, err := b.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Printf("警告: 查询管理员用户 '%s' 失败: %v", email, err)
		return
	}
	if user == nil {
		log.Printf("提示: 管理员邮箱 '%s' 尚未注册，跳过提升。", email)
		return
	}
	if user.Role == model.UserRoleAdmin {
		return
	}

	user.Role = model.UserRoleAdmin
	if err := b.userRepo.Update(ctx, user); err != nil {
		log.Printf("警告: 提升管理员 '%s' 失败: %v", email, err)
		return
	}
	log.Printf("--- 用户 '%s' 已提升为管理员 ---", email)
}
