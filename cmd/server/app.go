package server

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/internal/app/bootstrap"
	"github.com/xyhcode/blog-api/internal/app/middleware"
	"github.com/xyhcode/blog-api/internal/app/task"
	"github.com/xyhcode/blog-api/internal/infra/persistence/database"
	"github.com/xyhcode/blog-api/internal/infra/persistence/gormrepo"
	"github.com/xyhcode/blog-api/internal/infra/router"
	"github.com/xyhcode/blog-api/pkg/config"
	article_handler "github.com/xyhcode/blog-api/pkg/handler/article"
	auth_handler "github.com/xyhcode/blog-api/pkg/handler/auth"
	category_handler "github.com/xyhcode/blog-api/pkg/handler/category"
	comment_handler "github.com/xyhcode/blog-api/pkg/handler/comment"
	statistics_handler "github.com/xyhcode/blog-api/pkg/handler/statistics"
	tag_handler "github.com/xyhcode/blog-api/pkg/handler/tag"
	user_handler "github.com/xyhcode/blog-api/pkg/handler/user"
	"github.com/xyhcode/blog-api/pkg/idgen"
	article_service "github.com/xyhcode/blog-api/pkg/service/article"
	auth_service "github.com/xyhcode/blog-api/pkg/service/auth"
	category_service "github.com/xyhcode/blog-api/pkg/service/category"
	comment_service "github.com/xyhcode/blog-api/pkg/service/comment"
	statistics_service "github.com/xyhcode/blog-api/pkg/service/statistics"
	tag_service "github.com/xyhcode/blog-api/pkg/service/tag"
	user_service "github.com/xyhcode/blog-api/pkg/service/user"
	"github.com/xyhcode/blog-api/pkg/service/utility"
)

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg       *config.Config
	engine    *gin.Engine
	scheduler *task.Scheduler
}

// NewApp 组装整个应用：配置、基础设施、仓库、服务、处理器和路由。
// 返回的 cleanup 函数负责释放数据库和 Redis 连接。
func NewApp() (*App, func(), error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化基础设施 ---
	db, err := database.NewGormDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("创建数据库连接失败: %w", err)
	}

	// Redis 连接失败时返回 nil，缓存自动降级为内存实现
	redisClient, err := database.NewRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("redis 初始化失败: %w", err)
	}

	cleanup := func() {
		log.Println("执行清理操作：关闭数据库连接...")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
	}

	// --- Phase 3: 初始化数据仓库层 ---
	articleRepo := gormrepo.NewArticleRepository(db)
	categoryRepo := gormrepo.NewCategoryRepository(db)
	tagRepo := gormrepo.NewTagRepository(db)
	commentRepo := gormrepo.NewCommentRepository(db)
	userRepo := gormrepo.NewUserRepository(db)
	visitorLogRepo := gormrepo.NewVisitorLogRepository(db)
	visitorStatRepo := gormrepo.NewVisitorStatRepository(db)

	// --- Phase 4: 初始化应用引导程序 ---
	bootstrapper := bootstrap.NewBootstrapper(db, cfg, userRepo)
	if err := bootstrapper.InitializeDatabase(); err != nil {
		return nil, cleanup, fmt.Errorf("数据库初始化失败: %w", err)
	}

	// --- Phase 5: 初始化 ID 编码器 ---
	if err := idgen.InitSqidsEncoder(); err != nil {
		return nil, cleanup, fmt.Errorf("初始化 ID 编码器失败: %w", err)
	}

	// --- Phase 6: 初始化业务逻辑层 ---
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)
	articleSvc := article_service.NewService(articleRepo, categoryRepo, tagRepo, cacheSvc)
	categorySvc := category_service.NewService(categoryRepo, articleRepo, cacheSvc)
	tagSvc := tag_service.NewService(tagRepo, cacheSvc)
	commentSvc := comment_service.NewService(commentRepo)
	userSvc := user_service.NewService(userRepo)
	authSvc := auth_service.NewService(userSvc, cfg)
	statisticsSvc := statistics_service.NewService(visitorLogRepo, visitorStatRepo)

	// --- Phase 7: 初始化处理器与中间件 ---
	mw := middleware.NewMiddleware(cfg)
	statsMw := middleware.NewStatisticsMiddleware(statisticsSvc)

	appRouter := router.NewRouter(
		article_handler.NewHandler(articleSvc),
		category_handler.NewHandler(categorySvc),
		tag_handler.NewHandler(tagSvc),
		comment_handler.NewHandler(commentSvc),
		user_handler.NewHandler(userSvc),
		auth_handler.NewHandler(authSvc),
		statistics_handler.NewHandler(statisticsSvc),
		mw,
		statsMw,
	)

	// --- Phase 8: 组装 HTTP 引擎与定时任务 ---
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	appRouter.Setup(engine)

	scheduler := task.NewScheduler(statisticsSvc, commentRepo)

	return &App{
		cfg:       cfg,
		engine:    engine,
		scheduler: scheduler,
	}, cleanup, nil
}

// Run 注册并启动定时任务，然后启动 HTTP 服务。
func (a *App) Run() error {
	a.scheduler.RegisterJobs()
	a.scheduler.Start()

	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8080"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

// Stop 优雅地停止后台任务。
func (a *App) Stop() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		log.Println("任务调度器已停止。")
	}
}

// Engine 暴露 gin 引擎，主要供测试使用。
func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Config 暴露应用配置。
func (a *App) Config() *config.Config {
	return a.cfg
}
