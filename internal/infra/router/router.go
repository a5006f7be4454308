package router

import (
	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/internal/app/middleware"
	article_handler "github.com/xyhcode/blog-api/pkg/handler/article"
	auth_handler "github.com/xyhcode/blog-api/pkg/handler/auth"
	category_handler "github.com/xyhcode/blog-api/pkg/handler/category"
	comment_handler "github.com/xyhcode/blog-api/pkg/handler/comment"
	statistics_handler "github.com/xyhcode/blog-api/pkg/handler/statistics"
	tag_handler "github.com/xyhcode/blog-api/pkg/handler/tag"
	user_handler "github.com/xyhcode/blog-api/pkg/handler/user"
)

// NoCacheMiddleware 全局反缓存中间件，确保所有API响应都不会被CDN缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")

		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	articleHandler    *article_handler.Handler
	categoryHandler   *category_handler.Handler
	tagHandler        *tag_handler.Handler
	commentHandler    *comment_handler.Handler
	userHandler       *user_handler.Handler
	authHandler       *auth_handler.Handler
	statisticsHandler *statistics_handler.Handler
	mw                *middleware.Middleware
	statsMw           *middleware.StatisticsMiddleware
}

// NewRouter 是 Router 的构造函数。
func NewRouter(
	articleHandler *article_handler.Handler,
	categoryHandler *category_handler.Handler,
	tagHandler *tag_handler.Handler,
	commentHandler *comment_handler.Handler,
	userHandler *user_handler.Handler,
	authHandler *auth_handler.Handler,
	statisticsHandler *statistics_handler.Handler,
	mw *middleware.Middleware,
	statsMw *middleware.StatisticsMiddleware,
) *Router {
	return &Router{
		articleHandler:    articleHandler,
		categoryHandler:   categoryHandler,
		tagHandler:        tagHandler,
		commentHandler:    commentHandler,
		userHandler:       userHandler,
		authHandler:       authHandler,
		statisticsHandler: statisticsHandler,
		mw:                mw,
		statsMw:           statsMw,
	}
}

// Setup 注册应用的全部路由。
// 公开接口无需认证；写操作和管理接口挂在 JWT + 管理员中间件之后。
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors())

	api := engine.Group("/api")
	api.Use(NoCacheMiddleware())
	api.Use(r.statsMw.StatisticsHandler())

	// --- 公开接口 ---
	{
		articles := api.Group("/articles")
		articles.GET("", r.articleHandler.List)
		articles.GET("/search", r.articleHandler.Search)
		articles.GET("/popular", r.articleHandler.ListPopular)
		articles.GET("/category/:categoryID", r.articleHandler.ListByCategory)
		articles.GET("/tag/:tagID", r.articleHandler.ListByTag)
		articles.GET("/:id", r.articleHandler.Get)
		articles.PUT("/:id/view", r.articleHandler.IncrementView)

		categories := api.Group("/categories")
		categories.GET("", r.categoryHandler.List)
		categories.GET("/page", r.categoryHandler.ListPaged)
		categories.GET("/name/:name", r.categoryHandler.GetByName)
		categories.GET("/check/:name", r.categoryHandler.CheckName)
		categories.GET("/:id", r.categoryHandler.Get)

		tags := api.Group("/tags")
		tags.GET("", r.tagHandler.List)
		tags.GET("/page", r.tagHandler.ListPaged)
		tags.GET("/name/:name", r.tagHandler.GetByName)
		tags.GET("/check/:name", r.tagHandler.CheckName)
		tags.GET("/:id", r.tagHandler.Get)

		comments := api.Group("/comments")
		comments.GET("/article/:articleID", r.commentHandler.ListApprovedByArticle)
		comments.GET("/article/:articleID/count", r.commentHandler.CountApprovedByArticle)
		comments.GET("/user/:userID", r.commentHandler.ListByUser)
		// 发表评论需要登录，并做来源IP限流
		comments.POST("", middleware.RateLimit(10, 3), r.mw.JWTAuth(), r.commentHandler.Create)

		api.POST("/auth/github", middleware.RateLimit(20, 5), r.authHandler.GithubLogin)

		api.GET("/users/check/username/:username", r.userHandler.CheckUsername)
		api.GET("/users/check/email/:email", r.userHandler.CheckEmail)
	}

	// --- 管理接口 ---
	admin := api.Group("")
	admin.Use(r.mw.JWTAuth(), r.mw.AdminAuth())
	{
		admin.POST("/articles", r.articleHandler.Create)
		admin.PUT("/articles/:id", r.articleHandler.Update)
		admin.DELETE("/articles/:id", r.articleHandler.Delete)

		admin.POST("/categories", r.categoryHandler.Create)
		admin.PUT("/categories/:id", r.categoryHandler.Update)
		admin.DELETE("/categories/:id", r.categoryHandler.Delete)

		admin.POST("/tags", r.tagHandler.Create)
		admin.PUT("/tags/:id", r.tagHandler.Update)
		admin.DELETE("/tags/:id", r.tagHandler.Delete)

		admin.GET("/comments/article/:articleID/all", r.commentHandler.ListAllByArticle)
		admin.GET("/comments/status/:status", r.commentHandler.ListByStatus)
		admin.GET("/comments/count/pending", r.commentHandler.CountPending)
		admin.GET("/comments/:id", r.commentHandler.Get)
		admin.PUT("/comments/:id/status", r.commentHandler.UpdateStatus)
		admin.DELETE("/comments/:id", r.commentHandler.Delete)

		admin.GET("/users", r.userHandler.List)
		admin.POST("/users", r.userHandler.Create)
		admin.GET("/users/:id", r.userHandler.Get)
		admin.PUT("/users/:id", r.userHandler.Update)
		admin.DELETE("/users/:id", r.userHandler.Delete)

		admin.GET("/statistics/basic", r.statisticsHandler.GetBasicStatistics)
	}
}
