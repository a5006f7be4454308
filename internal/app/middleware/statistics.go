package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/service/statistics"
	"github.com/xyhcode/blog-api/pkg/util"
)

// 访客身份 Cookie 的名称与有效期
const (
	visitorCookieName   = "blog_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

// StatisticsMiddleware 访问统计中间件，给每个访客分配匿名
// UUID Cookie，并在请求完成后异步写入访问日志。
type StatisticsMiddleware struct {
	statSvc statistics.Service
}

func NewStatisticsMiddleware(statSvc statistics.Service) *StatisticsMiddleware {
	return &StatisticsMiddleware{statSvc: statSvc}
}

// StatisticsHandler 统计中间件处理函数
func (m *StatisticsMiddleware) StatisticsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只统计公开读路径的 GET 请求
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		visitorID, err := c.Cookie(visitorCookieName)
		if err != nil || visitorID == "" {
			visitorID = uuid.NewString()
			c.SetCookie(visitorCookieName, visitorID, visitorCookieMaxAge, "/", "", false, true)
		}

		req := &model.VisitorLogRequest{
			VisitorID: visitorID,
			IPAddress: util.GetRealClientIP(c),
			UserAgent: c.Request.UserAgent(),
			Referer:   c.GetHeader("Referer"),
			URLPath:   c.Request.URL.Path,
		}

		c.Next()

		// 请求已经响应，日志写入不阻塞也不影响结果
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.statSvc.RecordVisit(ctx, req); err != nil {
				log.Printf("[statistics] 记录访问日志失败: %v", err)
			}
		}()
	}
}
