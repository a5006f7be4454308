package statistics

import (
	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/response"
	statistics_service "github.com/xyhcode/blog-api/pkg/service/statistics"
)

// Handler 封装了访问统计相关的 HTTP 处理器。
type Handler struct {
	svc statistics_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc statistics_service.Service) *Handler {
	return &Handler{svc: svc}
}

// GetBasicStatistics 获取今日与累计的 PV/UV 概览
func (h *Handler) GetBasicStatistics(c *gin.Context) {
	stats, err := h.svc.GetBasicStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats, "获取成功")
}
