package tag

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/handler"
	"github.com/xyhcode/blog-api/pkg/response"
	tag_service "github.com/xyhcode/blog-api/pkg/service/tag"
)

// Handler 封装了所有与文章标签相关的 HTTP 处理器。
type Handler struct {
	svc tag_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc tag_service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create 创建标签，名称重复时返回 409
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	tag, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, tag, "创建成功")
}

// Update 更新标签
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	tag, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag, "更新成功")
}

// Delete 删除标签并解除与文章的关联
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}

// Get 获取标签详情
func (h *Handler) Get(c *gin.Context) {
	tag, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag, "获取成功")
}

// GetByName 按名称获取标签
func (h *Handler) GetByName(c *gin.Context) {
	tag, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag, "获取成功")
}

// CheckName 探测标签名称是否已被占用
func (h *Handler) CheckName(c *gin.Context) {
	exists, err := h.svc.CheckName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"exists": exists}, "检查完成")
}

// List 获取全部标签
func (h *Handler) List(c *gin.Context) {
	tags, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags, "获取列表成功")
}

// ListPaged 分页获取标签
func (h *Handler) ListPaged(c *gin.Context) {
	result, err := h.svc.ListPaged(c.Request.Context(), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}
