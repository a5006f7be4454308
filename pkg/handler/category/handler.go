package category

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/handler"
	"github.com/xyhcode/blog-api/pkg/response"
	category_service "github.com/xyhcode/blog-api/pkg/service/category"
)

// Handler 封装了所有与文章分类相关的 HTTP 处理器。
type Handler struct {
	svc category_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc category_service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create 创建分类，名称重复时返回 409
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	category, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, category, "创建成功")
}

// Update 更新分类
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	category, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category, "更新成功")
}

// Delete 删除分类，仍被文章引用时返回 409
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}

// Get 获取分类详情
func (h *Handler) Get(c *gin.Context) {
	category, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category, "获取成功")
}

// GetByName 按名称获取分类
func (h *Handler) GetByName(c *gin.Context) {
	category, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category, "获取成功")
}

// CheckName 探测分类名称是否已被占用
func (h *Handler) CheckName(c *gin.Context) {
	exists, err := h.svc.CheckName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"exists": exists}, "检查完成")
}

// List 获取全部分类
func (h *Handler) List(c *gin.Context) {
	categories, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories, "获取列表成功")
}

// ListPaged 分页获取分类
func (h *Handler) ListPaged(c *gin.Context) {
	result, err := h.svc.ListPaged(c.Request.Context(), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}
