package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/handler"
	"github.com/xyhcode/blog-api/pkg/response"
	user_service "github.com/xyhcode/blog-api/pkg/service/user"
)

// Handler 封装了所有与用户相关的 HTTP 处理器。
type Handler struct {
	svc user_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc user_service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create 创建用户，用户名或邮箱被占用时返回 409
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, user, "创建成功")
}

// Update 更新用户
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user, "更新成功")
}

// Delete 删除用户
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}

// Get 获取用户详情
func (h *Handler) Get(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user, "获取成功")
}

// List 分页获取用户
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// CheckUsername 探测用户名是否已被占用
func (h *Handler) CheckUsername(c *gin.Context) {
	exists, err := h.svc.CheckUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"exists": exists}, "检查完成")
}

// CheckEmail 探测邮箱是否已被占用
func (h *Handler) CheckEmail(c *gin.Context) {
	exists, err := h.svc.CheckEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"exists": exists}, "检查完成")
}
