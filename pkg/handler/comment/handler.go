package comment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/internal/pkg/auth"
	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/handler"
	"github.com/xyhcode/blog-api/pkg/response"
	comment_service "github.com/xyhcode/blog-api/pkg/service/comment"
)

// Handler 封装了所有与评论相关的 HTTP 处理器。
type Handler struct {
	svc comment_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc comment_service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create
// @Summary      发表评论
// @Description  以登录用户身份在文章下发表评论，新评论进入待审核状态
// @Tags         评论
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        comment body model.CreateCommentRequest true "发表评论的请求体"
// @Success      201 {object} response.Response{data=model.CommentResponse} "发表成功"
// @Failure      404 {object} response.Response "文章或用户不存在"
// @Router       /comments [post]
func (h *Handler) Create(c *gin.Context) {
	claimsVal, exists := c.Get(auth.ClaimsKey)
	claims, ok := claimsVal.(*auth.CustomClaims)
	if !exists || !ok {
		response.Fail(c, http.StatusUnauthorized, "无法获取登录信息")
		return
	}

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, comment, "评论已提交，等待审核")
}

// Get 获取评论详情
func (h *Handler) Get(c *gin.Context) {
	comment, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment, "获取成功")
}

// ListApprovedByArticle 公开接口，只返回已通过审核的评论
func (h *Handler) ListApprovedByArticle(c *gin.Context) {
	result, err := h.svc.ListApprovedByArticle(c.Request.Context(), c.Param("articleID"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// ListAllByArticle 管理接口，可选 status 查询参数过滤
func (h *Handler) ListAllByArticle(c *gin.Context) {
	result, err := h.svc.ListByArticle(c.Request.Context(), c.Param("articleID"), c.Query("status"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// ListByStatus 按审核状态列出评论
func (h *Handler) ListByStatus(c *gin.Context) {
	result, err := h.svc.ListByStatus(c.Request.Context(), c.Param("status"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// ListByUser 列出某用户发表的评论
func (h *Handler) ListByUser(c *gin.Context) {
	result, err := h.svc.ListByUser(c.Request.Context(), c.Param("userID"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// UpdateStatus
// @Summary      审核评论
// @Description  直接覆盖评论状态，任意状态间可自由切换
// @Tags         评论
// @Security     BearerAuth
// @Param        id path string true "评论ID"
// @Param        status body model.UpdateCommentStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=model.CommentResponse} "审核成功"
// @Router       /comments/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateCommentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	comment, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment, "审核完成")
}

// Delete 删除评论
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}

// CountApprovedByArticle 统计某文章下已通过审核的评论数
func (h *Handler) CountApprovedByArticle(c *gin.Context) {
	count, err := h.svc.CountApprovedByArticle(c.Request.Context(), c.Param("articleID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": count}, "统计完成")
}

// CountPending 统计全站待审核评论数
func (h *Handler) CountPending(c *gin.Context) {
	count, err := h.svc.CountPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": count}, "统计完成")
}
