package article

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/handler"
	"github.com/xyhcode/blog-api/pkg/response"
	article_service "github.com/xyhcode/blog-api/pkg/service/article"
)

// Handler 封装了所有与文章相关的 HTTP 处理器。
type Handler struct {
	svc article_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc article_service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create
// @Summary      创建新文章
// @Description  创建一篇文章，初始状态为草稿
// @Tags         文章
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        article body model.CreateArticleRequest true "创建文章的请求体"
// @Success      201 {object} response.Response{data=model.ArticleResponse} "创建成功"
// @Failure      400 {object} response.Response "请求参数错误"
// @Failure      404 {object} response.Response "引用的分类或标签不存在"
// @Router       /articles [post]
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	article, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, article, "创建成功")
}

// Get
// @Summary      获取文章详情
// @Tags         文章
// @Produce      json
// @Param        id path string true "文章ID"
// @Success      200 {object} response.Response{data=model.ArticleResponse} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /articles/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	article, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article, "获取成功")
}

// Update
// @Summary      更新文章
// @Description  部分更新文章字段，缺省字段保持原值；发布文章也通过此接口完成
// @Tags         文章
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "文章ID"
// @Param        article body model.UpdateArticleRequest true "更新文章的请求体"
// @Success      200 {object} response.Response{data=model.ArticleResponse} "更新成功"
// @Router       /articles/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	article, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article, "更新成功")
}

// Delete
// @Summary      删除文章
// @Tags         文章
// @Security     BearerAuth
// @Param        id path string true "文章ID"
// @Success      200 {object} response.Response "删除成功"
// @Router       /articles/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}

// List
// @Summary      获取已发布文章列表
// @Tags         文章
// @Produce      json
// @Param        page query int false "页码，默认1"
// @Param        size query int false "每页大小，默认10"
// @Param        sortBy query string false "排序字段: created_at | updated_at | view_count"
// @Param        sortDir query string false "排序方向: asc | desc"
// @Success      200 {object} response.Response{data=model.PageResult} "成功响应"
// @Router       /articles [get]
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.ListPublished(c.Request.Context(), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// ListByCategory 按分类列出已发布文章
func (h *Handler) ListByCategory(c *gin.Context) {
	result, err := h.svc.ListByCategory(c.Request.Context(), c.Param("categoryID"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// ListByTag 按标签列出已发布文章
func (h *Handler) ListByTag(c *gin.Context) {
	result, err := h.svc.ListByTag(c.Request.Context(), c.Param("tagID"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "获取列表成功")
}

// Search
// @Summary      搜索已发布文章
// @Tags         文章
// @Produce      json
// @Param        keyword query string true "搜索关键词"
// @Success      200 {object} response.Response{data=model.PageResult} "成功响应"
// @Router       /articles/search [get]
func (h *Handler) Search(c *gin.Context) {
	result, err := h.svc.Search(c.Request.Context(), c.Query("keyword"), handler.ParsePageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "搜索成功")
}

// ListPopular 获取热门文章，limit 参数不合法时取默认条数
func (h *Handler) ListPopular(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 0
	}
	articles, err := h.svc.ListPopular(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, articles, "获取成功")
}

// IncrementView
// @Summary      文章浏览量加一
// @Tags         文章
// @Param        id path string true "文章ID"
// @Success      200 {object} response.Response "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /articles/{id}/view [put]
func (h *Handler) IncrementView(c *gin.Context) {
	if err := h.svc.IncrementViewCount(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "浏览量已更新")
}
