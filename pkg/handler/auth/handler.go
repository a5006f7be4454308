package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/blog-api/pkg/domain/model"
	"github.com/xyhcode/blog-api/pkg/response"
	auth_service "github.com/xyhcode/blog-api/pkg/service/auth"
)

// Handler 封装了所有与认证相关的 HTTP 处理器。
type Handler struct {
	svc auth_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc auth_service.Service) *Handler {
	return &Handler{svc: svc}
}

// GithubLogin
// @Summary      GitHub 登录
// @Description  接收外部 OAuth 验证后的 GitHub 档案，建档或同步用户并签发访问令牌
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        profile body model.GithubLoginRequest true "已验证的 GitHub 档案"
// @Success      200 {object} response.Response{data=model.LoginResponse} "登录成功"
// @Failure      409 {object} response.Response "用户名或邮箱已被占用"
// @Router       /auth/github [post]
func (h *Handler) GithubLogin(c *gin.Context) {
	var req model.GithubLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	result, err := h.svc.LoginWithGithub(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "登录成功")
}
