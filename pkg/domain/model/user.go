package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// UserRole 用户角色
type UserRole string

const (
	UserRoleUser  UserRole = "USER"  // 普通用户
	UserRoleAdmin UserRole = "ADMIN" // 管理员
)

// IsValid 校验用户角色是否为已知枚举值
func (r UserRole) IsValid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User 是用户的核心领域模型。
// GithubID 是第三方身份的关联键，存在时全局唯一；
// 本系统不保存任何登录凭据，身份校验由外部 OAuth 流程完成。
type User struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Email     string
	Avatar    string
	GithubID  *string
	Role      UserRole
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreateUserRequest 定义了创建用户的请求体
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Avatar   string `json:"avatar"`
	GithubID string `json:"github_id"`
	Role     string `json:"role"`
}

// UpdateUserRequest 定义了更新用户的请求体
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Avatar   *string `json:"avatar"`
	Role     *string `json:"role"`
}

// GithubLoginRequest 定义了 GitHub 登录回调后的建档请求体。
// OAuth 握手与资料拉取在外部完成，这里收到的是已验证的档案。
type GithubLoginRequest struct {
	GithubID string `json:"github_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Avatar   string `json:"avatar"`
}

// UserResponse 定义了用户的标准 API 响应结构
type UserResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	GithubID  string    `json:"github_id"`
	Role      UserRole  `json:"role"`
}

// LoginResponse 定义了登录成功后的响应结构
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}
