package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// CommentStatus 评论状态
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "PENDING"  // 待审核
	CommentStatusApproved CommentStatus = "APPROVED" // 已通过
	CommentStatusRejected CommentStatus = "REJECTED" // 已拒绝
)

// IsValid 校验评论状态是否为已知枚举值
func (s CommentStatus) IsValid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

// Comment 是评论的核心领域模型。
// 评论必须挂在一篇已存在的文章和一个已存在的用户上，
// 审核状态之间没有受限的状态机，任意状态可以被管理操作直接覆盖。
type Comment struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
	Content   string
	Status    CommentStatus
	ArticleID uint
	UserID    uint
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreateCommentRequest 定义了创建评论的请求体，评论人取自登录态
type CreateCommentRequest struct {
	ArticleID string `json:"article_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// UpdateCommentStatusRequest 定义了评论审核的请求体
type UpdateCommentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CommentResponse 定义了评论的标准 API 响应结构
type CommentResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Content   string        `json:"content"`
	Status    CommentStatus `json:"status"`
	ArticleID string        `json:"article_id"`
	UserID    string        `json:"user_id"`
}
