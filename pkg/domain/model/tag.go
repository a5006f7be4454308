package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// Tag 是文章标签的核心领域模型。
type Tag struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Color     string
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreateTagRequest 定义了创建文章标签的请求体
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// UpdateTagRequest 定义了更新文章标签的请求体
type UpdateTagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// TagResponse 定义了文章标签的标准 API 响应结构
type TagResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
}
