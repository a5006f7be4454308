package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// Category 是文章分类的核心领域模型。
type Category struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	Icon        string
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreateCategoryRequest 定义了创建文章分类的请求体
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// UpdateCategoryRequest 定义了更新文章分类的请求体
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// CategoryResponse 定义了文章分类的标准 API 响应结构
type CategoryResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}
