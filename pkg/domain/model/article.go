package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// ArticleStatus 文章状态
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"     // 草稿
	ArticleStatusPublished ArticleStatus = "PUBLISHED" // 已发布
	ArticleStatusArchived  ArticleStatus = "ARCHIVED"  // 已归档
)

// IsValid 校验文章状态是否为已知枚举值
func (s ArticleStatus) IsValid() bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPublished, ArticleStatusArchived:
		return true
	}
	return false
}

// Article 是文章的核心领域模型。
// Content 保存 Markdown 原文，ContentHTML 保存渲染并清理后的 HTML，
// 两者在写入时同步生成，读取路径不做任何惰性解析。
type Article struct {
	ID          uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string
	Content     string
	ContentHTML string
	Summary     string
	Author      string
	Status      ArticleStatus
	CategoryID  *uint
	Category    *Category
	Tags        []*Tag
	CoverImage  string
	ViewCount   uint
}

// 文章列表允许的排序字段
const (
	ArticleSortByCreatedAt = "created_at"
	ArticleSortByUpdatedAt = "updated_at"
	ArticleSortByViewCount = "view_count"
)

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreateArticleRequest 定义了创建文章的请求体
type CreateArticleRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Summary    string   `json:"summary" binding:"required"`
	Author     string   `json:"author" binding:"required"`
	CategoryID *string  `json:"category_id"`
	TagIDs     []string `json:"tag_ids"`
	CoverImage string   `json:"cover_image"`
}

// UpdateArticleRequest 定义了更新文章的请求体，nil 字段保持原值
type UpdateArticleRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Summary    *string   `json:"summary"`
	Author     *string   `json:"author"`
	Status     *string   `json:"status"`
	CategoryID *string   `json:"category_id"`
	TagIDs     *[]string `json:"tag_ids"`
	CoverImage *string   `json:"cover_image"`
}

// ArticleResponse 定义了文章的标准 API 响应结构。
// 分类和标签在 service 层被主动解析为嵌套对象后返回。
type ArticleResponse struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	ContentHTML string            `json:"content_html"`
	Summary     string            `json:"summary"`
	Author      string            `json:"author"`
	Status      ArticleStatus     `json:"status"`
	Category    *CategoryResponse `json:"category"`
	Tags        []*TagResponse    `json:"tags"`
	CoverImage  string            `json:"cover_image"`
	ViewCount   uint              `json:"view_count"`
}
