package gormrepo

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xyhcode/blog-api/pkg/domain/model"
)

// 本包持有全部持久化对象 (PO)。领域模型不携带 gorm 标签，
// PO 与领域模型之间的转换在各仓库实现内完成。
// 唯一索引声明在这里：service 层的重名检查只负责给出友好错误，
// 真正的并发安全由数据库唯一约束兜底。

// Article 文章表
type Article struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string `gorm:"size:255;not null"`
	Content     string `gorm:"type:text;not null"`
	ContentHTML string `gorm:"type:text"`
	Summary     string `gorm:"size:500;not null"`
	Author      string `gorm:"size:64;not null"`
	Status      string `gorm:"size:16;not null;default:DRAFT;index"`
	CategoryID  *uint  `gorm:"index"`
	Category    *Category
	Tags        []*Tag `gorm:"many2many:article_tags"`
	CoverImage  string `gorm:"size:500"`
	ViewCount   uint   `gorm:"not null;default:0"`
}

// Category 文章分类表
type Category struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:64;not null;uniqueIndex"`
	Description string `gorm:"size:255"`
	Icon        string `gorm:"size:255"`
}

// Tag 文章标签表
type Tag struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"size:64;not null;uniqueIndex"`
	Color     string `gorm:"size:32"`
}

// Comment 评论表
type Comment struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Content   string `gorm:"type:text;not null"`
	Status    string `gorm:"size:16;not null;default:PENDING;index"`
	ArticleID uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
}

// User 用户表
type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string  `gorm:"size:64;not null;uniqueIndex"`
	Email     string  `gorm:"size:255;not null;uniqueIndex"`
	Avatar    string  `gorm:"size:500"`
	GithubID  *string `gorm:"size:64;uniqueIndex"`
	Role      string  `gorm:"size:16;not null;default:USER"`
}

// VisitorLog 访问日志表
type VisitorLog struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	VisitorID string    `gorm:"size:64;index"`
	IPAddress string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:500"`
	Referer   string    `gorm:"size:500"`
	URLPath   string    `gorm:"size:500"`
}

// VisitorStat 按天聚合的访问统计表
type VisitorStat struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Date      time.Time `gorm:"uniqueIndex"`
	PV        int64     `gorm:"not null;default:0"`
	UV        int64     `gorm:"not null;default:0"`
}

// AutoMigrate 同步全部表结构，由启动引导程序调用。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Category{},
		&Tag{},
		&User{},
		&Article{},
		&Comment{},
		&VisitorLog{},
		&VisitorStat{},
	); err != nil {
		return fmt.Errorf("数据库表结构同步失败: %w", err)
	}
	return nil
}

// --- PO 与领域模型的转换 ---

func articleToModel(po *Article) *model.Article {
	if po == nil {
		return nil
	}
	m := &model.Article{
		ID:          po.ID,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
		Title:       po.Title,
		Content:     po.Content,
		ContentHTML: po.ContentHTML,
		Summary:     po.Summary,
		Author:      po.Author,
		Status:      model.ArticleStatus(po.Status),
		CategoryID:  po.CategoryID,
		CoverImage:  po.CoverImage,
		ViewCount:   po.ViewCount,
	}
	if po.Category != nil {
		m.Category = categoryToModel(po.Category)
	}
	if len(po.Tags) > 0 {
		m.Tags = make([]*model.Tag, len(po.Tags))
		for i, t := range po.Tags {
			m.Tags[i] = tagToModel(t)
		}
	}
	return m
}

func categoryToModel(po *Category) *model.Category {
	if po == nil {
		return nil
	}
	return &model.Category{
		ID:          po.ID,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
		Name:        po.Name,
		Description: po.Description,
		Icon:        po.Icon,
	}
}

func tagToModel(po *Tag) *model.Tag {
	if po == nil {
		return nil
	}
	return &model.Tag{
		ID:        po.ID,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Name:      po.Name,
		Color:     po.Color,
	}
}

func commentToModel(po *Comment) *model.Comment {
	if po == nil {
		return nil
	}
	return &model.Comment{
		ID:        po.ID,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Content:   po.Content,
		Status:    model.CommentStatus(po.Status),
		ArticleID: po.ArticleID,
		UserID:    po.UserID,
	}
}

func userToModel(po *User) *model.User {
	if po == nil {
		return nil
	}
	return &model.User{
		ID:        po.ID,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
		Username:  po.Username,
		Email:     po.Email,
		Avatar:    po.Avatar,
		GithubID:  po.GithubID,
		Role:      model.UserRole(po.Role),
	}
}
