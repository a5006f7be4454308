package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// VisitorLog 单次访问的原始日志，由统计中间件异步写入。
type VisitorLog struct {
	ID        uint
	CreatedAt time.Time
	VisitorID string
	IPAddress string
	UserAgent string
	Referer   string
	URLPath   string
}

// VisitorStat 按天聚合后的访问统计，由定时任务生成。
type VisitorStat struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
	Date      time.Time
	PV        int64
	UV        int64
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// VisitorStatistics 访问统计概览
type VisitorStatistics struct {
	TodayVisitors int64 `json:"today_visitors"` // 今日人数
	TodayViews    int64 `json:"today_views"`    // 今日访问
	TotalVisitors int64 `json:"total_visitors"` // 累计人数
	TotalViews    int64 `json:"total_views"`    // 累计访问
}

// VisitorLogRequest 访问日志请求，由中间件从请求上下文填充
type VisitorLogRequest struct {
	VisitorID string `json:"visitor_id"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Referer   string `json:"referer"`
	URLPath   string `json:"url_path"`
}
