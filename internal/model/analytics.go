package model

import (
	"time"
)

// ============ 搜索分析模型（PostgreSQL） ============

// SearchAnalytics 搜索分析记录，按规范化词项唯一
type SearchAnalytics struct {
	ID            uint64        `gorm:"primaryKey" json:"id"`
	SearchTerm    string        `gorm:"size:255;uniqueIndex" json:"search_term"`
	SearchCount   int64         `gorm:"not null;default:1" json:"search_count"`
	ResultCount   int64         `gorm:"not null;default:0" json:"result_count"`  // 最近一次的结果数
	TotalResults  int64         `gorm:"not null;default:0" json:"total_results"` // 历次结果数之和，用于求均值
	UserAgent     string        `gorm:"size:512" json:"user_agent,omitempty"`
	ClientIP      string        `gorm:"size:64" json:"client_ip,omitempty"`
	SessionID     string        `gorm:"size:128" json:"session_id,omitempty"`
	FirstSearched time.Time     `json:"first_searched"`
	LastSearched  time.Time     `gorm:"index" json:"last_searched"`
	Clicks        []SearchClick `gorm:"foreignKey:AnalyticsID" json:"clicks,omitempty"`
}

// TableName 指定表名
func (SearchAnalytics) TableName() string {
	return "search_analytics"
}

// SearchClick 结果点击记录
type SearchClick struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	AnalyticsID uint64    `gorm:"index;not null" json:"-"`
	ContentID   string    `gorm:"size:64" json:"content_id"`
	ContentType string    `gorm:"size:32" json:"content_type"`
	Position    int       `json:"position"`
	ClickedAt   time.Time `json:"clicked_at"`
}

// TableName 指定表名
func (SearchClick) TableName() string {
	return "search_clicks"
}

// ============ 聚合结果模型 ============

// TermStats 热门词项统计
type TermStats struct {
	Term           string    `json:"term"`
	Count          int64     `json:"count"`
	AvgResultCount float64   `json:"avg_result_count"`
	LastSearched   time.Time `json:"last_searched"`
}

// TrendPoint 按日趋势点
type TrendPoint struct {
	Date        string `json:"date"` // YYYY-MM-DD
	SearchCount int64  `json:"search_count"`
	UniqueTerms int64  `json:"unique_terms"`
}

// AnalyticsSummary 汇总统计
type AnalyticsSummary struct {
	TotalSearches   int64 `json:"total_searches"`
	UniqueTerms     int64 `json:"unique_terms"`
	ZeroResultTerms int64 `json:"zero_result_terms"`
	TotalClicks     int64 `json:"total_clicks"`
}

// AnalyticsReport 分析面板聚合响应
type AnalyticsReport struct {
	TopSearches       []*TermStats       `json:"top_searches"`
	SearchTrends      []*TrendPoint      `json:"search_trends"`
	ZeroResultResults []*SearchAnalytics `json:"zero_result_searches"`
	Summary           *AnalyticsSummary  `json:"summary"`
}

// AnalyticsWindow 聚合时间窗口
type AnalyticsWindow struct {
	Start time.Time
	End   time.Time
	Limit int
}
