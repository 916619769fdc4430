package model

import (
	"time"
)

// ============ 搜索请求和响应模型 ============

// SearchRequest 联邦搜索请求
type SearchRequest struct {
	Query        string     `json:"query"`
	Page         int        `json:"page,omitempty"`
	PageSize     int        `json:"page_size,omitempty"`
	ContentTypes []string   `json:"content_types,omitempty"` // 为空表示全部变体
	Fuzzy        bool       `json:"fuzzy,omitempty"`
	Highlight    bool       `json:"highlight,omitempty"`
	SortBy       string     `json:"sort_by,omitempty"` // relevance/date/title/views
	DateStart    *time.Time `json:"date_start,omitempty"`
	DateEnd      *time.Time `json:"date_end,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	MinViews     *int64     `json:"min_views,omitempty"`

	// 请求方元数据，仅用于分析归因，不参与检索逻辑
	Requester RequesterMeta `json:"-"`
}

// RequesterMeta 请求方元数据
type RequesterMeta struct {
	UserAgent string
	ClientIP  string
	SessionID string
	UserID    string
}

// NormalizedQuery 规范化后的查询
type NormalizedQuery struct {
	Phrase      string   // 清洗后的完整短语，用于精确/前缀比较
	Terms       []string // 全部词项
	IndexPhrase string   // 仅含较长词项的检索短语
}

// IsEmpty 查询是否为空（原始输入为空或全为标点）
func (q NormalizedQuery) IsEmpty() bool {
	return q.Phrase == ""
}

// SearchResult 单条搜索结果
type SearchResult struct {
	Item               *ContentItem `json:"item"`
	ContentType        string       `json:"content_type"`
	Relevance          float64      `json:"relevance,omitempty"`
	HighlightedTitle   string       `json:"highlighted_title,omitempty"`
	HighlightedExcerpt string       `json:"highlighted_excerpt,omitempty"`
}

// SearchResponse 联邦搜索结果
type SearchResponse struct {
	Results       []*SearchResult `json:"results"`
	Total         int64           `json:"total"`
	AvailableTags []string        `json:"available_tags,omitempty"`
	Duration      int64           `json:"duration_ms"`
	FromCache     bool            `json:"from_cache"`
}

// ============ 搜索建议模型 ============

// Suggestion 自动完成建议
type Suggestion struct {
	Text        string  `json:"text"`
	Relevance   float64 `json:"relevance"`
	Type        string  `json:"type"` // title/tag/recent/popular
	ContentType string  `json:"content_type,omitempty"`
}

// SuggestionResponse 建议响应
type SuggestionResponse struct {
	Suggestions     []Suggestion `json:"suggestions"`
	PopularSearches []Suggestion `json:"popular_searches"`
	Query           string       `json:"query"`
}
