package service

import (
	"context"

	"agrihub/internal/model"
)

// SearchService 跨内容检索服务接口
type SearchService interface {
	// ============ 联邦搜索 ============

	// Search 跨全部内容变体的联邦搜索
	Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error)

	// ============ 搜索建议 ============

	// GetSuggestions 获取自动完成建议
	GetSuggestions(ctx context.Context, partial string, limit int) (*model.SuggestionResponse, error)

	// GetPopularSearches 获取热门历史搜索
	GetPopularSearches(ctx context.Context, limit int) ([]model.Suggestion, error)

	// ============ 元数据 ============

	// GetCategories 获取变体下的去重分类
	GetCategories(ctx context.Context, contentType string) ([]string, error)

	// GetTags 获取变体下的去重标签
	GetTags(ctx context.Context, contentType string) ([]string, error)
}

// AnalyticsService 搜索分析服务接口
type AnalyticsService interface {
	// RecordSearch 异步记录一次搜索，绝不阻塞调用方
	RecordSearch(term string, resultCount int64, meta model.RequesterMeta)

	// RecordClick 异步记录一次结果点击
	RecordClick(term, contentID, contentType string, position int)

	// Report 聚合分析报表
	Report(ctx context.Context, window model.AnalyticsWindow) (*model.AnalyticsReport, error)

	// TopSearchTerms 热门搜索词记录，供建议引擎取用
	TopSearchTerms(ctx context.Context, limit int) ([]*model.SearchAnalytics, error)

	// RecentSearchTerms 最近搜索中前缀命中的记录，供建议引擎取用
	RecentSearchTerms(ctx context.Context, partial string, limit int) ([]*model.SearchAnalytics, error)

	// Close 停止后台写入并等待队列排空
	Close()
}

// CacheService 请求级缓存服务接口
//
// 所有实现必须吞掉底层存储的连通性错误：取不到按未命中处理，
// 写不进只记警告，检索功能在缓存完全不可用时照常工作。
type CacheService interface {
	// Get 读取缓存并反序列化到out，返回是否命中
	Get(ctx context.Context, key string, out interface{}) bool

	// Set 写入缓存，ttlSeconds秒后过期
	Set(ctx context.Context, key string, value interface{}, ttlSeconds int)

	// Delete 删除指定键
	Delete(ctx context.Context, key string)

	// Flush 按模式清空缓存
	Flush(ctx context.Context, pattern string)
}

// EventService 搜索事件发布接口
type EventService interface {
	// PublishSearchEvent 发布搜索事件
	PublishSearchEvent(ctx context.Context, event *SearchEvent) error
}

// SearchEvent 搜索事件
type SearchEvent struct {
	Query       string `json:"query"`
	ResultCount int64  `json:"result_count"`
	Fuzzy       bool   `json:"fuzzy"`
	Duration    int64  `json:"duration_ms"`
	ClientIP    string `json:"client_ip,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// ============ 服务配置 ============

// ServiceConfig 服务配置
type ServiceConfig struct {
	DefaultPageSize  int            `json:"default_page_size"`
	MaxPageSize      int            `json:"max_page_size"`
	SearchTimeout    int            `json:"search_timeout_ms"` // 单变体查询超时
	HighlightPreTag  string         `json:"highlight_pre_tag"`
	HighlightPostTag string         `json:"highlight_post_tag"`
	CacheEnabled     bool           `json:"cache_enabled"`
	CacheTTL         map[string]int `json:"cache_ttl"`

	EventEnabled bool   `json:"event_enabled"`
	EventTopic   string `json:"event_topic"`

	AnalyticsQueueSize int `json:"analytics_queue_size"`
}

// DefaultServiceConfig 创建默认配置
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		DefaultPageSize:  model.DefaultPageSize,
		MaxPageSize:      model.MaxPageSize,
		SearchTimeout:    5000,
		HighlightPreTag:  "<mark>",
		HighlightPostTag: "</mark>",
		CacheEnabled:     true,
		CacheTTL: map[string]int{
			"search_results": 300,
			"suggestions":    600,
			"popular":        1800,
			"metadata":       3600,
		},
		EventEnabled:       false,
		EventTopic:         "search_events",
		AnalyticsQueueSize: 1024,
	}
}

// ============ 错误定义 ============

// ServiceError 服务错误
type ServiceError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// WithDetails 带说明的错误副本
func (e *ServiceError) WithDetails(details string) *ServiceError {
	return &ServiceError{Code: e.Code, Message: e.Message, Details: details}
}

// 常见服务错误
var (
	ErrEmptyQuery         = &ServiceError{Code: "INVALID_REQUEST", Message: "search query is required"}
	ErrInvalidContentType = &ServiceError{Code: "INVALID_REQUEST", Message: "invalid content type"}
	ErrInvalidPagination  = &ServiceError{Code: "INVALID_REQUEST", Message: "invalid pagination parameters"}
	ErrInvalidSortBy      = &ServiceError{Code: "INVALID_REQUEST", Message: "invalid sort mode"}
	ErrQueryTooShort      = &ServiceError{Code: "INVALID_REQUEST", Message: "query too short for suggestions"}
	ErrSearchFailed       = &ServiceError{Code: "SEARCH_FAILED", Message: "search operation failed"}
	ErrAnalyticsFailed    = &ServiceError{Code: "ANALYTICS_FAILED", Message: "analytics operation failed"}
)

// IsClientError 是否为请求方错误
func IsClientError(err error) bool {
	if se, ok := err.(*ServiceError); ok {
		return se.Code == "INVALID_REQUEST"
	}
	return false
}
