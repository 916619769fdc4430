package dao

import (
	"context"
	"time"

	"agrihub/internal/model"
)

// ContentQuery 单个变体上的检索条件
type ContentQuery struct {
	Phrase      string   // 规范化完整短语
	IndexPhrase string   // 长词项短语，用于全文索引匹配
	Terms       []string // 规范化词项
	FuzzyTerms  []string // 模糊扩展后的正则模式，空表示未启用模糊

	DateStart *time.Time
	DateEnd   *time.Time
	Tags      []string
	MinViews  *int64
}

// FindOptions 查询分页与排序
type FindOptions struct {
	SortBy string // relevance/date/title/views
	Skip   int64
	Limit  int64
}

// ContentDAO 内容库只读访问接口
//
// 内容的写入由内容管理端完成，检索核心只消费已发布文档。
type ContentDAO interface {
	// FindPublished 查询单个变体中命中的已发布文档
	FindPublished(ctx context.Context, variant model.VariantDescriptor, query *ContentQuery, opts *FindOptions) ([]*model.ContentItem, error)

	// CountPublished 统计单个变体中命中的已发布文档数
	CountPublished(ctx context.Context, variant model.VariantDescriptor, query *ContentQuery) (int64, error)

	// FindTitleMatches 标题模糊匹配，用于自动完成
	FindTitleMatches(ctx context.Context, variant model.VariantDescriptor, partial string, limit int64) ([]*model.ContentItem, error)

	// DistinctTags 变体下已发布文档的去重标签
	DistinctTags(ctx context.Context, variant model.VariantDescriptor) ([]string, error)

	// DistinctCategories 变体下已发布文档的去重分类
	DistinctCategories(ctx context.Context, variant model.VariantDescriptor) ([]string, error)
}

// AnalyticsDAO 搜索分析存储访问接口
type AnalyticsDAO interface {
	// UpsertSearch 记录一次搜索：同词项存在则累加计数并刷新时间，否则插入新记录
	UpsertSearch(ctx context.Context, term string, resultCount int64, meta model.RequesterMeta) error

	// RecordClick 追加一次结果点击
	RecordClick(ctx context.Context, term, contentID, contentType string, position int) error

	// TopSearches 按搜索次数降序的热门词项
	TopSearches(ctx context.Context, window model.AnalyticsWindow) ([]*model.TermStats, error)

	// SearchTrends 按日聚合的搜索趋势
	SearchTrends(ctx context.Context, window model.AnalyticsWindow) ([]*model.TrendPoint, error)

	// ZeroResultSearches 零结果搜索记录
	ZeroResultSearches(ctx context.Context, window model.AnalyticsWindow) ([]*model.SearchAnalytics, error)

	// Summary 汇总统计
	Summary(ctx context.Context, window model.AnalyticsWindow) (*model.AnalyticsSummary, error)

	// RecentMatching 最近搜索中词项前缀命中的记录，用于建议
	RecentMatching(ctx context.Context, partial string, limit int) ([]*model.SearchAnalytics, error)

	// TopTerms 全量热门词项记录，用于热门建议
	TopTerms(ctx context.Context, limit int) ([]*model.SearchAnalytics, error)
}
