package model

// ============ 内容类型 ============

const (
	ContentTypeArticle      = "article"
	ContentTypeNews         = "news"
	ContentTypeEvent        = "event"
	ContentTypeFarm         = "farm"
	ContentTypeMagazine     = "magazine"
	ContentTypeCattleGuide  = "cattle_guide"
	ContentTypeGoatGuide    = "goat_guide"
	ContentTypeSheepGuide   = "sheep_guide"
	ContentTypePoultryGuide = "poultry_guide"
)

// ============ 排序方式 ============

const (
	SortByRelevance = "relevance"
	SortByDate      = "date"
	SortByTitle     = "title"
	SortByViews     = "views"
)

// IsValidSortBy 校验排序方式
func IsValidSortBy(sortBy string) bool {
	switch sortBy {
	case SortByRelevance, SortByDate, SortByTitle, SortByViews:
		return true
	}
	return false
}

// ============ 建议来源 ============

const (
	SuggestionTypeTitle   = "title"
	SuggestionTypeTag     = "tag"
	SuggestionTypeRecent  = "recent"
	SuggestionTypePopular = "popular"
)

// ============ 缓存键前缀 ============

const (
	CacheKeySearchResult = "search:result:"
	CacheKeySuggestions  = "search:suggest:"
	CacheKeyPopular      = "search:popular:"
	CacheKeyMetadata     = "search:meta:"
)

// ============ 默认值 ============

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// 最短可触发建议查询的输入长度
	MinSuggestionQueryLen = 2

	// 摘要截断长度
	ExcerptLength = 300

	// 每个词项最多生成的模糊变体数
	MaxFuzzyVariants = 5

	// 参与模糊扩展的最短词长
	MinFuzzyTermLen = 4

	// 参与联邦检索短语的最短词长
	MinIndexTermLen = 3
)
