package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"agrihub/internal/dao"
	"agrihub/internal/model"
	"agrihub/pkg/logger"
)

// searchService 跨内容检索服务实现
type searchService struct {
	contentDAO dao.ContentDAO
	analytics  AnalyticsService
	cache      CacheService
	events     EventService
	config     *ServiceConfig
	logger     logger.Logger
}

// NewSearchService 创建检索服务实例
func NewSearchService(
	contentDAO dao.ContentDAO,
	analytics AnalyticsService,
	cache CacheService,
	events EventService,
	config *ServiceConfig,
	log logger.Logger,
) SearchService {
	if config == nil {
		config = DefaultServiceConfig()
	}
	return &searchService{
		contentDAO: contentDAO,
		analytics:  analytics,
		cache:      cache,
		events:     events,
		config:     config,
		logger:     log,
	}
}

// variantHits 单个变体的查询贡献
type variantHits struct {
	variant model.VariantDescriptor
	items   []*model.ContentItem
}

// Search 跨全部内容变体的联邦搜索
//
// 每个变体独立查询、独立分页、独立失败：单个集合超时或出错只让
// 它贡献零结果，绝不拖垮整个请求。合并排序是唯一的定序点。
func (s *searchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	startTime := time.Now()

	if err := s.validateSearchRequest(req); err != nil {
		return nil, err
	}
	s.setDefaultValues(req)

	normalized := normalizeQuery(req.Query)
	if normalized.IsEmpty() {
		return nil, ErrEmptyQuery.WithDetails("query contains no searchable characters")
	}

	// 缓存命中直接返回，搜索本身仍计入分析
	cacheKey := s.searchCacheKey(req)
	if s.config.CacheEnabled {
		cached := &model.SearchResponse{}
		if s.cache.Get(ctx, cacheKey, cached) {
			cached.FromCache = true
			s.recordSearch(ctx, req, normalized.Phrase, cached.Total, time.Since(startTime))
			return cached, nil
		}
	}

	query := &dao.ContentQuery{
		Phrase:      normalized.Phrase,
		IndexPhrase: normalized.IndexPhrase,
		Terms:       normalized.Terms,
		DateStart:   req.DateStart,
		DateEnd:     req.DateEnd,
		Tags:        req.Tags,
		MinViews:    req.MinViews,
	}
	if req.Fuzzy {
		query.FuzzyTerms = expandFuzzyTerms(normalized.Terms)
	}

	variants := resolveVariants(req.ContentTypes)
	hits := s.queryVariants(ctx, variants, query, req)

	// 合并、评分、排序
	var results []*model.SearchResult
	for _, h := range hits {
		for _, item := range h.items {
			result := &model.SearchResult{
				Item:        item,
				ContentType: h.variant.Name,
			}
			if req.SortBy == model.SortByRelevance {
				// 评分只针对原始查询短语，模糊词项扩大召回但不参与评分
				result.Relevance = relevanceScore(item.Title, normalized.Phrase)
			}
			results = append(results, result)
		}
	}
	sortResults(results, req.SortBy)

	if req.Highlight {
		s.applyHighlights(results, normalized.Terms)
	}

	response := &model.SearchResponse{
		Results:       results,
		Total:         int64(len(results)),
		AvailableTags: s.collectAvailableTags(ctx, variants),
		Duration:      time.Since(startTime).Milliseconds(),
	}

	if s.config.CacheEnabled {
		s.cache.Set(ctx, cacheKey, response, s.config.CacheTTL["search_results"])
	}

	s.recordSearch(ctx, req, normalized.Phrase, response.Total, time.Since(startTime))

	return response, nil
}

// queryVariants 并发查询全部目标变体
//
// 分页按变体独立应用（每个变体各取第N页），这是沿用的源系统行为。
func (s *searchService) queryVariants(ctx context.Context, variants []model.VariantDescriptor, query *dao.ContentQuery, req *model.SearchRequest) []variantHits {
	timeout := time.Duration(s.config.SearchTimeout) * time.Millisecond
	opts := &dao.FindOptions{
		SortBy: req.SortBy,
		Skip:   int64(req.Page-1) * int64(req.PageSize),
		Limit:  int64(req.PageSize),
	}

	hits := make([]variantHits, len(variants))
	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(i int, v model.VariantDescriptor) {
			defer wg.Done()

			vctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			items, err := s.contentDAO.FindPublished(vctx, v, query, opts)
			if err != nil {
				// 部分失败隔离：出错的变体贡献零结果
				s.logger.Warn(ctx, "Variant query failed",
					logger.F("variant", v.Name),
					logger.F("error", err.Error()))
				return
			}
			hits[i] = variantHits{variant: v, items: items}
		}(i, v)
	}
	wg.Wait()

	return hits
}

// applyHighlights 为结果生成高亮标题与摘要
func (s *searchService) applyHighlights(results []*model.SearchResult, terms []string) {
	for _, r := range results {
		r.HighlightedTitle = highlightTerms(r.Item.Title, terms, s.config.HighlightPreTag, s.config.HighlightPostTag)

		base := r.Item.Body
		if r.Item.Description != "" {
			base = r.Item.Description
		}
		r.HighlightedExcerpt = highlightTerms(makeExcerpt(base), terms, s.config.HighlightPreTag, s.config.HighlightPostTag)
	}
}

// collectAvailableTags 汇总目标变体下的可用标签
func (s *searchService) collectAvailableTags(ctx context.Context, variants []model.VariantDescriptor) []string {
	var tags []string
	for _, v := range variants {
		if !v.HasTags {
			continue
		}
		values, err := s.contentDAO.DistinctTags(ctx, v)
		if err != nil {
			s.logger.Warn(ctx, "Failed to collect tags",
				logger.F("variant", v.Name),
				logger.F("error", err.Error()))
			continue
		}
		tags = append(tags, values...)
	}

	tags = dedupeStrings(tags)
	sort.Strings(tags)
	return tags
}

// recordSearch 搜索后处理：写分析、发事件，均不阻塞响应
func (s *searchService) recordSearch(ctx context.Context, req *model.SearchRequest, phrase string, total int64, duration time.Duration) {
	s.analytics.RecordSearch(phrase, total, req.Requester)

	if !s.config.EventEnabled {
		return
	}
	event := &SearchEvent{
		Query:       phrase,
		ResultCount: total,
		Fuzzy:       req.Fuzzy,
		Duration:    duration.Milliseconds(),
		ClientIP:    req.Requester.ClientIP,
		UserAgent:   req.Requester.UserAgent,
		SessionID:   req.Requester.SessionID,
		Timestamp:   time.Now().Unix(),
	}
	if err := s.events.PublishSearchEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish search event",
			logger.F("query", phrase),
			logger.F("error", err.Error()))
	}
}

// ============ 元数据 ============

// GetCategories 获取变体下的去重分类
func (s *searchService) GetCategories(ctx context.Context, contentType string) ([]string, error) {
	variant, ok := model.VariantByName(contentType)
	if !ok {
		return nil, ErrInvalidContentType.WithDetails(contentType)
	}

	cacheKey := metadataCacheKey("categories", contentType)
	var categories []string
	if s.config.CacheEnabled && s.cache.Get(ctx, cacheKey, &categories) {
		return categories, nil
	}

	categories, err := s.contentDAO.DistinctCategories(ctx, variant)
	if err != nil {
		s.logger.Error(ctx, "Failed to get categories",
			logger.F("content_type", contentType),
			logger.F("error", err.Error()))
		return nil, ErrSearchFailed.WithDetails(err.Error())
	}
	sort.Strings(categories)

	if s.config.CacheEnabled {
		s.cache.Set(ctx, cacheKey, categories, s.config.CacheTTL["metadata"])
	}
	return categories, nil
}

// GetTags 获取变体下的去重标签
func (s *searchService) GetTags(ctx context.Context, contentType string) ([]string, error) {
	variant, ok := model.VariantByName(contentType)
	if !ok {
		return nil, ErrInvalidContentType.WithDetails(contentType)
	}

	cacheKey := metadataCacheKey("tags", contentType)
	var tags []string
	if s.config.CacheEnabled && s.cache.Get(ctx, cacheKey, &tags) {
		return tags, nil
	}

	tags, err := s.contentDAO.DistinctTags(ctx, variant)
	if err != nil {
		s.logger.Error(ctx, "Failed to get tags",
			logger.F("content_type", contentType),
			logger.F("error", err.Error()))
		return nil, ErrSearchFailed.WithDetails(err.Error())
	}
	sort.Strings(tags)

	if s.config.CacheEnabled {
		s.cache.Set(ctx, cacheKey, tags, s.config.CacheTTL["metadata"])
	}
	return tags, nil
}
