package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/dao"
	"agrihub/internal/model"
	"agrihub/pkg/logger"
)

// ============ 内容库测试替身 ============

// fakeContentDAO 内存内容库，按变体名存放文档并模拟查询过滤
type fakeContentDAO struct {
	mu           sync.Mutex
	items        map[string][]*model.ContentItem
	failVariants map[string]bool
	findCalls    int
}

func newFakeContentDAO() *fakeContentDAO {
	return &fakeContentDAO{
		items:        make(map[string][]*model.ContentItem),
		failVariants: make(map[string]bool),
	}
}

func (f *fakeContentDAO) add(contentType string, item *model.ContentItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[contentType] = append(f.items[contentType], item)
}

func (f *fakeContentDAO) FindPublished(ctx context.Context, variant model.VariantDescriptor, query *dao.ContentQuery, opts *dao.FindOptions) ([]*model.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++

	if f.failVariants[variant.Name] {
		return nil, fmt.Errorf("collection %s unavailable", variant.Collection)
	}

	var matched []*model.ContentItem
	for _, item := range f.items[variant.Name] {
		if f.matches(variant, item, query) {
			matched = append(matched, item)
		}
	}

	if opts != nil {
		if opts.Skip > 0 {
			if opts.Skip >= int64(len(matched)) {
				return nil, nil
			}
			matched = matched[opts.Skip:]
		}
		if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
			matched = matched[:opts.Limit]
		}
	}
	return matched, nil
}

// matches 模拟已发布过滤加文本/模糊命中
func (f *fakeContentDAO) matches(variant model.VariantDescriptor, item *model.ContentItem, query *dao.ContentQuery) bool {
	if !item.Published {
		return false
	}

	if query.DateStart != nil && item.CreatedAt.Before(*query.DateStart) {
		return false
	}
	if query.DateEnd != nil && item.CreatedAt.After(*query.DateEnd) {
		return false
	}
	if variant.HasTags && len(query.Tags) > 0 {
		found := false
		for _, want := range query.Tags {
			for _, have := range item.Tags {
				if want == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if variant.HasViews && query.MinViews != nil && item.ViewCount < *query.MinViews {
		return false
	}

	text := strings.ToLower(item.Title + " " + item.Body + " " + item.Description)
	if query.Phrase != "" && strings.Contains(text, query.Phrase) {
		return true
	}
	for _, pattern := range query.FuzzyTerms {
		if re, err := regexp.Compile("(?i)" + pattern); err == nil && re.MatchString(text) {
			return true
		}
	}
	return false
}

func (f *fakeContentDAO) CountPublished(ctx context.Context, variant model.VariantDescriptor, query *dao.ContentQuery) (int64, error) {
	items, err := f.FindPublished(ctx, variant, query, nil)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (f *fakeContentDAO) FindTitleMatches(ctx context.Context, variant model.VariantDescriptor, partial string, limit int64) ([]*model.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failVariants[variant.Name] {
		return nil, fmt.Errorf("collection %s unavailable", variant.Collection)
	}

	var matched []*model.ContentItem
	for _, item := range f.items[variant.Name] {
		if !item.Published {
			continue
		}
		if strings.Contains(strings.ToLower(item.Title), strings.ToLower(partial)) {
			matched = append(matched, item)
		}
		if limit > 0 && int64(len(matched)) >= limit {
			break
		}
	}
	return matched, nil
}

func (f *fakeContentDAO) DistinctTags(ctx context.Context, variant model.VariantDescriptor) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]struct{})
	var tags []string
	for _, item := range f.items[variant.Name] {
		if !item.Published {
			continue
		}
		for _, tag := range item.Tags {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	return tags, nil
}

func (f *fakeContentDAO) DistinctCategories(ctx context.Context, variant model.VariantDescriptor) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, item := range f.items[variant.Name] {
		if !item.Published || item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; !ok {
			seen[item.Category] = struct{}{}
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}

// ============ 分析库测试替身 ============

type fakeAnalyticsDAO struct {
	mu     sync.Mutex
	rows   map[string]*model.SearchAnalytics
	clicks int
}

func newFakeAnalyticsDAO() *fakeAnalyticsDAO {
	return &fakeAnalyticsDAO{rows: make(map[string]*model.SearchAnalytics)}
}

func (f *fakeAnalyticsDAO) UpsertSearch(ctx context.Context, term string, resultCount int64, meta model.RequesterMeta) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if row, ok := f.rows[term]; ok {
		row.SearchCount++
		row.ResultCount = resultCount
		row.TotalResults += resultCount
		row.LastSearched = now
		return nil
	}
	f.rows[term] = &model.SearchAnalytics{
		ID:            uint64(len(f.rows) + 1),
		SearchTerm:    term,
		SearchCount:   1,
		ResultCount:   resultCount,
		TotalResults:  resultCount,
		UserAgent:     meta.UserAgent,
		ClientIP:      meta.ClientIP,
		SessionID:     meta.SessionID,
		FirstSearched: now,
		LastSearched:  now,
	}
	return nil
}

func (f *fakeAnalyticsDAO) RecordClick(ctx context.Context, term, contentID, contentType string, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks++
	return nil
}

func (f *fakeAnalyticsDAO) TopSearches(ctx context.Context, window model.AnalyticsWindow) ([]*model.TermStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var stats []*model.TermStats
	for _, row := range f.rows {
		stats = append(stats, &model.TermStats{
			Term:           row.SearchTerm,
			Count:          row.SearchCount,
			AvgResultCount: float64(row.TotalResults) / float64(row.SearchCount),
			LastSearched:   row.LastSearched,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	if window.Limit > 0 && len(stats) > window.Limit {
		stats = stats[:window.Limit]
	}
	return stats, nil
}

func (f *fakeAnalyticsDAO) SearchTrends(ctx context.Context, window model.AnalyticsWindow) ([]*model.TrendPoint, error) {
	return nil, nil
}

func (f *fakeAnalyticsDAO) ZeroResultSearches(ctx context.Context, window model.AnalyticsWindow) ([]*model.SearchAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []*model.SearchAnalytics
	for _, row := range f.rows {
		if row.ResultCount == 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeAnalyticsDAO) Summary(ctx context.Context, window model.AnalyticsWindow) (*model.AnalyticsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	summary := &model.AnalyticsSummary{
		UniqueTerms: int64(len(f.rows)),
		TotalClicks: int64(f.clicks),
	}
	for _, row := range f.rows {
		summary.TotalSearches += row.SearchCount
		if row.ResultCount == 0 {
			summary.ZeroResultTerms++
		}
	}
	return summary, nil
}

func (f *fakeAnalyticsDAO) RecentMatching(ctx context.Context, partial string, limit int) ([]*model.SearchAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []*model.SearchAnalytics
	for _, row := range f.rows {
		if strings.HasPrefix(row.SearchTerm, partial) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LastSearched.After(rows[j].LastSearched) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeAnalyticsDAO) TopTerms(ctx context.Context, limit int) ([]*model.SearchAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []*model.SearchAnalytics
	for _, row := range f.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SearchCount > rows[j].SearchCount })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeAnalyticsDAO) searchCount(term string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[term]; ok {
		return row.SearchCount
	}
	return 0
}

func (f *fakeAnalyticsDAO) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// ============ 缓存测试替身 ============

// fakeCacheService 内存缓存，记录命中与写入次数
type fakeCacheService struct {
	mu      sync.Mutex
	store   map[string][]byte
	getHits int
	sets    int
}

func newFakeCacheService() *fakeCacheService {
	return &fakeCacheService{store: make(map[string][]byte)}
}

func (f *fakeCacheService) Get(ctx context.Context, key string, out interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.store[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	f.getHits++
	return true
}

func (f *fakeCacheService) Set(ctx context.Context, key string, value interface{}, ttlSeconds int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.store[key] = data
	f.sets++
}

func (f *fakeCacheService) Delete(ctx context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, key)
}

func (f *fakeCacheService) Flush(ctx context.Context, pattern string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store = make(map[string][]byte)
}

// ============ 构造辅助 ============

func newTestService(content dao.ContentDAO, analytics AnalyticsService, cache CacheService) SearchService {
	if analytics == nil {
		analytics = NewAnalyticsService(newFakeAnalyticsDAO(), 16, logger.NewNopLogger())
	}
	if cache == nil {
		cache = NewNoopCacheService()
	}
	return NewSearchService(content, analytics, cache, NewNoopEventService(), DefaultServiceConfig(), logger.NewNopLogger())
}

func makeItem(title, body string, published bool, createdAt time.Time, views int64, tags ...string) *model.ContentItem {
	return &model.ContentItem{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Body:      body,
		Tags:      tags,
		Published: published,
		CreatedAt: createdAt,
		ViewCount: views,
	}
}
