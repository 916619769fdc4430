package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"agrihub/internal/model"
	"agrihub/pkg/logger"
)

// GetSuggestions 获取自动完成建议
//
// 四路来源并发汇集：标题命中、标签命中、最近搜索、热门搜索。
// 合并后按文本去重（大小写不敏感，先到先得）、按相关性降序、截断。
// 稳定排序保证同分时来源优先级 title > tag > recent > popular。
func (s *searchService) GetSuggestions(ctx context.Context, partial string, limit int) (*model.SuggestionResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(partial))
	if limit <= 0 {
		limit = 10
	}
	if limit > s.config.MaxPageSize {
		limit = s.config.MaxPageSize
	}

	// 输入过短只返回热门历史搜索，不做标题/标签扇出
	if len(normalized) < model.MinSuggestionQueryLen {
		popular, err := s.GetPopularSearches(ctx, limit)
		if err != nil {
			popular = nil
		}
		return &model.SuggestionResponse{
			Suggestions:     []model.Suggestion{},
			PopularSearches: popular,
			Query:           partial,
		}, nil
	}

	cacheKey := s.suggestionCacheKey(normalized, limit)
	if s.config.CacheEnabled {
		cached := &model.SuggestionResponse{}
		if s.cache.Get(ctx, cacheKey, cached) {
			return cached, nil
		}
	}

	var (
		wg          sync.WaitGroup
		titleSugg   []model.Suggestion
		tagSugg     []model.Suggestion
		recentSugg  []model.Suggestion
		popularSugg []model.Suggestion
	)

	// 各来源失败只减少贡献，不影响兄弟分支
	wg.Add(4)
	go func() {
		defer wg.Done()
		titleSugg = s.titleSuggestions(ctx, normalized, limit)
	}()
	go func() {
		defer wg.Done()
		tagSugg = s.tagSuggestions(ctx, normalized)
	}()
	go func() {
		defer wg.Done()
		recentSugg = s.recentSuggestions(ctx, normalized, limit)
	}()
	go func() {
		defer wg.Done()
		popularSugg, _ = s.popularSuggestions(ctx, normalized, limit)
	}()
	wg.Wait()

	merged := make([]model.Suggestion, 0, len(titleSugg)+len(tagSugg)+len(recentSugg)+len(popularSugg))
	merged = append(merged, titleSugg...)
	merged = append(merged, tagSugg...)
	merged = append(merged, recentSugg...)
	merged = append(merged, popularSugg...)

	merged = dedupeSuggestions(merged)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Relevance > merged[j].Relevance
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	popular, err := s.GetPopularSearches(ctx, limit)
	if err != nil {
		popular = nil
	}

	response := &model.SuggestionResponse{
		Suggestions:     merged,
		PopularSearches: popular,
		Query:           partial,
	}

	if s.config.CacheEnabled {
		s.cache.Set(ctx, cacheKey, response, s.config.CacheTTL["suggestions"])
	}

	return response, nil
}

// GetPopularSearches 获取热门历史搜索
func (s *searchService) GetPopularSearches(ctx context.Context, limit int) ([]model.Suggestion, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := model.CacheKeyPopular + "top"
	var popular []model.Suggestion
	if s.config.CacheEnabled && s.cache.Get(ctx, cacheKey, &popular) {
		if len(popular) > limit {
			popular = popular[:limit]
		}
		return popular, nil
	}

	records, err := s.analytics.TopSearchTerms(ctx, limit)
	if err != nil {
		s.logger.Warn(ctx, "Failed to get popular searches",
			logger.F("error", err.Error()))
		return nil, err
	}

	popular = make([]model.Suggestion, 0, len(records))
	for _, rec := range records {
		popular = append(popular, model.Suggestion{
			Text:      rec.SearchTerm,
			Relevance: float64(rec.SearchCount),
			Type:      model.SuggestionTypePopular,
		})
	}

	if s.config.CacheEnabled {
		s.cache.Set(ctx, cacheKey, popular, s.config.CacheTTL["popular"])
	}
	return popular, nil
}

// titleSuggestions 标题命中建议，覆盖全部变体
func (s *searchService) titleSuggestions(ctx context.Context, partial string, limit int) []model.Suggestion {
	var suggestions []model.Suggestion
	for _, v := range model.Variants {
		items, err := s.contentDAO.FindTitleMatches(ctx, v, partial, int64(limit))
		if err != nil {
			s.logger.Warn(ctx, "Title suggestion lookup failed",
				logger.F("variant", v.Name),
				logger.F("error", err.Error()))
			continue
		}
		for _, item := range items {
			suggestions = append(suggestions, model.Suggestion{
				Text:        item.Title,
				Relevance:   relevanceScore(item.Title, partial),
				Type:        model.SuggestionTypeTitle,
				ContentType: v.Name,
			})
		}
	}
	return suggestions
}

// tagSuggestions 标签命中建议，仅覆盖带标签的变体
func (s *searchService) tagSuggestions(ctx context.Context, partial string) []model.Suggestion {
	var suggestions []model.Suggestion
	for _, v := range model.Variants {
		if !v.HasTags {
			continue
		}
		tags, err := s.contentDAO.DistinctTags(ctx, v)
		if err != nil {
			s.logger.Warn(ctx, "Tag suggestion lookup failed",
				logger.F("variant", v.Name),
				logger.F("error", err.Error()))
			continue
		}
		for _, tag := range tags {
			if !strings.Contains(strings.ToLower(tag), partial) {
				continue
			}
			suggestions = append(suggestions, model.Suggestion{
				Text:        tag,
				Relevance:   relevanceScore(tag, partial),
				Type:        model.SuggestionTypeTag,
				ContentType: v.Name,
			})
		}
	}
	return suggestions
}

// recentSuggestions 最近搜索词建议
func (s *searchService) recentSuggestions(ctx context.Context, partial string, limit int) []model.Suggestion {
	records, err := s.analytics.RecentSearchTerms(ctx, partial, limit)
	if err != nil {
		s.logger.Warn(ctx, "Recent suggestion lookup failed",
			logger.F("error", err.Error()))
		return nil
	}

	suggestions := make([]model.Suggestion, 0, len(records))
	for _, rec := range records {
		suggestions = append(suggestions, model.Suggestion{
			Text:      rec.SearchTerm,
			Relevance: relevanceScore(rec.SearchTerm, partial),
			Type:      model.SuggestionTypeRecent,
		})
	}
	return suggestions
}

// popularSuggestions 热门搜索词参与合并的建议形式
func (s *searchService) popularSuggestions(ctx context.Context, partial string, limit int) ([]model.Suggestion, error) {
	records, err := s.analytics.TopSearchTerms(ctx, limit)
	if err != nil {
		s.logger.Warn(ctx, "Popular suggestion lookup failed",
			logger.F("error", err.Error()))
		return nil, err
	}

	suggestions := make([]model.Suggestion, 0, len(records))
	for _, rec := range records {
		suggestions = append(suggestions, model.Suggestion{
			Text:      rec.SearchTerm,
			Relevance: relevanceScore(rec.SearchTerm, partial),
			Type:      model.SuggestionTypePopular,
		})
	}
	return suggestions, nil
}

// dedupeSuggestions 按文本去重，大小写不敏感，先到先得
func dedupeSuggestions(suggestions []model.Suggestion) []model.Suggestion {
	seen := make(map[string]struct{}, len(suggestions))
	out := suggestions[:0]
	for _, sg := range suggestions {
		key := strings.ToLower(sg.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sg)
	}
	return out
}
