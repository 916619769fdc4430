package service

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"

	"agrihub/internal/model"
)

// ============ 验证和默认值设置 ============

// validateSearchRequest 验证搜索请求
func (s *searchService) validateSearchRequest(req *model.SearchRequest) error {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return ErrEmptyQuery
	}

	if len(req.Query) > 500 {
		return ErrEmptyQuery.WithDetails("query too long (max 500 characters)")
	}

	if req.Page < 0 || req.PageSize < 0 || req.PageSize > s.config.MaxPageSize {
		return ErrInvalidPagination.WithDetails(fmt.Sprintf("page >= 1, 1 <= page_size <= %d", s.config.MaxPageSize))
	}

	for _, ct := range req.ContentTypes {
		if !model.IsValidContentType(ct) {
			return ErrInvalidContentType.WithDetails(ct)
		}
	}

	if req.SortBy != "" && !model.IsValidSortBy(req.SortBy) {
		return ErrInvalidSortBy.WithDetails(req.SortBy)
	}

	if req.DateStart != nil && req.DateEnd != nil && req.DateEnd.Before(*req.DateStart) {
		return ErrInvalidPagination.WithDetails("date_end before date_start")
	}

	return nil
}

// setDefaultValues 设置默认值
func (s *searchService) setDefaultValues(req *model.SearchRequest) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = s.config.DefaultPageSize
	}
	if req.PageSize > s.config.MaxPageSize {
		req.PageSize = s.config.MaxPageSize
	}
	if req.SortBy == "" {
		req.SortBy = model.SortByRelevance
	}
}

// resolveVariants 解析本次请求覆盖的内容变体，空过滤器表示全部
func resolveVariants(contentTypes []string) []model.VariantDescriptor {
	if len(contentTypes) == 0 {
		return model.Variants
	}

	var variants []model.VariantDescriptor
	for _, v := range model.Variants {
		for _, ct := range contentTypes {
			if v.Name == ct {
				variants = append(variants, v)
				break
			}
		}
	}
	return variants
}

// ============ 缓存键生成 ============

// searchCacheKey 搜索请求的确定性缓存键
//
// 切片参数排序后参与散列，等价请求无论参数顺序如何都命中同一键。
func (s *searchService) searchCacheKey(req *model.SearchRequest) string {
	types := append([]string(nil), req.ContentTypes...)
	sort.Strings(types)
	tags := append([]string(nil), req.Tags...)
	sort.Strings(tags)

	minViews := int64(-1)
	if req.MinViews != nil {
		minViews = *req.MinViews
	}
	dateStart, dateEnd := "", ""
	if req.DateStart != nil {
		dateStart = req.DateStart.UTC().Format("2006-01-02T15:04:05")
	}
	if req.DateEnd != nil {
		dateEnd = req.DateEnd.UTC().Format("2006-01-02T15:04:05")
	}

	data := fmt.Sprintf("%s:%d:%d:%s:%s:%t:%t:%s:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(req.Query)),
		req.Page, req.PageSize,
		strings.Join(types, ","), strings.Join(tags, ","),
		req.Fuzzy, req.Highlight, req.SortBy,
		dateStart, dateEnd, minViews)

	hash := md5.Sum([]byte(data))
	return fmt.Sprintf("%s%x", model.CacheKeySearchResult, hash)
}

// suggestionCacheKey 建议请求缓存键
func (s *searchService) suggestionCacheKey(partial string, limit int) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(partial)), limit)))
	return fmt.Sprintf("%s%x", model.CacheKeySuggestions, hash)
}

// metadataCacheKey 元数据缓存键
func metadataCacheKey(kind, contentType string) string {
	return model.CacheKeyMetadata + kind + ":" + contentType
}

// ============ 结果排序 ============

// sortResults 按排序方式对合并后的结果排序
//
// 相关性排序分数严格非增，同分按创建时间倒序。稳定排序保证
// 同键结果保持各变体的拼接顺序。
func sortResults(results []*model.SearchResult, sortBy string) {
	switch sortBy {
	case model.SortByTitle:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Item.Title) < strings.ToLower(results[j].Item.Title)
		})
	case model.SortByViews:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Item.ViewCount != results[j].Item.ViewCount {
				return results[i].Item.ViewCount > results[j].Item.ViewCount
			}
			return results[i].Item.CreatedAt.After(results[j].Item.CreatedAt)
		})
	case model.SortByRelevance:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Relevance != results[j].Relevance {
				return results[i].Relevance > results[j].Relevance
			}
			return results[i].Item.CreatedAt.After(results[j].Item.CreatedAt)
		})
	default: // 按时间
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Item.CreatedAt.After(results[j].Item.CreatedAt)
		})
	}
}

// dedupeStrings 去重并保持顺序
func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
