package converter

import (
	"time"

	"agrihub/internal/model"
)

// Converter HTTP响应构造器
type Converter struct{}

// NewConverter 创建转换器实例
func NewConverter() *Converter {
	return &Converter{}
}

// BuildErrorResponse 错误响应
func (c *Converter) BuildErrorResponse(message string) map[string]interface{} {
	return map[string]interface{}{
		"code":    1,
		"message": message,
	}
}

// BuildSearchResponse 联邦搜索响应
func (c *Converter) BuildSearchResponse(req *model.SearchRequest, resp *model.SearchResponse) map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, c.buildResultItem(r))
	}

	totalPages := int64(0)
	if req.PageSize > 0 {
		totalPages = (resp.Total + int64(req.PageSize) - 1) / int64(req.PageSize)
	}

	return map[string]interface{}{
		"code":    0,
		"message": "success",
		"data": map[string]interface{}{
			"results": results,
			"pagination": map[string]interface{}{
				"current_page":  req.Page,
				"total_pages":   totalPages,
				"total_results": resp.Total,
				"has_next_page": int64(req.Page) < totalPages,
				"has_prev_page": req.Page > 1,
			},
			"search_meta": map[string]interface{}{
				"query":        req.Query,
				"fuzzy_search": req.Fuzzy,
				"highlighting": req.Highlight,
				"sort_by":      req.SortBy,
				"duration_ms":  resp.Duration,
				"from_cache":   resp.FromCache,
			},
			"available_tags": resp.AvailableTags,
		},
	}
}

// buildResultItem 单条搜索结果展平
func (c *Converter) buildResultItem(r *model.SearchResult) map[string]interface{} {
	item := map[string]interface{}{
		"id":           r.Item.ID.Hex(),
		"content_type": r.ContentType,
		"title":        r.Item.Title,
		"tags":         r.Item.Tags,
		"category":     r.Item.Category,
		"author":       r.Item.Author,
		"created_at":   r.Item.CreatedAt.Format(time.RFC3339),
		"view_count":   r.Item.ViewCount,
		"relevance":    r.Relevance,
	}
	if r.Item.PublishedAt != nil {
		item["published_at"] = r.Item.PublishedAt.Format(time.RFC3339)
	}
	if r.HighlightedTitle != "" {
		item["highlighted_title"] = r.HighlightedTitle
	}
	if r.HighlightedExcerpt != "" {
		item["highlighted_excerpt"] = r.HighlightedExcerpt
	}
	return item
}

// BuildSuggestionResponse 建议响应
func (c *Converter) BuildSuggestionResponse(resp *model.SuggestionResponse) map[string]interface{} {
	return map[string]interface{}{
		"code":    0,
		"message": "success",
		"data": map[string]interface{}{
			"suggestions":      resp.Suggestions,
			"popular_searches": resp.PopularSearches,
			"query":            resp.Query,
		},
	}
}

// BuildAnalyticsResponse 分析报表响应
func (c *Converter) BuildAnalyticsResponse(report *model.AnalyticsReport) map[string]interface{} {
	return map[string]interface{}{
		"code":    0,
		"message": "success",
		"data": map[string]interface{}{
			"top_searches":         report.TopSearches,
			"search_trends":        report.SearchTrends,
			"zero_result_searches": report.ZeroResultResults,
			"summary":              report.Summary,
		},
	}
}

// BuildListResponse 字符串列表响应（分类/标签）
func (c *Converter) BuildListResponse(key string, values []string) map[string]interface{} {
	if values == nil {
		values = []string{}
	}
	return map[string]interface{}{
		"code":    0,
		"message": "success",
		"data": map[string]interface{}{
			key: values,
		},
	}
}
