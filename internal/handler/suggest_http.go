package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agrihub/pkg/logger"
)

// GetSuggestions 获取自动完成建议
func (h *HTTPHandler) GetSuggestions(c *gin.Context) {
	ctx := c.Request.Context()

	partial := c.Query("query")
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.searchService.GetSuggestions(ctx, partial, limit)
	if err != nil {
		h.logger.Error(ctx, "Get suggestions failed",
			logger.F("query", partial),
			logger.F("error", err.Error()))
		h.writeServiceError(c, err)
		return
	}

	c.JSON(200, h.converter.BuildSuggestionResponse(resp))
}

// GetPopularSearches 获取热门搜索
func (h *HTTPHandler) GetPopularSearches(c *gin.Context) {
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.Query("limit"))

	popular, err := h.searchService.GetPopularSearches(ctx, limit)
	if err != nil {
		h.logger.Error(ctx, "Get popular searches failed",
			logger.F("error", err.Error()))
		h.writeServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data": gin.H{
			"popular_searches": popular,
		},
	})
}
