package handler

import (
	"github.com/gin-gonic/gin"

	"agrihub/pkg/logger"
)

// GetCategories 获取指定内容变体的去重分类
func (h *HTTPHandler) GetCategories(c *gin.Context) {
	ctx := c.Request.Context()

	contentType := c.Param("contentType")
	categories, err := h.searchService.GetCategories(ctx, contentType)
	if err != nil {
		h.logger.Error(ctx, "Get categories failed",
			logger.F("contentType", contentType),
			logger.F("error", err.Error()))
		h.writeServiceError(c, err)
		return
	}

	c.JSON(200, h.converter.BuildListResponse("categories", categories))
}

// GetTags 获取指定内容变体的去重标签
func (h *HTTPHandler) GetTags(c *gin.Context) {
	ctx := c.Request.Context()

	contentType := c.Param("contentType")
	tags, err := h.searchService.GetTags(ctx, contentType)
	if err != nil {
		h.logger.Error(ctx, "Get tags failed",
			logger.F("contentType", contentType),
			logger.F("error", err.Error()))
		h.writeServiceError(c, err)
		return
	}

	c.JSON(200, h.converter.BuildListResponse("tags", tags))
}
