package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agrihub/internal/converter"
	"agrihub/internal/service"
	"agrihub/pkg/httpx"
	"agrihub/pkg/logger"
)

// HTTPHandler HTTP API处理器
type HTTPHandler struct {
	searchService    service.SearchService
	analyticsService service.AnalyticsService
	converter        *converter.Converter
	logger           logger.Logger
}

// NewHTTPHandler 创建HTTP处理器
func NewHTTPHandler(searchSvc service.SearchService, analyticsSvc service.AnalyticsService, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		searchService:    searchSvc,
		analyticsService: analyticsSvc,
		converter:        converter.NewConverter(),
		logger:           log,
	}
}

// RegisterRoutes 注册HTTP路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	api := r.Group("/api/v1")
	{
		api.GET("/search", h.Search)
		api.GET("/search/suggestions", h.GetSuggestions)
		api.GET("/search/popular", h.GetPopularSearches)

		api.POST("/analytics/track", h.TrackSearch)
		api.GET("/analytics", authMW, h.GetAnalytics)

		meta := api.Group("/meta")
		{
			meta.GET("/categories/:contentType", h.GetCategories)
			meta.GET("/tags/:contentType", h.GetTags)
		}
	}
}

// writeServiceError 按错误类别写出HTTP错误响应
func (h *HTTPHandler) writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if service.IsClientError(err) {
		status = http.StatusBadRequest
	}
	httpx.WriteError(c, status, err.Error())
}
