package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agrihub/internal/model"
	"agrihub/pkg/httpx"
	"agrihub/pkg/logger"
)

// trackRequest 搜索行为上报请求体
type trackRequest struct {
	SearchTerm  string `json:"search_term" binding:"required"`
	ResultCount int64  `json:"result_count"`
	ClickData   *struct {
		ContentID   string `json:"content_id"`
		ContentType string `json:"content_type"`
		Position    int    `json:"position"`
	} `json:"click_data,omitempty"`
}

// TrackSearch 上报搜索行为（公开端点）
func (h *HTTPHandler) TrackSearch(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, 400, "invalid track payload: "+err.Error())
		return
	}

	if req.ClickData != nil {
		h.analyticsService.RecordClick(req.SearchTerm, req.ClickData.ContentID, req.ClickData.ContentType, req.ClickData.Position)
	} else {
		h.analyticsService.RecordSearch(req.SearchTerm, req.ResultCount, model.RequesterMeta{
			UserAgent: c.Request.UserAgent(),
			ClientIP:  c.ClientIP(),
			SessionID: c.GetHeader("X-Session-ID"),
		})
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "recorded",
	})
}

// GetAnalytics 获取分析报表（需要JWT鉴权）
func (h *HTTPHandler) GetAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	window := model.AnalyticsWindow{}
	if s := c.Query("startDate"); s != "" {
		if t, err := parseDate(s); err == nil {
			window.Start = t
		}
	}
	if s := c.Query("endDate"); s != "" {
		if t, err := parseDate(s); err == nil {
			// 截止日期按当天末尾处理
			window.End = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		window.Limit = limit
	}

	report, err := h.analyticsService.Report(ctx, window)
	if err != nil {
		h.logger.Error(ctx, "Get analytics report failed",
			logger.F("userID", c.GetString("userID")),
			logger.F("error", err.Error()))
		h.writeServiceError(c, err)
		return
	}

	c.JSON(200, h.converter.BuildAnalyticsResponse(report))
}
