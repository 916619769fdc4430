package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"agrihub/internal/model"
	"agrihub/pkg/logger"
)

// Search 联邦搜索
func (h *HTTPHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	req := h.bindSearchRequest(c)

	resp, err := h.searchService.Search(ctx, req)
	if err != nil {
		h.logger.Error(ctx, "Search request failed",
			logger.F("query", req.Query),
			logger.F("error", err.Error()))
		h.writeServiceError(c, err)
		return
	}

	c.JSON(200, h.converter.BuildSearchResponse(req, resp))
}

// bindSearchRequest 解析查询参数为搜索请求，参数合法性由服务层校验
func (h *HTTPHandler) bindSearchRequest(c *gin.Context) *model.SearchRequest {
	req := &model.SearchRequest{
		Query:     c.Query("query"),
		Fuzzy:     parseBool(c.Query("fuzzy")),
		Highlight: parseBool(c.Query("highlight")),
		SortBy:    c.Query("sortBy"),
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		req.PageSize = limit
	}
	if ct := c.Query("contentTypes"); ct != "" {
		req.ContentTypes = splitCSV(ct)
	}
	if tags := c.Query("tags"); tags != "" {
		req.Tags = splitCSV(tags)
	}
	if mv := c.Query("minViews"); mv != "" {
		if n, err := strconv.ParseInt(mv, 10, 64); err == nil {
			req.MinViews = &n
		}
	}
	if ds := c.Query("dateStart"); ds != "" {
		if t, err := parseDate(ds); err == nil {
			req.DateStart = &t
		}
	}
	if de := c.Query("dateEnd"); de != "" {
		if t, err := parseDate(de); err == nil {
			req.DateEnd = &t
		}
	}

	req.Requester = model.RequesterMeta{
		UserAgent: c.Request.UserAgent(),
		ClientIP:  c.ClientIP(),
		SessionID: c.GetHeader("X-Session-ID"),
		UserID:    c.GetString("userID"),
	}

	return req
}

// parseDate 支持日期和RFC3339两种格式
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseBool(s string) bool {
	return s == "true" || s == "1"
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
