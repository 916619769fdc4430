package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"agrihub/internal/model"
	"agrihub/internal/service"
	"agrihub/pkg/logger"
)

// stubSearchService 固定返回的检索服务替身
type stubSearchService struct {
	searchResp *model.SearchResponse
	searchErr  error
	lastReq    *model.SearchRequest
}

func (s *stubSearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	s.lastReq = req
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResp, nil
}

func (s *stubSearchService) GetSuggestions(ctx context.Context, partial string, limit int) (*model.SuggestionResponse, error) {
	return &model.SuggestionResponse{Suggestions: []model.Suggestion{}, Query: partial}, nil
}

func (s *stubSearchService) GetPopularSearches(ctx context.Context, limit int) ([]model.Suggestion, error) {
	return nil, nil
}

func (s *stubSearchService) GetCategories(ctx context.Context, contentType string) ([]string, error) {
	if !model.IsValidContentType(contentType) {
		return nil, service.ErrInvalidContentType.WithDetails(contentType)
	}
	return []string{"husbandry"}, nil
}

func (s *stubSearchService) GetTags(ctx context.Context, contentType string) ([]string, error) {
	if !model.IsValidContentType(contentType) {
		return nil, service.ErrInvalidContentType.WithDetails(contentType)
	}
	return []string{"feed"}, nil
}

// stubAnalyticsService 记录调用的分析服务替身
type stubAnalyticsService struct {
	searches int
	clicks   int
}

func (s *stubAnalyticsService) RecordSearch(term string, resultCount int64, meta model.RequesterMeta) {
	s.searches++
}

func (s *stubAnalyticsService) RecordClick(term, contentID, contentType string, position int) {
	s.clicks++
}

func (s *stubAnalyticsService) Report(ctx context.Context, window model.AnalyticsWindow) (*model.AnalyticsReport, error) {
	return &model.AnalyticsReport{Summary: &model.AnalyticsSummary{}}, nil
}

func (s *stubAnalyticsService) TopSearchTerms(ctx context.Context, limit int) ([]*model.SearchAnalytics, error) {
	return nil, nil
}

func (s *stubAnalyticsService) RecentSearchTerms(ctx context.Context, partial string, limit int) ([]*model.SearchAnalytics, error) {
	return nil, nil
}

func (s *stubAnalyticsService) Close() {}

func setupRouter(search service.SearchService, analytics service.AnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHTTPHandler(search, analytics, logger.NewNopLogger())
	// 测试中放行鉴权
	h.RegisterRoutes(r, func(c *gin.Context) { c.Next() })
	return r
}

func TestSearchEndpointBindsParams(t *testing.T) {
	stub := &stubSearchService{searchResp: &model.SearchResponse{Results: []*model.SearchResult{}}}
	r := setupRouter(stub, &stubAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=cattle&page=2&limit=5&fuzzy=true&highlight=true&sortBy=views&contentTypes=article,news&tags=feed&minViews=100", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	got := stub.lastReq
	if got.Query != "cattle" || got.Page != 2 || got.PageSize != 5 {
		t.Errorf("bound request = %+v", got)
	}
	if !got.Fuzzy || !got.Highlight || got.SortBy != "views" {
		t.Errorf("flags not bound: %+v", got)
	}
	if len(got.ContentTypes) != 2 || len(got.Tags) != 1 {
		t.Errorf("lists not bound: %+v", got)
	}
	if got.MinViews == nil || *got.MinViews != 100 {
		t.Errorf("minViews not bound: %+v", got.MinViews)
	}
}

func TestSearchEndpointClientErrorIs400(t *testing.T) {
	stub := &stubSearchService{searchErr: service.ErrEmptyQuery}
	r := setupRouter(stub, &stubAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchEndpointInternalErrorIs500(t *testing.T) {
	stub := &stubSearchService{searchErr: service.ErrSearchFailed}
	r := setupRouter(stub, &stubAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=cattle", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestTrackEndpoint(t *testing.T) {
	analytics := &stubAnalyticsService{}
	r := setupRouter(&stubSearchService{}, analytics)

	body := `{"search_term":"cattle","result_count":7}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if analytics.searches != 1 {
		t.Errorf("searches recorded = %d, want 1", analytics.searches)
	}

	// 带点击数据走点击记录
	body = `{"search_term":"cattle","click_data":{"content_id":"65f1","content_type":"article","position":2}}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if analytics.clicks != 1 {
		t.Errorf("clicks recorded = %d, want 1", analytics.clicks)
	}
}

func TestTrackEndpointRejectsMissingTerm(t *testing.T) {
	r := setupRouter(&stubSearchService{}, &stubAnalyticsService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/track", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMetaEndpoints(t *testing.T) {
	r := setupRouter(&stubSearchService{}, &stubAnalyticsService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meta/categories/article", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Data struct {
			Categories []string `json:"categories"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data.Categories) != 1 {
		t.Errorf("categories = %v", resp.Data.Categories)
	}

	// 未知内容类型是客户端错误
	req = httptest.NewRequest(http.MethodGet, "/api/v1/meta/tags/podcast", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyticsEndpointRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHTTPHandler(&stubSearchService{}, &stubAnalyticsService{}, logger.NewNopLogger())
	h.RegisterRoutes(r, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	// 同一引擎上公开端点不受鉴权影响
	req = httptest.NewRequest(http.MethodGet, "/api/v1/search/suggestions?query=ca", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("public endpoint status = %d, want 200", w.Code)
	}
}
