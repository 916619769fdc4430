package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"agrihub/internal/dao"
	"agrihub/internal/model"
	"agrihub/pkg/logger"
)

// 异步任务类型
const (
	jobKindSearch = "search"
	jobKindClick  = "click"
)

// analyticsJob 分析写入任务
type analyticsJob struct {
	kind        string
	term        string
	resultCount int64
	meta        model.RequesterMeta
	contentID   string
	contentType string
	position    int
}

// analyticsService 搜索分析服务实现
//
// 写入走有界队列加单个后台worker：记录动作永不阻塞搜索响应路径，
// 队列打满时丢弃并告警。写入失败只记日志。
type analyticsService struct {
	dao       dao.AnalyticsDAO
	logger    logger.Logger
	jobs      chan analyticsJob
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAnalyticsService 创建搜索分析服务实例
func NewAnalyticsService(analyticsDAO dao.AnalyticsDAO, queueSize int, log logger.Logger) AnalyticsService {
	if queueSize <= 0 {
		queueSize = 1024
	}
	s := &analyticsService{
		dao:    analyticsDAO,
		logger: log,
		jobs:   make(chan analyticsJob, queueSize),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// RecordSearch 异步记录一次搜索
func (s *analyticsService) RecordSearch(term string, resultCount int64, meta model.RequesterMeta) {
	term = normalizeTerm(term)
	if term == "" {
		return
	}
	s.enqueue(analyticsJob{
		kind:        jobKindSearch,
		term:        term,
		resultCount: resultCount,
		meta:        meta,
	})
}

// RecordClick 异步记录一次结果点击
func (s *analyticsService) RecordClick(term, contentID, contentType string, position int) {
	term = normalizeTerm(term)
	if term == "" || contentID == "" {
		return
	}
	s.enqueue(analyticsJob{
		kind:        jobKindClick,
		term:        term,
		contentID:   contentID,
		contentType: contentType,
		position:    position,
	})
}

// enqueue 非阻塞入队，队列满时丢弃
func (s *analyticsService) enqueue(job analyticsJob) {
	select {
	case s.jobs <- job:
	default:
		s.logger.Warn(context.Background(), "Analytics queue full, dropping record",
			logger.F("kind", job.kind),
			logger.F("term", job.term))
	}
}

// worker 后台消费分析任务
func (s *analyticsService) worker() {
	defer s.wg.Done()

	for job := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		var err error
		switch job.kind {
		case jobKindSearch:
			err = s.dao.UpsertSearch(ctx, job.term, job.resultCount, job.meta)
		case jobKindClick:
			err = s.dao.RecordClick(ctx, job.term, job.contentID, job.contentType, job.position)
		}
		if err != nil {
			// 分析写入失败只记日志，绝不影响搜索
			s.logger.Warn(ctx, "Analytics write failed",
				logger.F("kind", job.kind),
				logger.F("term", job.term),
				logger.F("error", err.Error()))
		}

		cancel()
	}
}

// Report 聚合分析报表
func (s *analyticsService) Report(ctx context.Context, window model.AnalyticsWindow) (*model.AnalyticsReport, error) {
	if window.End.IsZero() {
		window.End = time.Now()
	}
	if window.Start.IsZero() {
		window.Start = window.End.AddDate(0, 0, -30)
	}
	if window.Limit <= 0 {
		window.Limit = 10
	}

	top, err := s.dao.TopSearches(ctx, window)
	if err != nil {
		return nil, ErrAnalyticsFailed.WithDetails(err.Error())
	}
	trends, err := s.dao.SearchTrends(ctx, window)
	if err != nil {
		return nil, ErrAnalyticsFailed.WithDetails(err.Error())
	}
	zero, err := s.dao.ZeroResultSearches(ctx, window)
	if err != nil {
		return nil, ErrAnalyticsFailed.WithDetails(err.Error())
	}
	summary, err := s.dao.Summary(ctx, window)
	if err != nil {
		return nil, ErrAnalyticsFailed.WithDetails(err.Error())
	}

	return &model.AnalyticsReport{
		TopSearches:       top,
		SearchTrends:      trends,
		ZeroResultResults: zero,
		Summary:           summary,
	}, nil
}

// TopSearchTerms 热门搜索词记录
func (s *analyticsService) TopSearchTerms(ctx context.Context, limit int) ([]*model.SearchAnalytics, error) {
	return s.dao.TopTerms(ctx, limit)
}

// RecentSearchTerms 最近搜索中前缀命中的记录
func (s *analyticsService) RecentSearchTerms(ctx context.Context, partial string, limit int) ([]*model.SearchAnalytics, error) {
	return s.dao.RecentMatching(ctx, normalizeTerm(partial), limit)
}

// Close 停止后台写入并等待队列排空
func (s *analyticsService) Close() {
	s.closeOnce.Do(func() {
		close(s.jobs)
	})
	s.wg.Wait()
}

// normalizeTerm 词项规范化：小写、去首尾空白
func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
