package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agrihub/internal/model"
	"agrihub/pkg/database"
	"agrihub/pkg/logger"
)

// analyticsDAO 搜索分析数据访问对象（PostgreSQL）
type analyticsDAO struct {
	db     *database.PostgreSQL
	logger logger.Logger
}

// NewAnalyticsDAO 创建搜索分析DAO实例
func NewAnalyticsDAO(db *database.PostgreSQL, log logger.Logger) AnalyticsDAO {
	return &analyticsDAO{
		db:     db,
		logger: log,
	}
}

// UpsertSearch 记录一次搜索
//
// 同一规范化词项并发写入依赖ON CONFLICT原子累加，不产生重复记录。
func (d *analyticsDAO) UpsertSearch(ctx context.Context, term string, resultCount int64, meta model.RequesterMeta) error {
	now := time.Now()
	record := &model.SearchAnalytics{
		SearchTerm:    term,
		SearchCount:   1,
		ResultCount:   resultCount,
		TotalResults:  resultCount,
		UserAgent:     meta.UserAgent,
		ClientIP:      meta.ClientIP,
		SessionID:     meta.SessionID,
		FirstSearched: now,
		LastSearched:  now,
	}

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "search_term"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count":  gorm.Expr("search_analytics.search_count + 1"),
			"total_results": gorm.Expr("search_analytics.total_results + ?", resultCount),
			"result_count":  resultCount,
			"user_agent":    meta.UserAgent,
			"client_ip":     meta.ClientIP,
			"session_id":    meta.SessionID,
			"last_searched": now,
		}),
	}).Create(record).Error
	if err != nil {
		d.logger.Error(ctx, "Failed to upsert search analytics",
			logger.F("term", term),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to upsert search analytics: %v", err)
	}

	return nil
}

// RecordClick 追加一次结果点击
func (d *analyticsDAO) RecordClick(ctx context.Context, term, contentID, contentType string, position int) error {
	db := d.db.WithContext(ctx)

	// 点击先于搜索记录到达时补建词项记录
	record := &model.SearchAnalytics{
		SearchTerm:    term,
		SearchCount:   1,
		FirstSearched: time.Now(),
		LastSearched:  time.Now(),
	}
	if err := db.Where("search_term = ?", term).FirstOrCreate(record).Error; err != nil {
		return fmt.Errorf("failed to find analytics record: %v", err)
	}

	click := &model.SearchClick{
		AnalyticsID: record.ID,
		ContentID:   contentID,
		ContentType: contentType,
		Position:    position,
		ClickedAt:   time.Now(),
	}
	if err := db.Create(click).Error; err != nil {
		d.logger.Error(ctx, "Failed to record click",
			logger.F("term", term),
			logger.F("content_id", contentID),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to record click: %v", err)
	}

	return nil
}

// TopSearches 按搜索次数降序的热门词项
func (d *analyticsDAO) TopSearches(ctx context.Context, window model.AnalyticsWindow) ([]*model.TermStats, error) {
	var stats []*model.TermStats

	err := d.db.WithContext(ctx).
		Model(&model.SearchAnalytics{}).
		Select("search_term AS term, search_count AS count, total_results::float / search_count AS avg_result_count, last_searched").
		Where("last_searched BETWEEN ? AND ?", window.Start, window.End).
		Order("search_count DESC").
		Limit(window.Limit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top searches: %v", err)
	}

	return stats, nil
}

// SearchTrends 按日聚合的搜索趋势
func (d *analyticsDAO) SearchTrends(ctx context.Context, window model.AnalyticsWindow) ([]*model.TrendPoint, error) {
	var points []*model.TrendPoint

	err := d.db.WithContext(ctx).
		Model(&model.SearchAnalytics{}).
		Select("to_char(last_searched::date, 'YYYY-MM-DD') AS date, SUM(search_count) AS search_count, COUNT(*) AS unique_terms").
		Where("last_searched BETWEEN ? AND ?", window.Start, window.End).
		Group("last_searched::date").
		Order("date").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get search trends: %v", err)
	}

	return points, nil
}

// ZeroResultSearches 零结果搜索记录
func (d *analyticsDAO) ZeroResultSearches(ctx context.Context, window model.AnalyticsWindow) ([]*model.SearchAnalytics, error) {
	var records []*model.SearchAnalytics

	err := d.db.WithContext(ctx).
		Where("result_count = 0 AND last_searched BETWEEN ? AND ?", window.Start, window.End).
		Order("search_count DESC").
		Limit(window.Limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get zero result searches: %v", err)
	}

	return records, nil
}

// Summary 汇总统计
func (d *analyticsDAO) Summary(ctx context.Context, window model.AnalyticsWindow) (*model.AnalyticsSummary, error) {
	summary := &model.AnalyticsSummary{}
	db := d.db.WithContext(ctx)

	row := db.Model(&model.SearchAnalytics{}).
		Select("COALESCE(SUM(search_count), 0) AS total_searches, COUNT(*) AS unique_terms, COUNT(*) FILTER (WHERE result_count = 0) AS zero_result_terms").
		Where("last_searched BETWEEN ? AND ?", window.Start, window.End).
		Row()
	if err := row.Scan(&summary.TotalSearches, &summary.UniqueTerms, &summary.ZeroResultTerms); err != nil {
		return nil, fmt.Errorf("failed to get analytics summary: %v", err)
	}

	if err := db.Model(&model.SearchClick{}).
		Where("clicked_at BETWEEN ? AND ?", window.Start, window.End).
		Count(&summary.TotalClicks).Error; err != nil {
		return nil, fmt.Errorf("failed to count clicks: %v", err)
	}

	return summary, nil
}

// RecentMatching 最近搜索中词项前缀命中的记录
func (d *analyticsDAO) RecentMatching(ctx context.Context, partial string, limit int) ([]*model.SearchAnalytics, error) {
	var records []*model.SearchAnalytics

	err := d.db.WithContext(ctx).
		Where("search_term LIKE ?", partial+"%").
		Order("last_searched DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent searches: %v", err)
	}

	return records, nil
}

// TopTerms 全量热门词项记录
func (d *analyticsDAO) TopTerms(ctx context.Context, limit int) ([]*model.SearchAnalytics, error) {
	var records []*model.SearchAnalytics

	err := d.db.WithContext(ctx).
		Order("search_count DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top terms: %v", err)
	}

	return records, nil
}
