package dao

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrihub/internal/model"
	"agrihub/pkg/database"
	"agrihub/pkg/logger"
)

// contentDAO 内容数据访问实现（MongoDB）
type contentDAO struct {
	db     *database.MongoDB
	logger logger.Logger
}

// NewContentDAO 创建内容DAO实例
func NewContentDAO(db *database.MongoDB, log logger.Logger) ContentDAO {
	return &contentDAO{
		db:     db,
		logger: log,
	}
}

// FindPublished 查询单个变体中命中的已发布文档
func (d *contentDAO) FindPublished(ctx context.Context, variant model.VariantDescriptor, query *ContentQuery, opts *FindOptions) ([]*model.ContentItem, error) {
	filter := buildPublishedFilter(variant, query)

	findOpts := options.Find().SetSort(buildSort(opts.SortBy))
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := d.db.GetCollection(variant.Collection).Find(ctx, filter, findOpts)
	if err != nil {
		d.logger.Error(ctx, "Failed to query content collection",
			logger.F("variant", variant.Name),
			logger.F("error", err.Error()))
		return nil, fmt.Errorf("failed to query %s: %v", variant.Collection, err)
	}
	defer cursor.Close(ctx)

	var items []*model.ContentItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s results: %v", variant.Collection, err)
	}

	return items, nil
}

// CountPublished 统计单个变体中命中的已发布文档数
func (d *contentDAO) CountPublished(ctx context.Context, variant model.VariantDescriptor, query *ContentQuery) (int64, error) {
	filter := buildPublishedFilter(variant, query)

	count, err := d.db.GetCollection(variant.Collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %v", variant.Collection, err)
	}
	return count, nil
}

// FindTitleMatches 标题子串匹配，用于自动完成
func (d *contentDAO) FindTitleMatches(ctx context.Context, variant model.VariantDescriptor, partial string, limit int64) ([]*model.ContentItem, error) {
	filter := bson.M{
		"published": true,
		"title":     bson.M{"$regex": regexp.QuoteMeta(partial), "$options": "i"},
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"title": 1, "tags": 1, "created_at": 1})

	cursor, err := d.db.GetCollection(variant.Collection).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s titles: %v", variant.Collection, err)
	}
	defer cursor.Close(ctx)

	var items []*model.ContentItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s titles: %v", variant.Collection, err)
	}

	return items, nil
}

// DistinctTags 变体下已发布文档的去重标签
func (d *contentDAO) DistinctTags(ctx context.Context, variant model.VariantDescriptor) ([]string, error) {
	if !variant.HasTags {
		return nil, nil
	}

	values, err := d.db.GetCollection(variant.Collection).Distinct(ctx, "tags", bson.M{"published": true})
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct tags for %s: %v", variant.Collection, err)
	}

	return toStringSlice(values), nil
}

// DistinctCategories 变体下已发布文档的去重分类
func (d *contentDAO) DistinctCategories(ctx context.Context, variant model.VariantDescriptor) ([]string, error) {
	if !variant.HasCategory {
		return nil, nil
	}

	values, err := d.db.GetCollection(variant.Collection).Distinct(ctx, "category", bson.M{"published": true})
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct categories for %s: %v", variant.Collection, err)
	}

	return toStringSlice(values), nil
}

// toStringSlice Distinct返回值转字符串切片
func toStringSlice(values []interface{}) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}
