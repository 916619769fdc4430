package dao

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"agrihub/internal/model"
)

// buildPublishedFilter 构建单个变体的检索过滤条件
//
// 形状：published=true AND (全文短语 OR 标题/正文/描述子串 OR 模糊词项) AND 可选过滤器。
// 不具备某能力的变体跳过对应条件，标签/浏览量过滤只作用于支持它们的变体。
func buildPublishedFilter(variant model.VariantDescriptor, q *ContentQuery) bson.M {
	filter := bson.M{"published": true}
	if q == nil {
		return filter
	}

	var clauses []bson.M

	// 全文索引短语匹配（title+body上的文本索引）
	if q.IndexPhrase != "" {
		clauses = append(clauses, bson.M{"$text": bson.M{"$search": q.IndexPhrase}})
	}

	// 子串匹配
	if q.Phrase != "" {
		pattern := regexp.QuoteMeta(q.Phrase)
		clauses = append(clauses,
			bson.M{"title": bson.M{"$regex": pattern, "$options": "i"}},
			bson.M{"body": bson.M{"$regex": pattern, "$options": "i"}},
		)
		if variant.HasDescription {
			clauses = append(clauses, bson.M{"description": bson.M{"$regex": pattern, "$options": "i"}})
		}
	}

	// 模糊词项只扩大召回，不参与评分
	for _, ft := range q.FuzzyTerms {
		clauses = append(clauses,
			bson.M{"title": bson.M{"$regex": ft, "$options": "i"}},
			bson.M{"body": bson.M{"$regex": ft, "$options": "i"}},
		)
	}

	if len(clauses) > 0 {
		filter["$or"] = clauses
	}

	// 创建时间范围
	if q.DateStart != nil || q.DateEnd != nil {
		dateFilter := bson.M{}
		if q.DateStart != nil {
			dateFilter["$gte"] = *q.DateStart
		}
		if q.DateEnd != nil {
			dateFilter["$lte"] = *q.DateEnd
		}
		filter["created_at"] = dateFilter
	}

	// 标签过滤：集合交集语义
	if variant.HasTags && len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}

	// 最低浏览量
	if variant.HasViews && q.MinViews != nil {
		filter["view_count"] = bson.M{"$gte": *q.MinViews}
	}

	return filter
}

// buildSort 构建排序条件
//
// relevance排序的打分在服务层完成，存储层退化为按时间倒序取候选。
func buildSort(sortBy string) bson.D {
	switch sortBy {
	case model.SortByTitle:
		return bson.D{{Key: "title", Value: 1}}
	case model.SortByViews:
		return bson.D{{Key: "view_count", Value: -1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
