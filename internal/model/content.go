package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentItem 统一内容文档
//
// 所有内容变体共用一个文档形状，列不适用的字段留空。
// 检索核心只读，写入由内容管理端完成。
type ContentItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	Published   bool               `bson:"published" json:"published"`
	PublishedAt *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	ViewCount   int64              `bson:"view_count,omitempty" json:"view_count,omitempty"`
	ImageRef    string             `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
}

// VariantDescriptor 内容变体描述符
//
// 联邦检索按描述符注册表分发查询，避免按字符串反射分发。
type VariantDescriptor struct {
	Name           string // 内容类型标识
	Collection     string // MongoDB集合名
	HasTags        bool   // 是否带标签
	HasViews       bool   // 是否统计浏览量
	HasDescription bool   // 是否带独立描述字段
	HasCategory    bool   // 是否带分类
}

// Variants 全部已知内容变体，顺序即默认检索顺序
var Variants = []VariantDescriptor{
	{Name: ContentTypeArticle, Collection: "articles", HasTags: true, HasViews: true, HasCategory: true},
	{Name: ContentTypeNews, Collection: "news", HasTags: true, HasViews: true, HasCategory: true},
	{Name: ContentTypeEvent, Collection: "events", HasTags: true, HasViews: false, HasDescription: true, HasCategory: true},
	{Name: ContentTypeFarm, Collection: "farms", HasTags: false, HasViews: false, HasDescription: true, HasCategory: true},
	{Name: ContentTypeMagazine, Collection: "magazines", HasTags: false, HasViews: true, HasDescription: true},
	{Name: ContentTypeCattleGuide, Collection: "cattle_guides", HasTags: true, HasViews: true, HasCategory: true},
	{Name: ContentTypeGoatGuide, Collection: "goat_guides", HasTags: true, HasViews: true, HasCategory: true},
	{Name: ContentTypeSheepGuide, Collection: "sheep_guides", HasTags: true, HasViews: true, HasCategory: true},
	{Name: ContentTypePoultryGuide, Collection: "poultry_guides", HasTags: true, HasViews: true, HasCategory: true},
}

// VariantByName 按名称查找变体描述符
func VariantByName(name string) (VariantDescriptor, bool) {
	for _, v := range Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantDescriptor{}, false
}

// IsValidContentType 校验内容类型
func IsValidContentType(name string) bool {
	_, ok := VariantByName(name)
	return ok
}
