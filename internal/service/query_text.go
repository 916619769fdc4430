package service

import (
	"regexp"
	"strings"

	"agrihub/internal/model"
)

// nonWordPattern 非词字符，规范化时替换为空格
var nonWordPattern = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeQuery 清洗原始查询
//
// 小写、去标点、压缩空白、切词。短于3字符的词项不进入联邦检索短语，
// 完整短语保留用于精确/前缀比较。输入为空或全为标点时返回空查询。
func normalizeQuery(raw string) model.NormalizedQuery {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(raw), " ")
	terms := strings.Fields(cleaned)
	if len(terms) == 0 {
		return model.NormalizedQuery{}
	}

	indexTerms := make([]string, 0, len(terms))
	for _, term := range terms {
		if len(term) >= model.MinIndexTermLen {
			indexTerms = append(indexTerms, term)
		}
	}

	return model.NormalizedQuery{
		Phrase:      strings.Join(terms, " "),
		Terms:       terms,
		IndexPhrase: strings.Join(indexTerms, " "),
	}
}

// expandFuzzyTerms 对全部词项做模糊扩展并去重
func expandFuzzyTerms(terms []string) []string {
	seen := make(map[string]struct{})
	var patterns []string
	for _, term := range terms {
		for _, p := range expandTerm(term) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// expandTerm 生成单个词项的容错变体
//
// 输出为正则安全的匹配模式，上限5个，始终包含原词。这是启发式
// 拼写容错，不是完整的编辑距离枚举：短词扩展噪声过大，原样通过。
//
// 变体：原词、首二字符换位、尾字符删除、后缀通配、第2位起的单字符通配。
func expandTerm(term string) []string {
	runes := []rune(term)
	if len(runes) < model.MinFuzzyTermLen {
		return []string{regexp.QuoteMeta(term)}
	}

	variants := make([]string, 0, model.MaxFuzzyVariants)
	add := func(pattern string) {
		if len(variants) >= model.MaxFuzzyVariants {
			return
		}
		for _, v := range variants {
			if v == pattern {
				return
			}
		}
		variants = append(variants, pattern)
	}

	// 原词
	add(regexp.QuoteMeta(term))

	// 相邻字符换位（位置0和1互换）
	swapped := make([]rune, len(runes))
	copy(swapped, runes)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	add(regexp.QuoteMeta(string(swapped)))

	// 尾字符删除
	add(regexp.QuoteMeta(string(runes[:len(runes)-1])))

	// 后缀通配
	add(regexp.QuoteMeta(term) + ".*")

	// 第2位起插入单字符通配，容忍漏字/错字
	add(regexp.QuoteMeta(string(runes[:2])) + "." + regexp.QuoteMeta(string(runes[2:])))

	return variants
}
