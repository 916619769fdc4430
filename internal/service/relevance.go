package service

import (
	"regexp"
	"strings"
)

// 分层相关性评分常量
const (
	scoreExactMatch    = 100.0
	scorePrefixMatch   = 80.0
	scoreBoundaryMatch = 70.0
	scoreContainsMatch = 60.0
	scoreSimilarityCap = 40.0
)

// relevanceScore 候选文本对查询的相关性评分，范围[0,100]
//
// 规则按序评估，先命中先定分：完全相等 > 前缀 > 词边界 > 子串。
// 全部未命中时退化为编辑距离相似度，封顶40分。
func relevanceScore(candidate, query string) float64 {
	c := strings.ToLower(strings.TrimSpace(candidate))
	q := strings.ToLower(strings.TrimSpace(query))
	if c == "" || q == "" {
		return 0
	}

	if c == q {
		return scoreExactMatch
	}
	if strings.HasPrefix(c, q) {
		return scorePrefixMatch
	}
	if matched, _ := regexp.MatchString(`\b`+regexp.QuoteMeta(q), c); matched {
		return scoreBoundaryMatch
	}
	if strings.Contains(c, q) {
		return scoreContainsMatch
	}

	maxLen := len(c)
	if len(q) > maxLen {
		maxLen = len(q)
	}
	similarity := float64(maxLen-levenshtein(c, q)) / float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}
	return similarity * scoreSimilarityCap
}

// levenshtein 经典动态规划编辑距离，插入/删除/替换代价均为1
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	table := make([][]int, len(rb)+1)
	for i := range table {
		table[i] = make([]int, len(ra)+1)
	}

	for i := 0; i <= len(rb); i++ {
		table[i][0] = i
	}
	for j := 0; j <= len(ra); j++ {
		table[0][j] = j
	}

	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				table[i][j] = table[i-1][j-1]
			} else {
				table[i][j] = 1 + minOf(table[i-1][j], table[i][j-1], table[i-1][j-1])
			}
		}
	}

	return table[len(rb)][len(ra)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
