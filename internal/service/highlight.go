package service

import (
	"regexp"
	"strings"

	"agrihub/internal/model"
)

// highlightTerms 将命中词项包裹显示标记
//
// 逐词大小写不敏感替换。重复调用会产生嵌套标记，每个字段只调用一次。
func highlightTerms(text string, terms []string, preTag, postTag string) string {
	if text == "" || len(terms) == 0 {
		return text
	}

	highlighted := text
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(term) + `)`)
		if err != nil {
			continue
		}
		highlighted = re.ReplaceAllString(highlighted, preTag+"$1"+postTag)
	}
	return highlighted
}

// makeExcerpt 生成定长摘要
//
// 截断在高亮之前完成，避免把标记对拦腰截断。
func makeExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= model.ExcerptLength {
		return text
	}
	return string(runes[:model.ExcerptLength]) + "..."
}
