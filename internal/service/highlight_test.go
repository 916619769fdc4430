package service

import (
	"strings"
	"testing"

	"agrihub/internal/model"
)

func TestHighlightTerms(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		terms []string
		want  string
	}{
		{
			"单词命中",
			"Cattle Farming Basics",
			[]string{"cattle"},
			"<mark>Cattle</mark> Farming Basics",
		},
		{
			"多词命中",
			"Cattle Farming Basics",
			[]string{"cattle", "basics"},
			"<mark>Cattle</mark> Farming <mark>Basics</mark>",
		},
		{
			"大小写不敏感且保留原文大小写",
			"CATTLE and cattle",
			[]string{"cattle"},
			"<mark>CATTLE</mark> and <mark>cattle</mark>",
		},
		{
			"未命中原样返回",
			"Goat Breeding",
			[]string{"cattle"},
			"Goat Breeding",
		},
		{
			"空词项列表",
			"Cattle Farming",
			nil,
			"Cattle Farming",
		},
		{
			"空文本",
			"",
			[]string{"cattle"},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := highlightTerms(tt.text, tt.terms, "<mark>", "</mark>")
			if got != tt.want {
				t.Errorf("highlightTerms() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHighlightTermsRegexMetaSafe(t *testing.T) {
	// 词项里的正则元字符按字面处理
	got := highlightTerms("price (per head)", []string{"(per"}, "<b>", "</b>")
	want := "price <b>(per</b> head)"
	if got != want {
		t.Errorf("highlightTerms() = %q, want %q", got, want)
	}
}

func TestMakeExcerpt(t *testing.T) {
	short := "short body"
	if got := makeExcerpt(short); got != short {
		t.Errorf("short text should pass through, got %q", got)
	}

	long := strings.Repeat("a", model.ExcerptLength+50)
	got := makeExcerpt(long)
	if len([]rune(got)) != model.ExcerptLength+3 {
		t.Errorf("excerpt rune length = %d, want %d", len([]rune(got)), model.ExcerptLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt should end with ellipsis")
	}
}

func TestMakeExcerptExactBoundary(t *testing.T) {
	exact := strings.Repeat("b", model.ExcerptLength)
	if got := makeExcerpt(exact); got != exact {
		t.Errorf("text at exact length should not be truncated")
	}
}
