package model

import "testing"

func TestVariantByName(t *testing.T) {
	for _, v := range Variants {
		got, ok := VariantByName(v.Name)
		if !ok || got.Collection != v.Collection {
			t.Errorf("VariantByName(%q) = %+v, %v", v.Name, got, ok)
		}
	}

	if _, ok := VariantByName("podcast"); ok {
		t.Errorf("unknown variant should not resolve")
	}
}

func TestVariantCount(t *testing.T) {
	// 九种内容变体全部注册
	if len(Variants) != 9 {
		t.Errorf("variants = %d, want 9", len(Variants))
	}
}

func TestIsValidContentType(t *testing.T) {
	if !IsValidContentType(ContentTypeCattleGuide) {
		t.Errorf("cattle_guide should be valid")
	}
	if IsValidContentType("") || IsValidContentType("video") {
		t.Errorf("unknown types should be invalid")
	}
}

func TestIsValidSortBy(t *testing.T) {
	for _, s := range []string{SortByRelevance, SortByDate, SortByTitle, SortByViews} {
		if !IsValidSortBy(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if IsValidSortBy("price") {
		t.Errorf("unknown sort should be invalid")
	}
}
