package translate

import (
	"context"
	"testing"
)

func TestDictTranslatesFieldNames(t *testing.T) {
	d := NewDict()

	cases := []struct {
		text, lang, want string
	}{
		{"name", "en", "Name"},
		{"price", "en", "Price"},
		{"moq_value", "en", "MOQ"},
		{"name", "zh", "名称"},
		{"price", "zh", "价格"},
		{"name", "es", "Nombre"},
		{"free text stays as-is", "en", "free text stays as-is"},
		{"name", "fr", "name"}, // unknown language falls back to identity
	}
	for _, c := range cases {
		got, err := d.Translate(context.Background(), c.text, c.lang)
		if err != nil {
			t.Fatalf("translate %q/%q: %v", c.text, c.lang, err)
		}
		if got != c.want {
			t.Fatalf("translate %q/%q = %q, want %q", c.text, c.lang, got, c.want)
		}
	}
}

func TestDictBatchKeepsOrder(t *testing.T) {
	d := NewDict()
	got, err := d.TranslateBatch(context.Background(), []string{"name", "price"}, "en")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(got) != 2 || got[0] != "Name" || got[1] != "Price" {
		t.Fatalf("batch = %v", got)
	}
}
