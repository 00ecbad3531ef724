package categorizer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRulesValid(t *testing.T) {
	rules := DefaultRules()
	if err := rules.Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
	if len(rules) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(rules))
	}
	cats := rules.Categories()
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		if seen[c] {
			t.Fatalf("duplicate category %q", c)
		}
		seen[c] = true
	}
}

func TestLoadRules(t *testing.T) {
	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "rules.yaml")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("empty path falls back to defaults", func(t *testing.T) {
		rules, err := LoadRules("")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(rules) != len(DefaultRules()) {
			t.Fatalf("expected default taxonomy, got %d categories", len(rules))
		}
	})

	t.Run("custom file", func(t *testing.T) {
		path := writeFile(t, `
- category: Viagens
  keywords: [Voo, HOTEL, mala]
- category: Assinaturas
  keywords: [netflix, spotify]
`)
		rules, err := LoadRules(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(rules) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(rules))
		}
		// Keywords are lowercased on load so matching stays case-insensitive.
		if rules[0].Keywords[0] != "voo" || rules[0].Keywords[1] != "hotel" {
			t.Errorf("keywords not normalized: %v", rules[0].Keywords)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("category without keywords", func(t *testing.T) {
		path := writeFile(t, `
- category: Vazia
  keywords: []
`)
		if _, err := LoadRules(path); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("duplicate category", func(t *testing.T) {
		path := writeFile(t, `
- category: Lazer
  keywords: [cinema]
- category: Lazer
  keywords: [teatro]
`)
		if _, err := LoadRules(path); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "{not yaml")
		if _, err := LoadRules(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
