package resolve

import (
	"path/filepath"
	"testing"
)

func TestLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/content/docs/page.md", "en"},
		{"/content/docs/page.fr.md", "fr"},
		{"/content/docs/page.de.md", "de"},
		{"/content/docs/my.page.md", "page"}, // rejected later by validation
	}
	for _, tt := range tests {
		if got := Language(tt.path, "en"); got != tt.want {
			t.Errorf("Language(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRootPath(t *testing.T) {
	root := filepath.Join("/content", "docs", "page.md")
	variant := filepath.Join("/content", "docs", "page.fr.md")

	if got := RootPath(root, "en", "en"); got != root {
		t.Errorf("default-language file should be its own root, got %q", got)
	}
	if got := RootPath(variant, "fr", "en"); got != root {
		t.Errorf("RootPath(%q) = %q, want %q", variant, got, root)
	}
}

func TestRootPath_idempotent(t *testing.T) {
	path := filepath.Join("/content", "docs", "page.md")
	lang := Language(path, "en")
	once := RootPath(path, lang, "en")
	twice := RootPath(once, Language(once, "en"), "en")
	if once != twice {
		t.Errorf("root path resolution is not idempotent: %q vs %q", once, twice)
	}
}

func TestRootPath_siblingsShareRoot(t *testing.T) {
	a := filepath.Join("/c", "page.md")
	b := filepath.Join("/c", "page.fr.md")
	c := filepath.Join("/c", "page.de.md")
	rootA := RootPath(a, Language(a, "en"), "en")
	rootB := RootPath(b, Language(b, "en"), "en")
	rootC := RootPath(c, Language(c, "en"), "en")
	if rootA != rootB || rootB != rootC {
		t.Errorf("siblings resolve to different roots: %q %q %q", rootA, rootB, rootC)
	}
}
