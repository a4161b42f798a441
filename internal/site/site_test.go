package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	root := t.TempDir()
	content := "title: My Site\ndefault_language: en\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.Title != "My Site" || s.DefaultLanguage != "en" {
		t.Errorf("unexpected site config: %+v", s)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("missing site config should be an error")
	}
}

func TestLoad_missingDefaultLanguage(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("title: X\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); err == nil {
		t.Fatal("missing default_language should be an error")
	}
}
