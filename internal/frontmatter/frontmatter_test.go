package frontmatter

import (
	"testing"
)

func TestSplit(t *testing.T) {
	content := "---\ntitle: Hello\ntags:\n  - go\n---\n\nBody text here.\n"
	header, body, err := Split(content)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if header != "title: Hello\ntags:\n  - go" {
		t.Errorf("unexpected header: %q", header)
	}
	if body != "Body text here." {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestSplit_noFrontMatter(t *testing.T) {
	header, body, err := Split("  Just a body.  \n")
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if header != "" {
		t.Errorf("expected empty header, got %q", header)
	}
	if body != "Just a body." {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestSplit_emptyFrontMatter(t *testing.T) {
	header, body, err := Split("---\n---\nBody.\n")
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if header != "" {
		t.Errorf("expected empty header, got %q", header)
	}
	if body != "Body." {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestSplit_unclosedDelimiter(t *testing.T) {
	if _, _, err := Split("---\ntitle: Hello\n"); err == nil {
		t.Fatal("expected error for unclosed front matter")
	}
}

func TestSplit_crlf(t *testing.T) {
	header, body, err := Split("---\r\ntitle: Hello\r\n---\r\nBody.")
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if header != "title: Hello" {
		t.Errorf("unexpected header: %q", header)
	}
	if body != "Body." {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestSplit_delimiterPrefixedHeaderLines(t *testing.T) {
	// Lines that merely start with "---" are header content, not the close.
	content := "---\ntitle: Hello\n----\n---foo\n---\nBody.\n"
	header, body, err := Split(content)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if header != "title: Hello\n----\n---foo" {
		t.Errorf("unexpected header: %q", header)
	}
	if body != "Body." {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestSplit_delimiterPrefixedLinesOnly(t *testing.T) {
	if _, _, err := Split("---\n----\n---foo\n"); err == nil {
		t.Fatal("expected error when no line is exactly the closing delimiter")
	}
}

func TestSplit_closingDelimiterAtEOF(t *testing.T) {
	header, body, err := Split("---\ntitle: Hello\n---")
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if header != "title: Hello" {
		t.Errorf("unexpected header: %q", header)
	}
	if body != "" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestParse_accessors(t *testing.T) {
	root, err := Parse("title: Hello\ncount: 42\ntags:\n  - go\n  - markdown\n")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !root.Contains("title") {
		t.Error("Contains(title) should be true")
	}
	if root.Contains("missing") {
		t.Error("Contains(missing) should be false")
	}
	if got := root.GetString("title"); got != "Hello" {
		t.Errorf("GetString(title) = %q", got)
	}
	if got := root.GetString("count"); got != "42" {
		t.Errorf("GetString(count) = %q", got)
	}
	if got := root.GetString("missing"); got != "" {
		t.Errorf("GetString(missing) = %q, want empty", got)
	}
	tags := root.GetList("tags")
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "markdown" {
		t.Errorf("GetList(tags) = %v", tags)
	}
	if root.GetList("title") != nil {
		t.Error("GetList on a scalar should return nil")
	}
	if root.GetList("missing") != nil {
		t.Error("GetList on a missing key should return nil")
	}
}

func TestParse_empty(t *testing.T) {
	root, err := Parse("   \n")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if root == nil {
		t.Fatal("empty input should yield an empty root, not nil")
	}
	if root.Contains("anything") {
		t.Error("empty root should contain nothing")
	}
}

func TestNilRoot(t *testing.T) {
	var root Root
	if root.Contains("x") {
		t.Error("nil root Contains should be false")
	}
	if root.GetString("x") != "" {
		t.Error("nil root GetString should be empty")
	}
	if root.GetList("x") != nil {
		t.Error("nil root GetList should be nil")
	}
}
