// Package frontmatter splits Markdown content into YAML front matter and body,
// and provides typed access to the parsed header.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Root is a parsed front-matter header. A nil Root behaves as an empty header:
// every lookup reports the key as absent.
type Root map[string]any

// Split separates content into the raw front-matter text and the document body.
// The body has leading and trailing whitespace trimmed. Content without an
// opening delimiter is returned entirely as body with an empty header.
// An opening delimiter without a closing one is an error.
func Split(content string) (header string, body string, err error) {
	if !strings.HasPrefix(content, delimiter+"\n") && !strings.HasPrefix(content, delimiter+"\r\n") {
		return "", strings.TrimSpace(content), nil
	}

	start := len(delimiter)
	if content[start] == '\r' {
		start++
	}
	start++ // consume the newline

	rest := content[start:]
	headerEnd, bodyStart := -1, 0
	for off := 0; ; {
		nl := strings.IndexByte(rest[off:], '\n')
		line, next := rest[off:], len(rest)
		if nl >= 0 {
			line, next = rest[off:off+nl], off+nl+1
		}
		if isDelimiterLine(line) {
			headerEnd, bodyStart = off, next
			break
		}
		if nl < 0 {
			break
		}
		off = next
	}
	if headerEnd < 0 {
		return "", "", fmt.Errorf("no closing front-matter delimiter")
	}

	header = strings.TrimSuffix(strings.TrimSuffix(rest[:headerEnd], "\n"), "\r")
	return header, strings.TrimSpace(rest[bodyStart:]), nil
}

// isDelimiterLine reports whether line is exactly the delimiter. Lines that
// merely start with it, like "----" or "---foo", are header content.
func isDelimiterLine(line string) bool {
	return strings.TrimSuffix(line, "\r") == delimiter
}

// Parse unmarshals raw front-matter text into a Root. Empty input yields an
// empty Root rather than an error.
func Parse(header string) (Root, error) {
	if strings.TrimSpace(header) == "" {
		return Root{}, nil
	}
	var root Root
	if err := yaml.Unmarshal([]byte(header), &root); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if root == nil {
		root = Root{}
	}
	return root, nil
}

// Contains reports whether key exists in the header.
func (r Root) Contains(key string) bool {
	_, ok := r[key]
	return ok
}

// GetString returns the scalar value under key as a string, or "" if the key
// is absent or holds a non-scalar value.
func (r Root) GetString(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case int, int64, float64, bool:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

// GetList returns the sequence under key as strings, preserving order.
// Absent keys and scalar values yield nil.
func (r Root) GetList(key string) []string {
	v, ok := r[key]
	if !ok {
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]string, 0, len(seq))
	for _, it := range seq {
		items = append(items, fmt.Sprint(it))
	}
	return items
}
