// Package site loads the site-level configuration found at the content root.
package site

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the site configuration file expected at the content root.
const FileName = "site.yaml"

// Site is the site-wide configuration: a default language and a title.
// The default language participates in language-structure validation when the
// root folder itself is governed and enforces language structure.
type Site struct {
	Title           string `yaml:"title"`
	DefaultLanguage string `yaml:"default_language"`
}

// Load reads the site configuration from root. A missing or unreadable file
// is fatal: validation cannot start without the site context.
func Load(root string) (*Site, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site config %s: %w", path, err)
	}
	if s.DefaultLanguage == "" {
		return nil, fmt.Errorf("site config %s: default_language is required", path)
	}
	return &s, nil
}
