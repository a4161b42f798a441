// Package rules loads and models the per-folder rule sets that drive
// validation: which languages a folder declares, which front-matter headers
// are required, allowed list memberships, slug format, duplicate-tracked
// headers, and the body-language / spell-check toggles.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileName is the rule-set file looked for in each governed folder.
const FileName = "rules.yaml"

// SpellCheck holds the remote spell/grammar check parameters for a folder.
type SpellCheck struct {
	Enabled     bool    `yaml:"enabled"`
	Prompt      string  `yaml:"prompt"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// RuleSet is the full set of enabled checks for one governed folder.
type RuleSet struct {
	DefaultLanguage string `yaml:"default_language"`
	// Languages is the ordered set of valid language codes, default included.
	Languages []string `yaml:"languages"`
	// RequiredHeaders are front-matter keys every variant must carry non-empty.
	RequiredHeaders []string `yaml:"required_headers"`
	// RequiredLists maps list key -> language -> allowed item values.
	RequiredLists map[string]map[string][]string `yaml:"required_lists"`
	// SlugPattern must fully match a variant's slug field when present.
	SlugPattern string `yaml:"slug_pattern"`
	// DuplicateHeaders are keys whose values must be unique across the folder.
	DuplicateHeaders []string `yaml:"duplicate_headers"`
	// IgnoreFiles are base names skipped before resolution.
	IgnoreFiles []string `yaml:"ignore_files"`
	// EnforceLanguages turns on language-structure validation: every declared
	// language must be valid and every document complete across languages.
	EnforceLanguages bool `yaml:"enforce_languages"`
	// VerifyBodyLanguage enables local body-language detection. Ignored when
	// SpellCheck.Enabled is set; the two checks never both run.
	VerifyBodyLanguage bool       `yaml:"verify_body_language"`
	SpellCheck         SpellCheck `yaml:"spell_check"`

	slugRe *regexp.Regexp
}

// Load reads and parses the rule-set file at path and validates its shape.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule set: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rule set %s: %w", path, err)
	}
	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("rule set %s: %w", path, err)
	}
	if rs.SlugPattern != "" {
		re, err := regexp.Compile(anchored(rs.SlugPattern))
		if err != nil {
			return nil, fmt.Errorf("rule set %s: slug pattern %q: %w", path, rs.SlugPattern, err)
		}
		rs.slugRe = re
	}
	return &rs, nil
}

func (rs *RuleSet) validate() error {
	if rs.DefaultLanguage == "" {
		return fmt.Errorf("default_language is required")
	}
	if len(rs.Languages) == 0 {
		return fmt.Errorf("languages must not be empty")
	}
	seen := make(map[string]bool, len(rs.Languages))
	for _, lang := range rs.Languages {
		if seen[lang] {
			return fmt.Errorf("language %q is listed more than once", lang)
		}
		seen[lang] = true
	}
	if !seen[rs.DefaultLanguage] {
		return fmt.Errorf("default_language %q is not in languages %v", rs.DefaultLanguage, rs.Languages)
	}
	return nil
}

// anchored wraps pattern so matching is full-string.
func anchored(pattern string) string {
	return "^(?:" + pattern + ")$"
}

// MatchSlug reports whether slug fully matches the configured pattern.
// With no pattern configured, every slug matches.
func (rs *RuleSet) MatchSlug(slug string) bool {
	if rs.slugRe == nil {
		return true
	}
	return rs.slugRe.MatchString(slug)
}

// IsListKey reports whether key is a required-list key, which makes a required
// header of the same name list-kind instead of scalar.
func (rs *RuleSet) IsListKey(key string) bool {
	_, ok := rs.RequiredLists[key]
	return ok
}

// HasLanguage reports whether code is in the valid-language set.
func (rs *RuleSet) HasLanguage(code string) bool {
	for _, lang := range rs.Languages {
		if lang == code {
			return true
		}
	}
	return false
}

// IsIgnored reports whether the base file name is on the ignore list.
func (rs *RuleSet) IsIgnored(name string) bool {
	for _, ignored := range rs.IgnoreFiles {
		if name == ignored {
			return true
		}
	}
	return false
}

// ListKeys returns the required-list keys in a deterministic order.
func (rs *RuleSet) ListKeys() []string {
	keys := make([]string, 0, len(rs.RequiredLists))
	for key := range rs.RequiredLists {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
