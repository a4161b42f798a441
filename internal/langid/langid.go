// Package langid validates language codes and detects the language of body text.
//
// A valid code is exactly two lowercase letters, registered in the folder's
// language list, and resolvable to a known locale. Validation failures are
// fatal: there is no recoverable path for a malformed language code.
package langid

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Validate checks code against the ordered checks, short-circuiting on the
// first failure: non-empty, exactly two characters, lowercase letters,
// membership in valid, and resolvable to a known locale.
func Validate(code string, valid []string) error {
	if code == "" {
		return fmt.Errorf("language code is empty")
	}
	if len(code) != 2 {
		return fmt.Errorf("language code %q must be exactly two characters", code)
	}
	for _, c := range code {
		if c < 'a' || c > 'z' {
			return fmt.Errorf("language code %q must be two lowercase letters", code)
		}
	}
	if !contains(valid, code) {
		return fmt.Errorf("language %q is not in the configured language list %v", code, valid)
	}
	if _, err := language.ParseBase(code); err != nil {
		return fmt.Errorf("language %q does not resolve to a known locale: %w", code, err)
	}
	return nil
}

// DetectCode returns the two-letter ISO 639-1 code detected from text, or ""
// when the text is empty or the detector cannot resolve a language.
func DetectCode(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if info.Lang == -1 {
		return ""
	}
	return info.Lang.Iso6391()
}

// Matches reports whether the detected code equals declared, case-insensitively.
// An empty detected code (detector gave no resolution) never counts as a mismatch.
func Matches(detected, declared string) bool {
	if detected == "" {
		return true
	}
	return strings.EqualFold(detected, declared)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
