package langid

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := []string{"en", "fr", "de"}

	for _, code := range valid {
		if err := Validate(code, valid); err != nil {
			t.Errorf("Validate(%q) should pass: %v", code, err)
		}
	}

	tests := []struct {
		name string
		code string
		want string
	}{
		{"empty", "", "empty"},
		{"too long", "eng", "exactly two characters"},
		{"too short", "e", "exactly two characters"},
		{"uppercase", "EN", "lowercase"},
		{"digit", "e1", "lowercase"},
		{"not registered", "es", "not in the configured language list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code, valid)
			if err == nil {
				t.Fatalf("Validate(%q) should fail", tt.code)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate(%q) error %q does not mention %q", tt.code, err, tt.want)
			}
		})
	}
}

func TestValidate_unknownLocale(t *testing.T) {
	// "qq" is well-formed and registered in the list but is not a known locale.
	err := Validate("qq", []string{"qq"})
	if err == nil {
		t.Fatal("Validate(qq) should fail locale resolution")
	}
	if !strings.Contains(err.Error(), "known locale") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDetectCode(t *testing.T) {
	if got := DetectCode(""); got != "" {
		t.Errorf("DetectCode(empty) = %q, want empty", got)
	}
	english := "This is a perfectly ordinary English sentence about the weather and the sea."
	if got := DetectCode(english); got != "en" {
		t.Errorf("DetectCode(english) = %q, want en", got)
	}
	german := "Dies ist ein ganz gewöhnlicher deutscher Satz über das Wetter und die Berge."
	if got := DetectCode(german); got != "de" {
		t.Errorf("DetectCode(german) = %q, want de", got)
	}
}

func TestMatches(t *testing.T) {
	if !Matches("en", "en") {
		t.Error("same code should match")
	}
	if !Matches("EN", "en") {
		t.Error("match is case-insensitive")
	}
	if !Matches("", "fr") {
		t.Error("empty detection never counts as mismatch")
	}
	if Matches("de", "fr") {
		t.Error("different codes should not match")
	}
}
