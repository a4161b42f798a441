package spellcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/tadasu/internal/rules"
)

// fakeCompletionServer returns an httptest server that answers every
// chat-completion request with the given content.
func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestChecker(t *testing.T, endpoint string) Checker {
	t.Helper()
	checker, err := New("test-key", endpoint+"/v1", rules.SpellCheck{
		Enabled:   true,
		Model:     "test-model",
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return checker
}

func TestCheck_ok(t *testing.T) {
	srv := fakeCompletionServer(t, "OK")
	defer srv.Close()
	checker := newTestChecker(t, srv.URL)
	if err := checker.Check(context.Background(), "A fine sentence.", "en"); err != nil {
		t.Errorf("OK verdict should pass: %v", err)
	}
}

func TestCheck_okWithTrailingText(t *testing.T) {
	srv := fakeCompletionServer(t, "OK. No issues found.")
	defer srv.Close()
	checker := newTestChecker(t, srv.URL)
	if err := checker.Check(context.Background(), "A fine sentence.", ""); err != nil {
		t.Errorf("leading OK verdict should pass: %v", err)
	}
}

func TestCheck_rejected(t *testing.T) {
	srv := fakeCompletionServer(t, `"recieve" should be "receive"`)
	defer srv.Close()
	checker := newTestChecker(t, srv.URL)
	err := checker.Check(context.Background(), "We recieve mail.", "en")
	if err == nil {
		t.Fatal("non-OK verdict should fail")
	}
	if !strings.Contains(err.Error(), "recieve") {
		t.Errorf("error should carry the model's description: %v", err)
	}
}

func TestNew_requiresKeyAndModel(t *testing.T) {
	if _, err := New("", "", rules.SpellCheck{Model: "m"}); err == nil {
		t.Error("missing API key should be an error")
	}
	if _, err := New("key", "", rules.SpellCheck{}); err == nil {
		t.Error("missing model should be an error")
	}
}

func TestBuildPrompt(t *testing.T) {
	template := "Check this text in {language}."
	if got := buildPrompt(template, "fr"); got != "Check this text in fr." {
		t.Errorf("with hint: %q", got)
	}
	got := buildPrompt(template, "")
	if strings.Contains(got, "{language}") || !strings.Contains(got, "Check this text") {
		t.Errorf("without hint: %q", got)
	}
}
