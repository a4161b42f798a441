// Package spellcheck submits document bodies to an OpenAI-compatible endpoint
// for spell and grammar verification. The capability is initialised once per
// governed folder that enables it, before any of that folder's documents are
// checked; any failure it reports is fatal for the run.
package spellcheck

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperjump/tadasu/internal/rules"
)

// Checker verifies a text, optionally with an expected-language hint.
// A nil error means the text passed; any error describes the failure.
type Checker interface {
	Check(ctx context.Context, text, languageHint string) error
}

// Factory builds a Checker from a folder's spell-check parameters.
type Factory func(cfg rules.SpellCheck) (Checker, error)

const defaultPrompt = "You are a proofreader. Check the following text for spelling and grammar errors" +
	" in {language}. Reply with exactly OK if the text is correct, otherwise reply with a short" +
	" description of the first problem found."

// languagePlaceholder in the prompt template is replaced by the expected
// language hint, or removed when no hint is given.
const languagePlaceholder = "{language}"

// RemoteChecker checks text through the chat-completion API.
type RemoteChecker struct {
	client      *openai.Client
	prompt      string
	model       string
	temperature float32
	maxTokens   int
}

// NewFactory returns a Factory bound to apiKey and endpoint. endpoint may be
// empty for the default OpenAI API base URL.
func NewFactory(apiKey, endpoint string) Factory {
	return func(cfg rules.SpellCheck) (Checker, error) {
		return New(apiKey, endpoint, cfg)
	}
}

// New creates a RemoteChecker for one folder's parameters.
func New(apiKey, endpoint string, cfg rules.SpellCheck) (*RemoteChecker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("spell check requires an API key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("spell check requires a model name")
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		clientCfg.BaseURL = endpoint
	}
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &RemoteChecker{
		client:      openai.NewClientWithConfig(clientCfg),
		prompt:      prompt,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Check submits text and returns nil on an OK verdict. Any transport failure
// or non-OK verdict is an error carrying the model's description.
func (c *RemoteChecker) Check(ctx context.Context, text, languageHint string) error {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildPrompt(c.prompt, languageHint)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return fmt.Errorf("spell check request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("spell check returned no choices")
	}
	verdict := strings.TrimSpace(resp.Choices[0].Message.Content)
	if isOK(verdict) {
		return nil
	}
	return fmt.Errorf("spell check rejected text: %s", verdict)
}

// buildPrompt fills the language placeholder in template. Without a hint the
// placeholder (and an immediately preceding "in ") is dropped.
func buildPrompt(template, languageHint string) string {
	if languageHint != "" {
		return strings.ReplaceAll(template, languagePlaceholder, languageHint)
	}
	template = strings.ReplaceAll(template, "in "+languagePlaceholder, "")
	template = strings.ReplaceAll(template, languagePlaceholder, "")
	return strings.Join(strings.Fields(template), " ")
}

func isOK(verdict string) bool {
	first := verdict
	if i := strings.IndexAny(verdict, "\n."); i >= 0 {
		first = verdict[:i]
	}
	return strings.EqualFold(strings.TrimSpace(first), "ok")
}
