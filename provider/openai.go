package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/artealabs/htseg"
)

// OpenAIConfig holds configuration shared by the OpenAI-backed collaborators.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key (uses OPENAI_API_KEY env var if empty)
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL (optional)
}

func newClient(cfg OpenAIConfig) (*openai.Client, string, float32) {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	return openai.NewClientWithConfig(config), model, temperature
}

// OpenAITranslator implements the machine-translation collaborator on
// OpenAI's chat completion API.
type OpenAITranslator struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAITranslator creates a new OpenAI translator.
func NewOpenAITranslator(cfg OpenAIConfig) *OpenAITranslator {
	client, model, temperature := newClient(cfg)
	return &OpenAITranslator{client: client, model: model, temperature: temperature}
}

// Translate translates a batch of texts, returning one translation per
// input in order.
func (p *OpenAITranslator) Translate(ctx context.Context, req Request) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	userMessage, _ := json.Marshal(req.Texts)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translatePrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &htseg.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}
	if len(resp.Choices) == 0 {
		return nil, &htseg.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseTranslations(resp.Choices[0].Message.Content, len(req.Texts))
}

func translatePrompt(req Request) string {
	source := htseg.GetLanguageName(req.SourceLang)
	if req.SourceLang == "" {
		source = "the source language"
	}
	target := htseg.GetLanguageName(req.TargetLang)

	return fmt.Sprintf(`# Role
You are an expert native translator. You translate web content from %s into idiomatic %s.

# Rules
- Translate each string faithfully; rephrase where a literal translation would sound unnatural.
- Do NOT translate HTML tags, attribute names, URLs, email addresses, or variables/placeholders (e.g. {{name}}, %%s, $1).
- Text in a language other than %s must be returned unchanged.
- Preserve meaningful whitespace and use idiomatic punctuation for the target language.

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
Do NOT wrap the output in Markdown code blocks.`, source, target, source)
}

// parseTranslations extracts the ordered translation array from a model
// response, tolerating a bare array or any object holding one.
func parseTranslations(content string, expectedCount int) ([]string, error) {
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
		// Fallback: first array value
		for _, v := range objResult {
			if arr, ok := v.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arrResult []interface{}
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &htseg.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func toStringSlice(arr []interface{}, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &htseg.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}
	return result, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAITranslator implements Provider
var _ Provider = (*OpenAITranslator)(nil)
