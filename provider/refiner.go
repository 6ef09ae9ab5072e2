package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/artealabs/htseg"
)

// OpenAIRefiner implements the refinement collaborator: it reviews
// (source, machine translation) pairs with their sentence context and
// returns improved translations keyed by segment id. Ids the model omits
// keep their current translation, so the result always covers every item.
type OpenAIRefiner struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIRefiner creates a new OpenAI refiner.
func NewOpenAIRefiner(cfg OpenAIConfig) *OpenAIRefiner {
	client, model, temperature := newClient(cfg)
	return &OpenAIRefiner{client: client, model: model, temperature: temperature}
}

// Refine implements Refiner.
func (r *OpenAIRefiner) Refine(ctx context.Context, req RefineRequest) (map[string]string, error) {
	if len(req.Items) == 0 {
		return map[string]string{}, nil
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: refinePrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: refineInput(req)},
		},
		Temperature: r.temperature,
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

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = stripCodeFence(content)

	var refined map[string]string
	if err := json.Unmarshal([]byte(content), &refined); err != nil {
		return nil, &htseg.ProviderError{
			Message:   "invalid response format from OpenAI",
			Cause:     err,
			Retryable: false,
		}
	}

	// Fill ids the model omitted with the current translation.
	out := make(map[string]string, len(req.Items))
	for _, item := range req.Items {
		if improved, ok := refined[item.ID]; ok && strings.TrimSpace(improved) != "" {
			out[item.ID] = improved
		} else {
			out[item.ID] = item.Translation
		}
	}
	return out, nil
}

func refinePrompt(req RefineRequest) string {
	primary := htseg.GetLanguageName(req.PrimaryLang)
	target := htseg.GetLanguageName(req.TargetLang)

	sourceLangs := fmt.Sprintf("**%s**", primary)
	if req.SecondaryLang != "" {
		sourceLangs += fmt.Sprintf(" or **%s**", htseg.GetLanguageName(req.SecondaryLang))
	}

	return fmt.Sprintf(`You are a professional translator reviewing machine translations of web content.

You will receive entries of the form:

  SEGMENT_ID
  source: original text
  current: current %s translation
  context: sentence-by-sentence breakdown of the source (when present)

For EACH entry:
1. Compare the source with the current translation.
2. If the current translation has issues (wrong meaning, awkward or overly
   literal phrasing, grammar errors, inconsistent terminology, wording that
   does not fit a UI/web context), return an improved %s translation.
3. If the current translation is accurate and natural, return it unchanged.
4. Only improve entries whose source text is in %s; for any other language
   return the current translation unchanged.
5. Never omit an entry from your response.

Output MUST be a single JSON object mapping every received SEGMENT_ID to its
improved-or-current translation:
  { "SEG_12_T0": "...", "SEG_15_A_alt": "..." }
Do NOT wrap the output in Markdown code blocks.`, target, target, sourceLangs)
}

func refineInput(req RefineRequest) string {
	var sb strings.Builder
	for _, item := range req.Items {
		sb.WriteString(item.ID)
		sb.WriteString("\nsource: ")
		sb.WriteString(strings.TrimSpace(item.Source))
		sb.WriteString("\ncurrent: ")
		sb.WriteString(strings.TrimSpace(item.Translation))
		if len(item.Sentences) > 1 {
			sb.WriteString("\ncontext: ")
			sb.WriteString(strings.Join(item.Sentences, " | "))
		}
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// stripCodeFence removes a surrounding ```json fence if the model added one
// despite the JSON response format.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	if i := strings.LastIndex(content, "```"); i >= 0 {
		content = content[:i]
	}
	return strings.TrimSpace(content)
}

// Verify OpenAIRefiner implements Refiner
var _ Refiner = (*OpenAIRefiner)(nil)
