package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/artealabs/htseg"
)

func refineReq() RefineRequest {
	return RefineRequest{
		Items: []htseg.RefineItem{
			{
				ID:          "SEG_12_T0",
				Source:      "Welcome to our site. We are glad you are here.",
				Translation: "Bienvenue sur notre site. Nous sommes heureux.",
				Sentences:   []string{"Welcome to our site.", "We are glad you are here."},
			},
			{
				ID:          "SEG_15_A_alt",
				Source:      "Company logo",
				Translation: "Logo de l'entreprise",
				Sentences:   []string{"Company logo"},
			},
		},
		PrimaryLang: "en",
		TargetLang:  "fr",
	}
}

func TestRefinePrompt(t *testing.T) {
	prompt := refinePrompt(refineReq())

	if !strings.Contains(prompt, "English") {
		t.Error("Prompt should name the primary source language")
	}
	if !strings.Contains(prompt, "French") {
		t.Error("Prompt should name the target language")
	}
	if !strings.Contains(prompt, "Never omit an entry") {
		t.Error("Prompt should forbid omitting entries")
	}
}

func TestRefinePrompt_SecondaryLang(t *testing.T) {
	req := refineReq()
	req.SecondaryLang = "de"

	prompt := refinePrompt(req)
	if !strings.Contains(prompt, "German") {
		t.Error("Prompt should name the secondary source language")
	}
}

func TestRefineInput(t *testing.T) {
	input := refineInput(refineReq())

	if !strings.Contains(input, "SEG_12_T0") {
		t.Error("Input should contain segment ids")
	}
	if !strings.Contains(input, "source: Welcome to our site. We are glad you are here.") {
		t.Error("Input should contain source text")
	}
	if !strings.Contains(input, "current: Bienvenue sur notre site.") {
		t.Error("Input should contain current translation")
	}
	// Multi-sentence segments carry their sentence context.
	if !strings.Contains(input, "context: Welcome to our site. | We are glad you are here.") {
		t.Errorf("Input should contain sentence context, got:\n%s", input)
	}
	// Single-sentence segments do not.
	if strings.Contains(input, "context: Company logo") {
		t.Error("Single-sentence segment should not carry a context line")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": "b"}`, `{"a": "b"}`},
		{"```json\n{\"a\": \"b\"}\n```", `{"a": "b"}`},
		{"```\n{\"a\": \"b\"}\n```", `{"a": "b"}`},
	}

	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMockRefiner(t *testing.T) {
	m := &MockRefiner{
		Refinements: map[string]string{
			"SEG_12_T0": "Bienvenue sur notre site. Nous sommes ravis de vous voir.",
		},
	}

	result, err := m.Refine(context.Background(), refineReq())
	if err != nil {
		t.Fatalf("MockRefiner.Refine failed: %v", err)
	}

	if result["SEG_12_T0"] != "Bienvenue sur notre site. Nous sommes ravis de vous voir." {
		t.Errorf("Expected configured refinement, got %q", result["SEG_12_T0"])
	}
	// Unconfigured ids keep their current translation.
	if result["SEG_15_A_alt"] != "Logo de l'entreprise" {
		t.Errorf("Expected passthrough for unconfigured id, got %q", result["SEG_15_A_alt"])
	}
	if m.CallCount != 1 {
		t.Errorf("Expected CallCount 1, got %d", m.CallCount)
	}
}
