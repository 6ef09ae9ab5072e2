package provider

import (
	"context"
	"fmt"
)

// MockProvider is a mock machine-translation collaborator for testing.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation
	Err          error             // Error to return, if any
	CallCount    int               // Number of times Translate was called
	LastRequest  *Request          // Last request received
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                "Bonjour",
			"Hello World":          "Bonjour le monde",
			"Company logo":         "Logo de l'entreprise",
			"Welcome to our site.": "Bienvenue sur notre site.",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req Request) ([]string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			// Bracketed text for unknown translations
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}
	return results, nil
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// MockRefiner is a mock refinement collaborator for testing.
type MockRefiner struct {
	Refinements map[string]string // Map of segment id to refined translation
	Err         error             // Error to return, if any
	CallCount   int
	LastRequest *RefineRequest
}

// Refine returns the configured refinement for each item, falling back to
// the current translation like the real collaborator.
func (m *MockRefiner) Refine(ctx context.Context, req RefineRequest) (map[string]string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]string, len(req.Items))
	for _, item := range req.Items {
		if refined, ok := m.Refinements[item.ID]; ok {
			out[item.ID] = refined
		} else {
			out[item.ID] = item.Translation
		}
	}
	return out, nil
}

// Verify mocks implement the collaborator interfaces
var (
	_ Provider = (*MockProvider)(nil)
	_ Refiner  = (*MockRefiner)(nil)
)
