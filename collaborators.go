package htseg

import "context"

// Provider is the interface to the external machine-translation
// collaborator. The core treats a call as an opaque synchronous operation
// returning one translation per input text, in order, or failing.
type Provider interface {
	Translate(ctx context.Context, req Request) ([]string, error)
}

// Request contains the parameters for a machine-translation call.
type Request struct {
	Texts      []string
	SourceLang string
	TargetLang string
}

// Refiner is the interface to the external refinement collaborator: it
// reviews machine translations against their sources and sentence context
// and returns improved translations keyed by segment id. Ids omitted from
// the result keep their current translation.
type Refiner interface {
	Refine(ctx context.Context, req RefineRequest) (map[string]string, error)
}

// RefineRequest carries the segments to review.
type RefineRequest struct {
	Items         []RefineItem
	PrimaryLang   string
	SecondaryLang string
	TargetLang    string
}

// RefineItem is one segment under review.
type RefineItem struct {
	ID          string
	Source      string
	Translation string
	Sentences   []string // sentence decomposition of Source, for local context
}
