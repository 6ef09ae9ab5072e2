// Package provider implements the external translation and refinement
// collaborators.
package provider

import "github.com/artealabs/htseg"

// Provider is an alias to the main package interface.
type Provider = htseg.Provider

// Refiner is an alias to the main package interface.
type Refiner = htseg.Refiner

// Request is an alias to the main package type.
type Request = htseg.Request

// RefineRequest is an alias to the main package type.
type RefineRequest = htseg.RefineRequest
