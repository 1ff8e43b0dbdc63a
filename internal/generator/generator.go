// Package generator defines the pluggable content-generation port used by the
// draft pipeline, together with its deterministic local implementation.
package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-wizard/internal/normalize"
	"github.com/jonathan/resume-wizard/internal/schemas"
	"github.com/jonathan/resume-wizard/internal/types"
)

// Generator produces a schema-shaped payload for one section from the raw
// wizard input. Implementations must return output that passes the section
// type's schema; the pipeline persists nothing that fails validation.
//
// The context is unused by the local implementation but is part of the
// contract so that a model-backed generator can honor deadlines.
type Generator interface {
	// ID identifies the generator and its revision, recorded on every
	// SectionOutput it produced.
	ID() string

	// Generate returns the section's generated payload as JSON.
	Generate(ctx context.Context, sectionType types.SectionType, in *types.WizardInput, mode types.GenerationMode) (json.RawMessage, error)
}

// localID is recorded on sections produced by the local generator. Bump the
// revision when normalization heuristics change shape.
const localID = "local/v1"

// Local is the deterministic generator: it normalizes the section's input
// slice and validates the result against the section schema. The generation
// mode is recorded but does not alter the canonical payload.
type Local struct{}

// NewLocal creates the deterministic local generator.
func NewLocal() *Local {
	return &Local{}
}

// ID returns the local generator identifier.
func (l *Local) ID() string {
	return localID
}

// Generate normalizes and validates one section.
func (l *Local) Generate(_ context.Context, sectionType types.SectionType, in *types.WizardInput, _ types.GenerationMode) (json.RawMessage, error) {
	payload, err := normalize.Section(sectionType, in)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal section %s: %w", sectionType, err)
	}

	if err := schemas.ValidateSection(sectionType, raw); err != nil {
		return nil, err
	}

	return raw, nil
}
