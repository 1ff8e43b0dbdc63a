// Package pipeline provides the high-level orchestration that turns raw
// wizard input into persisted, schema-validated resume sections on a draft.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/generator"
	"github.com/jonathan/resume-wizard/internal/sections"
	"github.com/jonathan/resume-wizard/internal/types"
)

// ErrNotFound is returned by GetGeneratedSections when no draft exists for
// the key or the draft belongs to a different user. The two cases are
// deliberately indistinguishable so that draft existence never leaks across
// users.
var ErrNotFound = errors.New("draft not found")

// ErrVersionConflict is returned when a full-draft generation loses the race
// against another generation run for the same draft.
var ErrVersionConflict = errors.New("draft is already being regenerated")

// GenerateParams holds one generation request.
type GenerateParams struct {
	UserID    uuid.UUID
	RequestID string
	Input     *types.WizardInput
	Mode      types.GenerationMode

	// Overrides carries user-edited payloads by section type. An override
	// takes precedence over the generated value in the section's effective
	// output; sections without an entry keep any previously stored override.
	Overrides map[types.SectionType]json.RawMessage
}

// Orchestrator sequences section generation over a draft.
type Orchestrator struct {
	drafts   *draft.Manager
	sections *sections.Repository
	gen      generator.Generator
	logger   *zap.Logger
}

// New creates an orchestrator.
func New(drafts *draft.Manager, repo *sections.Repository, gen generator.Generator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		drafts:   drafts,
		sections: repo,
		gen:      gen,
		logger:   logger,
	}
}

// GenerateSection generates a single section for the draft and returns its
// effective output. Single-section calls are status-neutral: only the
// all-sections path drives draft status.
func (o *Orchestrator) GenerateSection(ctx context.Context, p GenerateParams, sectionType types.SectionType) (json.RawMessage, error) {
	d, err := o.drafts.GetOrCreate(ctx, p.UserID, p.RequestID)
	if err != nil {
		return nil, err
	}

	output, err := o.generateOne(ctx, d.ID, sectionType, p)
	if err != nil {
		return nil, err
	}
	return output.Effective, nil
}

// GenerateAll generates every section in the fixed order, driving the draft
// through generating → ready, or generating → error when a section fails.
// A concurrent full run on the same draft is rejected with
// ErrVersionConflict rather than silently interleaving writes.
func (o *Orchestrator) GenerateAll(ctx context.Context, p GenerateParams) (map[types.SectionType]json.RawMessage, error) {
	d, err := o.drafts.GetOrCreate(ctx, p.UserID, p.RequestID)
	if err != nil {
		return nil, err
	}

	ok, err := o.drafts.MarkStatusCAS(ctx, d.ID, db.DraftStatusGenerating, d.Version)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVersionConflict
	}

	result := make(map[types.SectionType]json.RawMessage, len(types.SectionOrder))
	for _, sectionType := range types.SectionOrder {
		output, err := o.generateOne(ctx, d.ID, sectionType, p)
		if err != nil {
			// Sections already written this run stay committed; the
			// draft is left in error so callers know the run is partial.
			if statusErr := o.drafts.MarkStatus(ctx, d.ID, db.DraftStatusError); statusErr != nil {
				o.logger.Error("failed to mark draft error",
					zap.String("draft_id", d.ID.String()), zap.Error(statusErr))
			}
			return nil, fmt.Errorf("failed to generate section %s: %w", sectionType, err)
		}
		result[sectionType] = output.Effective
	}

	if err := o.drafts.MarkStatus(ctx, d.ID, db.DraftStatusReady); err != nil {
		return nil, err
	}

	o.logger.Info("generated all sections",
		zap.String("draft_id", d.ID.String()),
		zap.Int("sections", len(result)))
	return result, nil
}

// RegenerateAllWithOverrides is the forced full regeneration entry point.
// Generation always recomputes every section, so force currently adds no
// skip-bypass; the name exists so dirty-draft call sites read as what they
// are, and so the caller owns the clear-dirty-only-on-success rule. The
// orchestrator never touches the dirty flag itself.
func (o *Orchestrator) RegenerateAllWithOverrides(ctx context.Context, p GenerateParams) (map[types.SectionType]json.RawMessage, error) {
	return o.GenerateAll(ctx, p)
}

// GetGeneratedSections returns the effective output of every generated
// section of the caller's draft, or ErrNotFound when the draft is absent or
// owned by someone else.
func (o *Orchestrator) GetGeneratedSections(ctx context.Context, userID uuid.UUID, requestID string) (map[types.SectionType]json.RawMessage, error) {
	d, err := o.Draft(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	return o.sections.ReadAll(ctx, d.ID)
}

// Draft returns the caller's draft record, or ErrNotFound when the draft is
// absent or owned by someone else.
func (o *Orchestrator) Draft(ctx context.Context, userID uuid.UUID, requestID string) (*db.Draft, error) {
	d, err := o.drafts.Find(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.UserID != userID {
		return nil, ErrNotFound
	}
	return d, nil
}

// SetDirty flags the caller's draft as needing a full regeneration, or
// clears the flag. Exposed for the upstream wizard-edit path.
func (o *Orchestrator) SetDirty(ctx context.Context, userID uuid.UUID, requestID string, dirty bool) error {
	d, err := o.Draft(ctx, userID, requestID)
	if err != nil {
		return err
	}
	return o.drafts.SetDirty(ctx, d.ID, dirty)
}

// generateOne runs normalize → validate → upsert for one section of an
// already-resolved draft.
func (o *Orchestrator) generateOne(ctx context.Context, draftID uuid.UUID, sectionType types.SectionType, p GenerateParams) (*db.SectionOutput, error) {
	mode := p.Mode
	if mode == "" {
		mode = types.ModeDefault
	}

	generated, err := o.gen.Generate(ctx, sectionType, p.Input, mode)
	if err != nil {
		return nil, err
	}

	hash, err := sections.InputHash(sectionType, p.Input)
	if err != nil {
		return nil, err
	}

	return o.sections.Upsert(ctx, sections.UpsertParams{
		DraftID:     draftID,
		SectionType: sectionType,
		Generated:   generated,
		Override:    p.Overrides[sectionType],
		GeneratorID: o.gen.ID(),
		InputHash:   hash,
		Mode:        mode,
	})
}
