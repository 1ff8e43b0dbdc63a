// Package sections persists generated section outputs and merges them with
// standing user overrides into the effective payloads surfaced to readers.
package sections

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/normalize"
	"github.com/jonathan/resume-wizard/internal/types"
)

// inputHashLen is the stored hex length of the content address.
const inputHashLen = 16

// Store is the persistence surface the repository needs. *db.DB satisfies it.
type Store interface {
	FindSectionOutput(ctx context.Context, draftID uuid.UUID, sectionType string) (*db.SectionOutput, error)
	UpsertSectionOutput(ctx context.Context, input db.SectionOutputUpsert) (*db.SectionOutput, error)
	ListSectionOutputs(ctx context.Context, draftID uuid.UUID) ([]db.SectionOutput, error)
}

// Repository reads and writes section outputs for drafts.
type Repository struct {
	store Store
}

// NewRepository creates a section repository.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// InputHash computes the content address of a section's generation inputs:
// a short sha256 over the section type and the slice of the wizard input that
// section's normalization reads. Identical inputs always hash identically,
// which is what lets a skip-unchanged optimization land later without a data
// migration.
func InputHash(sectionType types.SectionType, in *types.WizardInput) (string, error) {
	slice, err := normalize.InputSlice(sectionType, in)
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(slice)
	if err != nil {
		return "", fmt.Errorf("failed to encode input slice for %s: %w", sectionType, err)
	}

	sum := sha256.Sum256(append([]byte(string(sectionType)+"\n"), encoded...))
	return hex.EncodeToString(sum[:])[:inputHashLen], nil
}

// UpsertParams holds one section write. Override is nil when the caller is
// not asserting an override; an existing stored override is preserved in
// that case. An explicit JSON null override clears the stored override, so
// users have a way to undo an edit.
type UpsertParams struct {
	DraftID     uuid.UUID
	SectionType types.SectionType
	Generated   json.RawMessage
	Override    json.RawMessage
	GeneratorID string
	InputHash   string
	Mode        types.GenerationMode
}

// Upsert writes one section's generated output, carrying forward any standing
// override, and persists effective = override ?? generated together with its
// sources in a single write.
func (r *Repository) Upsert(ctx context.Context, p UpsertParams) (*db.SectionOutput, error) {
	override := p.Override
	if override == nil {
		existing, err := r.store.FindSectionOutput(ctx, p.DraftID, string(p.SectionType))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			override = existing.Override
		}
	}
	if isJSONNull(override) {
		override = nil
	}

	effective := p.Generated
	if len(override) > 0 {
		effective = override
	}

	return r.store.UpsertSectionOutput(ctx, db.SectionOutputUpsert{
		DraftID:     p.DraftID,
		SectionType: string(p.SectionType),
		Generated:   p.Generated,
		Override:    override,
		Effective:   effective,
		InputHash:   p.InputHash,
		GeneratorID: p.GeneratorID,
		Mode:        string(p.Mode),
	})
}

// isJSONNull reports whether raw is the JSON null literal, which callers use
// to clear an override rather than set one.
func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// ReadAll returns the effective output of every section belonging to the
// draft. A stored record whose effective payload fails to parse is omitted
// from the result rather than failing the read.
func (r *Repository) ReadAll(ctx context.Context, draftID uuid.UUID) (map[types.SectionType]json.RawMessage, error) {
	outputs, err := r.store.ListSectionOutputs(ctx, draftID)
	if err != nil {
		return nil, err
	}

	result := make(map[types.SectionType]json.RawMessage, len(outputs))
	for _, output := range outputs {
		if !json.Valid(output.Effective) {
			continue
		}
		result[types.SectionType(output.SectionType)] = output.Effective
	}
	return result, nil
}
