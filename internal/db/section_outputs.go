package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sectionOutputColumns = `id, draft_id, section_type, generated, override, effective,
	 input_hash, generator_id, mode, created_at, updated_at`

func scanSectionOutput(row pgx.Row) (*SectionOutput, error) {
	var s SectionOutput
	err := row.Scan(&s.ID, &s.DraftID, &s.SectionType, &s.Generated, &s.Override, &s.Effective,
		&s.InputHash, &s.GeneratorID, &s.Mode, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSectionOutput retrieves the section output for (draft, section type).
// Returns (nil, nil) when the section has not been generated yet.
func (db *DB) FindSectionOutput(ctx context.Context, draftID uuid.UUID, sectionType string) (*SectionOutput, error) {
	s, err := scanSectionOutput(db.pool.QueryRow(ctx,
		`SELECT `+sectionOutputColumns+` FROM section_outputs
		 WHERE draft_id = $1 AND section_type = $2`,
		draftID, sectionType,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find section output %s: %w", sectionType, err)
	}
	return s, nil
}

// UpsertSectionOutput creates or updates the section output for
// (draft, section type) in a single statement, so generated, override, and
// effective can never be observed out of sync.
func (db *DB) UpsertSectionOutput(ctx context.Context, input SectionOutputUpsert) (*SectionOutput, error) {
	s, err := scanSectionOutput(db.pool.QueryRow(ctx,
		`INSERT INTO section_outputs
		     (draft_id, section_type, generated, override, effective, input_hash, generator_id, mode)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (draft_id, section_type) DO UPDATE SET
		     generated = EXCLUDED.generated,
		     override = EXCLUDED.override,
		     effective = EXCLUDED.effective,
		     input_hash = EXCLUDED.input_hash,
		     generator_id = EXCLUDED.generator_id,
		     mode = EXCLUDED.mode,
		     updated_at = NOW()
		 RETURNING `+sectionOutputColumns,
		input.DraftID, input.SectionType, input.Generated, input.Override, input.Effective,
		input.InputHash, input.GeneratorID, input.Mode,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert section output %s: %w", input.SectionType, err)
	}
	return s, nil
}

// ListSectionOutputs retrieves every section output belonging to a draft.
func (db *DB) ListSectionOutputs(ctx context.Context, draftID uuid.UUID) ([]SectionOutput, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sectionOutputColumns+` FROM section_outputs
		 WHERE draft_id = $1 ORDER BY section_type`,
		draftID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list section outputs: %w", err)
	}
	defer rows.Close()

	var outputs []SectionOutput
	for rows.Next() {
		s, err := scanSectionOutput(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section output: %w", err)
		}
		outputs = append(outputs, *s)
	}
	return outputs, nil
}
