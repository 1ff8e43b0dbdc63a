package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FindDraftByKey retrieves a draft by its (user, request id) key.
// Returns (nil, nil) when no draft exists for the key.
func (db *DB) FindDraftByKey(ctx context.Context, userID uuid.UUID, requestID string) (*Draft, error) {
	var d Draft
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, request_id, status, dirty, version, created_at, updated_at
		 FROM drafts WHERE user_id = $1 AND request_id = $2`,
		userID, requestID,
	).Scan(&d.ID, &d.UserID, &d.RequestID, &d.Status, &d.Dirty, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find draft: %w", err)
	}
	return &d, nil
}

// CreateDraft creates a draft for the (user, request id) key, or returns the
// existing one when the key is already taken. The no-op DO UPDATE makes the
// insert idempotent under concurrent double-submits while still returning the
// surviving row.
func (db *DB) CreateDraft(ctx context.Context, userID uuid.UUID, requestID, status string) (*Draft, error) {
	var d Draft
	err := db.pool.QueryRow(ctx,
		`INSERT INTO drafts (user_id, request_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, request_id) DO UPDATE SET request_id = drafts.request_id
		 RETURNING id, user_id, request_id, status, dirty, version, created_at, updated_at`,
		userID, requestID, status,
	).Scan(&d.ID, &d.UserID, &d.RequestID, &d.Status, &d.Dirty, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return &d, nil
}

// UpdateDraftStatus sets a draft's status without any transition checking.
func (db *DB) UpdateDraftStatus(ctx context.Context, draftID uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE drafts SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, draftID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("draft not found: %s", draftID)
	}
	return nil
}

// UpdateDraftStatusCAS sets a draft's status and bumps its version, but only
// when the stored version still matches expectedVersion. Returns false when
// another writer got there first.
func (db *DB) UpdateDraftStatusCAS(ctx context.Context, draftID uuid.UUID, status string, expectedVersion int64) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE drafts SET status = $1, version = version + 1, updated_at = NOW()
		 WHERE id = $2 AND version = $3`,
		status, draftID, expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update draft status: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// SetDraftDirty sets or clears a draft's dirty flag.
func (db *DB) SetDraftDirty(ctx context.Context, draftID uuid.UUID, dirty bool) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE drafts SET dirty = $1, updated_at = NOW() WHERE id = $2`,
		dirty, draftID,
	)
	if err != nil {
		return fmt.Errorf("failed to set draft dirty flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("draft not found: %s", draftID)
	}
	return nil
}

// GetDraft retrieves a draft by ID. Returns (nil, nil) when absent.
func (db *DB) GetDraft(ctx context.Context, draftID uuid.UUID) (*Draft, error) {
	var d Draft
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, request_id, status, dirty, version, created_at, updated_at
		 FROM drafts WHERE id = $1`,
		draftID,
	).Scan(&d.ID, &d.UserID, &d.RequestID, &d.Status, &d.Dirty, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &d, nil
}
