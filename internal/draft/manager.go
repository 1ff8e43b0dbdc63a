// Package draft owns draft identity and status: idempotent get-or-create by
// the caller-supplied request id, plus dumb status and dirty-flag setters.
// Transition rules live in the orchestrator, not here.
package draft

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-wizard/internal/db"
)

// Store is the persistence surface the manager needs. *db.DB satisfies it.
type Store interface {
	FindDraftByKey(ctx context.Context, userID uuid.UUID, requestID string) (*db.Draft, error)
	CreateDraft(ctx context.Context, userID uuid.UUID, requestID, status string) (*db.Draft, error)
	UpdateDraftStatus(ctx context.Context, draftID uuid.UUID, status string) error
	UpdateDraftStatusCAS(ctx context.Context, draftID uuid.UUID, status string, expectedVersion int64) (bool, error)
	SetDraftDirty(ctx context.Context, draftID uuid.UUID, dirty bool) error
}

// Manager provides draft lifecycle operations.
type Manager struct {
	store  Store
	logger *zap.Logger
}

// NewManager creates a draft manager.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// GetOrCreate returns the draft for (userID, requestID), creating it with
// status generating when absent. Repeated calls with the same key always
// land on the same draft record.
func (m *Manager) GetOrCreate(ctx context.Context, userID uuid.UUID, requestID string) (*db.Draft, error) {
	if requestID == "" {
		return nil, fmt.Errorf("request id is required")
	}

	existing, err := m.store.FindDraftByKey(ctx, userID, requestID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// The insert is upsert-by-key, so a concurrent double-submit still
	// resolves to one record.
	created, err := m.store.CreateDraft(ctx, userID, requestID, db.DraftStatusGenerating)
	if err != nil {
		return nil, err
	}

	m.logger.Info("created draft",
		zap.String("draft_id", created.ID.String()),
		zap.String("request_id", requestID))
	return created, nil
}

// Find returns the draft for (userID, requestID), or (nil, nil) when absent.
func (m *Manager) Find(ctx context.Context, userID uuid.UUID, requestID string) (*db.Draft, error) {
	return m.store.FindDraftByKey(ctx, userID, requestID)
}

// MarkStatus sets a draft's status.
func (m *Manager) MarkStatus(ctx context.Context, draftID uuid.UUID, status string) error {
	return m.store.UpdateDraftStatus(ctx, draftID, status)
}

// MarkStatusCAS sets a draft's status only when its version is still
// expectedVersion, bumping the version on success. Returns false when a
// concurrent writer won the race.
func (m *Manager) MarkStatusCAS(ctx context.Context, draftID uuid.UUID, status string, expectedVersion int64) (bool, error) {
	return m.store.UpdateDraftStatusCAS(ctx, draftID, status, expectedVersion)
}

// SetDirty sets or clears a draft's dirty flag. Set by the upstream
// wizard-edit path; cleared by callers after a forced full regeneration
// completes successfully.
func (m *Manager) SetDirty(ctx context.Context, draftID uuid.UUID, dirty bool) error {
	return m.store.SetDraftDirty(ctx, draftID, dirty)
}
