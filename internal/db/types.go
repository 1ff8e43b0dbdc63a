package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Draft status constants
const (
	DraftStatusGenerating = "generating"
	DraftStatusReady      = "ready"
	DraftStatusError      = "error"
)

// Draft represents one per-(user, request id) resume draft. It owns its
// SectionOutputs; section records never outlive it.
type Draft struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	Dirty     bool      `json:"dirty"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SectionOutput represents one generated section of a draft, unique per
// (draft id, section type). Effective is always override ?? generated and is
// written in the same statement as its sources.
type SectionOutput struct {
	ID          uuid.UUID       `json:"id"`
	DraftID     uuid.UUID       `json:"draft_id"`
	SectionType string          `json:"section_type"`
	Generated   json.RawMessage `json:"generated"`
	Override    json.RawMessage `json:"override,omitempty"`
	Effective   json.RawMessage `json:"effective"`
	InputHash   string          `json:"input_hash"`
	GeneratorID string          `json:"generator_id"`
	Mode        string          `json:"mode"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SectionOutputUpsert holds the fields written by an upsert. Override may be
// nil, meaning no standing user override.
type SectionOutputUpsert struct {
	DraftID     uuid.UUID
	SectionType string
	Generated   json.RawMessage
	Override    json.RawMessage
	Effective   json.RawMessage
	InputHash   string
	GeneratorID string
	Mode        string
}

// User represents a user account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
