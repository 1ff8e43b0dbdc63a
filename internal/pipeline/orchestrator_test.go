package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/draft"
	"github.com/jonathan/resume-wizard/internal/generator"
	"github.com/jonathan/resume-wizard/internal/sections"
	"github.com/jonathan/resume-wizard/internal/types"
)

// memStore implements both the draft and section store surfaces in memory.
type memStore struct {
	drafts   map[string]*db.Draft
	sections map[string]*db.SectionOutput
}

func newMemStore() *memStore {
	return &memStore{
		drafts:   make(map[string]*db.Draft),
		sections: make(map[string]*db.SectionOutput),
	}
}

func (m *memStore) draftKey(userID uuid.UUID, requestID string) string {
	return userID.String() + "/" + requestID
}

func (m *memStore) sectionKey(draftID uuid.UUID, sectionType string) string {
	return draftID.String() + "/" + sectionType
}

func (m *memStore) FindDraftByKey(_ context.Context, userID uuid.UUID, requestID string) (*db.Draft, error) {
	d, ok := m.drafts[m.draftKey(userID, requestID)]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *memStore) CreateDraft(_ context.Context, userID uuid.UUID, requestID, status string) (*db.Draft, error) {
	key := m.draftKey(userID, requestID)
	if existing, ok := m.drafts[key]; ok {
		copied := *existing
		return &copied, nil
	}
	d := &db.Draft{
		ID:        uuid.New(),
		UserID:    userID,
		RequestID: requestID,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.drafts[key] = d
	copied := *d
	return &copied, nil
}

func (m *memStore) draftByID(draftID uuid.UUID) *db.Draft {
	for _, d := range m.drafts {
		if d.ID == draftID {
			return d
		}
	}
	return nil
}

func (m *memStore) UpdateDraftStatus(_ context.Context, draftID uuid.UUID, status string) error {
	if d := m.draftByID(draftID); d != nil {
		d.Status = status
	}
	return nil
}

func (m *memStore) UpdateDraftStatusCAS(_ context.Context, draftID uuid.UUID, status string, expectedVersion int64) (bool, error) {
	d := m.draftByID(draftID)
	if d == nil || d.Version != expectedVersion {
		return false, nil
	}
	d.Status = status
	d.Version++
	return true, nil
}

func (m *memStore) SetDraftDirty(_ context.Context, draftID uuid.UUID, dirty bool) error {
	if d := m.draftByID(draftID); d != nil {
		d.Dirty = dirty
	}
	return nil
}

func (m *memStore) FindSectionOutput(_ context.Context, draftID uuid.UUID, sectionType string) (*db.SectionOutput, error) {
	record, ok := m.sections[m.sectionKey(draftID, sectionType)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (m *memStore) UpsertSectionOutput(_ context.Context, input db.SectionOutputUpsert) (*db.SectionOutput, error) {
	key := m.sectionKey(input.DraftID, input.SectionType)
	record, ok := m.sections[key]
	if !ok {
		record = &db.SectionOutput{
			ID:          uuid.New(),
			DraftID:     input.DraftID,
			SectionType: input.SectionType,
			CreatedAt:   time.Now(),
		}
		m.sections[key] = record
	}
	record.Generated = input.Generated
	record.Override = input.Override
	record.Effective = input.Effective
	record.InputHash = input.InputHash
	record.GeneratorID = input.GeneratorID
	record.Mode = input.Mode
	record.UpdatedAt = time.Now()

	copied := *record
	return &copied, nil
}

func (m *memStore) ListSectionOutputs(_ context.Context, draftID uuid.UUID) ([]db.SectionOutput, error) {
	var outputs []db.SectionOutput
	for _, record := range m.sections {
		if record.DraftID == draftID {
			outputs = append(outputs, *record)
		}
	}
	return outputs, nil
}

// scriptedGenerator wraps the local generator, recording the call order and
// failing on a chosen section type.
type scriptedGenerator struct {
	inner  generator.Generator
	calls  []types.SectionType
	failOn types.SectionType
}

func (g *scriptedGenerator) ID() string {
	return g.inner.ID()
}

func (g *scriptedGenerator) Generate(ctx context.Context, sectionType types.SectionType, in *types.WizardInput, mode types.GenerationMode) (json.RawMessage, error) {
	g.calls = append(g.calls, sectionType)
	if g.failOn != "" && sectionType == g.failOn {
		return nil, errors.New("generator unavailable")
	}
	return g.inner.Generate(ctx, sectionType, in, mode)
}

func newTestOrchestrator(store *memStore, gen generator.Generator) *Orchestrator {
	if gen == nil {
		gen = generator.NewLocal()
	}
	return New(draft.NewManager(store, nil), sections.NewRepository(store), gen, nil)
}

func testInput() *types.WizardInput {
	return &types.WizardInput{
		Summary:    "Backend engineer.",
		Skills:     "Go\nKubernetes\nSQL",
		Experience: []string{"Engineer | Acme | 2020-2024\n- Built the billing pipeline"},
		Education:  []string{"BSc Computer Science - UofT"},
		Languages:  []string{"English - Native"},
		Email:      "dev@example.com",
	}
}

func TestGenerateAllRoundTrip(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	userID := uuid.New()

	result, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})

	require.NoError(t, err)
	assert.Len(t, result, len(types.SectionOrder))

	d, err := o.Draft(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.Equal(t, db.DraftStatusReady, d.Status)

	read, err := o.GetGeneratedSections(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.Equal(t, result, read)
}

func TestGenerateAllSequentialFixedOrder(t *testing.T) {
	store := newMemStore()
	gen := &scriptedGenerator{inner: generator.NewLocal()}
	o := newTestOrchestrator(store, gen)

	_, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    uuid.New(),
		RequestID: "req-1",
		Input:     testInput(),
	})

	require.NoError(t, err)
	assert.Equal(t, types.SectionOrder, gen.calls)
}

func TestGenerateAllMarksErrorAndStops(t *testing.T) {
	store := newMemStore()
	gen := &scriptedGenerator{inner: generator.NewLocal(), failOn: types.SectionEducation}
	o := newTestOrchestrator(store, gen)
	userID := uuid.New()

	_, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, string(types.SectionEducation))

	d, err := o.Draft(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.Equal(t, db.DraftStatusError, d.Status)

	// No section after the failed one may have been attempted.
	assert.Equal(t, types.SectionEducation, gen.calls[len(gen.calls)-1])

	// Sections written before the failure stay committed.
	read, err := o.GetGeneratedSections(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.Contains(t, read, types.SectionSummary)
	assert.NotContains(t, read, types.SectionEducation)
}

// staleStore serves draft reads with an outdated version, modeling a racing
// run that bumped the version after this caller loaded the draft.
type staleStore struct {
	*memStore
}

func (s *staleStore) FindDraftByKey(ctx context.Context, userID uuid.UUID, requestID string) (*db.Draft, error) {
	d, err := s.memStore.FindDraftByKey(ctx, userID, requestID)
	if err != nil || d == nil {
		return d, err
	}
	d.Version--
	return d, nil
}

func TestGenerateAllVersionConflict(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()

	_, err := newTestOrchestrator(store, nil).GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)

	stale := &staleStore{memStore: store}
	o := New(draft.NewManager(stale, nil), sections.NewRepository(store), generator.NewLocal(), nil)

	_, err = o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestGenerateAllConcurrentRunRejected(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	userID := uuid.New()

	// First run succeeds and bumps the version.
	_, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)

	// A rerun re-reads the draft, so it sees the current version and wins.
	_, err = o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)
}

func TestGenerateSectionStatusNeutral(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	userID := uuid.New()

	_, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)

	effective, err := o.GenerateSection(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	}, types.SectionSummary)

	require.NoError(t, err)
	assert.True(t, json.Valid(effective))

	d, err := o.Draft(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.Equal(t, db.DraftStatusReady, d.Status, "single-section generation must not move draft status")
}

func TestGenerateAllAppliesOverrides(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	userID := uuid.New()
	override := json.RawMessage(`{"technical_skills":[{"category":"Languages","skills":["Go"]}]}`)

	result, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
		Overrides: map[types.SectionType]json.RawMessage{
			types.SectionTechnicalSkills: override,
		},
	})

	require.NoError(t, err)
	assert.JSONEq(t, string(override), string(result[types.SectionTechnicalSkills]))

	// Overrides survive a later run that does not reassert them.
	result, err = o.RegenerateAllWithOverrides(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, string(override), string(result[types.SectionTechnicalSkills]))
}

func TestGetGeneratedSectionsOwnership(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	ownerID := uuid.New()

	_, err := o.GenerateAll(context.Background(), GenerateParams{
		UserID:    ownerID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)

	// A different user asking for the same request id gets the same answer
	// as asking for a request id that never existed.
	_, foreignErr := o.GetGeneratedSections(context.Background(), uuid.New(), "req-1")
	_, missingErr := o.GetGeneratedSections(context.Background(), ownerID, "req-missing")

	assert.ErrorIs(t, foreignErr, ErrNotFound)
	assert.ErrorIs(t, missingErr, ErrNotFound)
}

func TestSetDirtyRequiresOwnedDraft(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	userID := uuid.New()

	err := o.SetDirty(context.Background(), userID, "req-missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = o.GenerateAll(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	})
	require.NoError(t, err)

	require.NoError(t, o.SetDirty(context.Background(), userID, "req-1", true))
	d, err := o.Draft(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.True(t, d.Dirty)

	require.NoError(t, o.SetDirty(context.Background(), userID, "req-1", false))
	d, err = o.Draft(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.False(t, d.Dirty)
}

func TestGenerateSectionDefaultsMode(t *testing.T) {
	store := newMemStore()
	o := newTestOrchestrator(store, nil)
	userID := uuid.New()

	_, err := o.GenerateSection(context.Background(), GenerateParams{
		UserID:    userID,
		RequestID: "req-1",
		Input:     testInput(),
	}, types.SectionSummary)
	require.NoError(t, err)

	d, err := o.Draft(context.Background(), userID, "req-1")
	require.NoError(t, err)

	record, err := store.FindSectionOutput(context.Background(), d.ID, string(types.SectionSummary))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, string(types.ModeDefault), record.Mode)
	assert.Equal(t, "local/v1", record.GeneratorID)
	assert.Len(t, record.InputHash, 16)
}
