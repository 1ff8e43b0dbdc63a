package draft

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-wizard/internal/db"
)

// mockStore is an in-memory Store keyed by (user id, request id).
type mockStore struct {
	drafts  map[string]*db.Draft
	creates int
}

func newMockStore() *mockStore {
	return &mockStore{drafts: make(map[string]*db.Draft)}
}

func (m *mockStore) key(userID uuid.UUID, requestID string) string {
	return userID.String() + "/" + requestID
}

func (m *mockStore) FindDraftByKey(_ context.Context, userID uuid.UUID, requestID string) (*db.Draft, error) {
	d, ok := m.drafts[m.key(userID, requestID)]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *mockStore) CreateDraft(_ context.Context, userID uuid.UUID, requestID, status string) (*db.Draft, error) {
	m.creates++
	key := m.key(userID, requestID)
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

func (m *mockStore) byID(draftID uuid.UUID) *db.Draft {
	for _, d := range m.drafts {
		if d.ID == draftID {
			return d
		}
	}
	return nil
}

func (m *mockStore) UpdateDraftStatus(_ context.Context, draftID uuid.UUID, status string) error {
	if d := m.byID(draftID); d != nil {
		d.Status = status
	}
	return nil
}

func (m *mockStore) UpdateDraftStatusCAS(_ context.Context, draftID uuid.UUID, status string, expectedVersion int64) (bool, error) {
	d := m.byID(draftID)
	if d == nil || d.Version != expectedVersion {
		return false, nil
	}
	d.Status = status
	d.Version++
	return true, nil
}

func (m *mockStore) SetDraftDirty(_ context.Context, draftID uuid.UUID, dirty bool) error {
	if d := m.byID(draftID); d != nil {
		d.Dirty = dirty
	}
	return nil
}

func TestGetOrCreateCreatesWithGeneratingStatus(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store, nil)
	userID := uuid.New()

	d, err := manager.GetOrCreate(context.Background(), userID, "req-1")

	require.NoError(t, err)
	assert.Equal(t, userID, d.UserID)
	assert.Equal(t, "req-1", d.RequestID)
	assert.Equal(t, db.DraftStatusGenerating, d.Status)
	assert.False(t, d.Dirty)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store, nil)
	userID := uuid.New()

	first, err := manager.GetOrCreate(context.Background(), userID, "req-1")
	require.NoError(t, err)
	second, err := manager.GetOrCreate(context.Background(), userID, "req-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates, "existing drafts must be found, not recreated")
}

func TestGetOrCreateScopesByUserAndRequest(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store, nil)
	userID := uuid.New()
	otherUserID := uuid.New()

	base, err := manager.GetOrCreate(context.Background(), userID, "req-1")
	require.NoError(t, err)
	otherRequest, err := manager.GetOrCreate(context.Background(), userID, "req-2")
	require.NoError(t, err)
	otherUser, err := manager.GetOrCreate(context.Background(), otherUserID, "req-1")
	require.NoError(t, err)

	assert.NotEqual(t, base.ID, otherRequest.ID)
	assert.NotEqual(t, base.ID, otherUser.ID)
}

func TestGetOrCreateRequiresRequestID(t *testing.T) {
	manager := NewManager(newMockStore(), nil)

	_, err := manager.GetOrCreate(context.Background(), uuid.New(), "")
	assert.Error(t, err)
}

func TestMarkStatusCAS(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store, nil)
	userID := uuid.New()

	d, err := manager.GetOrCreate(context.Background(), userID, "req-1")
	require.NoError(t, err)

	ok, err := manager.MarkStatusCAS(context.Background(), d.ID, db.DraftStatusGenerating, d.Version)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second writer holding the stale version must lose.
	ok, err = manager.MarkStatusCAS(context.Background(), d.ID, db.DraftStatusGenerating, d.Version)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetDirty(t *testing.T) {
	store := newMockStore()
	manager := NewManager(store, nil)
	userID := uuid.New()

	d, err := manager.GetOrCreate(context.Background(), userID, "req-1")
	require.NoError(t, err)

	require.NoError(t, manager.SetDirty(context.Background(), d.ID, true))
	found, err := manager.Find(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.True(t, found.Dirty)

	require.NoError(t, manager.SetDirty(context.Background(), d.ID, false))
	found, err = manager.Find(context.Background(), userID, "req-1")
	require.NoError(t, err)
	assert.False(t, found.Dirty)
}

func TestFindAbsentDraft(t *testing.T) {
	manager := NewManager(newMockStore(), nil)

	d, err := manager.Find(context.Background(), uuid.New(), "missing")

	require.NoError(t, err)
	assert.Nil(t, d)
}
