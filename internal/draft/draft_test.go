package draft

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with an optional injected write failure.
type memStore struct {
	data    map[string]string
	putErr  error
	putSeen int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memStore) Put(_ context.Context, key, value string) error {
	m.putSeen++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestSnapshot_Deterministic(t *testing.T) {
	a := plan.NewForm()
	a.Name = "X"
	b := plan.NewForm()
	b.Name = "X"

	sa, err := Snapshot(a)
	require.NoError(t, err)
	sb, err := Snapshot(b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb, "equal forms must snapshot identically")

	b.Name = "Y"
	sb2, err := Snapshot(b)
	require.NoError(t, err)
	assert.NotEqual(t, sa, sb2)
}

func TestFlush_InertBeforeActivation(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)

	f := plan.NewForm()
	f.Name = "Premium Plan"

	assert.False(t, s.Flush(context.Background(), f, nav.SectionBasic))
	assert.Empty(t, store.data, "no write may happen before the recovery decision")
}

func TestFlush_SkipsAllDefaultsBaseline(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	assert.False(t, s.Flush(context.Background(), plan.NewForm(), nav.SectionBasic))
	_, ok := store.data[KeyDraft]
	assert.False(t, ok, "draft key must never be populated for an untouched form")
}

func TestFlush_WritesOnRealChange(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	f := plan.NewForm()
	f.Name = "Premium Plan"

	assert.True(t, s.Flush(context.Background(), f, nav.SectionPricing))

	var saved plan.Form
	require.NoError(t, json.Unmarshal([]byte(store.data[KeyDraft]), &saved))
	assert.Equal(t, "Premium Plan", saved.Name)
	assert.Equal(t, "pricing", store.data[KeySection])
}

func TestFlush_SkipsUnchangedSnapshot(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	f := plan.NewForm()
	f.Name = "Premium Plan"

	require.True(t, s.Flush(context.Background(), f, nav.SectionBasic))
	writes := store.putSeen

	assert.False(t, s.Flush(context.Background(), f, nav.SectionBasic))
	assert.Equal(t, writes, store.putSeen, "identical snapshot must not rewrite")

	f.Description = "For growing teams"
	assert.True(t, s.Flush(context.Background(), f, nav.SectionBasic))
}

func TestFlush_WriteFailureIsSwallowedAndRetried(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	f := plan.NewForm()
	f.Name = "Premium Plan"

	store.putErr = errors.New("quota exceeded")
	assert.False(t, s.Flush(context.Background(), f, nav.SectionBasic))

	// Failure must not poison the last-written state: the same snapshot
	// writes fine once the store recovers.
	store.putErr = nil
	assert.True(t, s.Flush(context.Background(), f, nav.SectionBasic))
}

func TestRecover_RoundTrip(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	f := plan.NewForm()
	f.Name = "X"
	require.True(t, s.Flush(context.Background(), f, nav.SectionFeatures))

	// Fresh saver simulates a re-mounted wizard.
	s2, err := NewSaver(store)
	require.NoError(t, err)

	recovered, section, ok := s2.Recover(context.Background())
	require.True(t, ok)
	assert.Equal(t, "X", recovered.Name)
	assert.Equal(t, nav.SectionFeatures, section)
}

func TestRecover_NoDraft(t *testing.T) {
	s, err := NewSaver(newMemStore())
	require.NoError(t, err)

	_, _, ok := s.Recover(context.Background())
	assert.False(t, ok)
}

func TestRecover_CorruptDraftTreatedAsAbsent(t *testing.T) {
	store := newMemStore()
	store.data[KeyDraft] = "{not json"
	s, err := NewSaver(store)
	require.NoError(t, err)

	_, _, ok := s.Recover(context.Background())
	assert.False(t, ok)
}

func TestRecover_DoesNotImmediatelyRewrite(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	f := plan.NewForm()
	f.Name = "X"
	require.True(t, s.Flush(context.Background(), f, nav.SectionBasic))

	s2, err := NewSaver(store)
	require.NoError(t, err)
	recovered, _, ok := s2.Recover(context.Background())
	require.True(t, ok)
	s2.Activate()

	writes := store.putSeen
	assert.False(t, s2.Flush(context.Background(), recovered, nav.SectionBasic))
	assert.Equal(t, writes, store.putSeen)
}

func TestClear_RemovesBothKeys(t *testing.T) {
	store := newMemStore()
	s, err := NewSaver(store)
	require.NoError(t, err)
	s.Activate()

	f := plan.NewForm()
	f.Name = "X"
	require.True(t, s.Flush(context.Background(), f, nav.SectionBasic))

	s.Clear(context.Background())
	assert.Empty(t, store.data)

	// After a clear the same content is new information again.
	assert.True(t, s.Flush(context.Background(), f, nav.SectionBasic))
}

func TestBump_AdvancesGeneration(t *testing.T) {
	s, err := NewSaver(newMemStore())
	require.NoError(t, err)

	first := s.Bump()
	second := s.Bump()
	assert.Equal(t, first+1, second)
	assert.Equal(t, second, s.Seq())
}
