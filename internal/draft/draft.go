// Package draft mirrors in-progress create-mode form state to a key-value
// store so unsaved work survives a crash or accidental exit.
//
// Debouncing follows the Bubbletea idiom instead of a mutable timer handle:
// every field change bumps a generation counter and the orchestrator arms a
// tea.Tick carrying that generation. A tick whose generation is stale is
// ignored, so at most one pending write exists and teardown needs no timer
// cancellation beyond dropping the model.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
)

// ErrNotFound is returned by a Store when the key has no value.
var ErrNotFound = errors.New("draft: key not found")

// Storage keys. The snapshot and the active-section marker are persisted
// separately so recovery can restore both the data and the user's place.
const (
	KeyDraft   = "plan_draft"
	KeySection = "plan_draft_section"
)

// Store is the key-value collaborator drafts are written to.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Snapshot serializes a form with deterministic sorted key order so two
// equal forms always produce byte-identical snapshots.
func Snapshot(f *plan.Form) (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("marshaling form: %w", err)
	}
	// Round-trip through a map: encoding/json writes map keys sorted.
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("canonicalizing form: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("canonicalizing form: %w", err)
	}
	return string(canonical), nil
}

// Saver owns the autosave evaluation cycle for one create-mode session.
// It stays inert until Activate: autosave must never race ahead of the
// restore/start-fresh recovery decision.
type Saver struct {
	store       Store
	baseline    string // canonical snapshot of the all-defaults form
	lastWritten string
	seq         int
	active      bool
}

// NewSaver builds a saver whose skip baseline is the all-defaults form.
func NewSaver(store Store) (*Saver, error) {
	baseline, err := Snapshot(plan.NewForm())
	if err != nil {
		return nil, err
	}
	return &Saver{store: store, baseline: baseline}, nil
}

// Activate enables writes. Called once the recovery decision is resolved
// (or immediately when no draft existed).
func (s *Saver) Activate() {
	s.active = true
}

// Active reports whether the saver will evaluate flushes.
func (s *Saver) Active() bool {
	return s.active
}

// Bump starts a new debounce generation after a field change and returns it.
// The orchestrator arms a tick with this value; older generations become
// stale and their ticks are dropped.
func (s *Saver) Bump() int {
	s.seq++
	return s.seq
}

// Seq returns the current debounce generation.
func (s *Saver) Seq() int {
	return s.seq
}

// Flush evaluates whether the form is worth persisting and writes it if so.
// Writes are skipped when the form equals the all-defaults baseline (nothing
// meaningful to save) or the last-written snapshot (no new information).
// Persistence is best-effort: failures are logged and swallowed, and the
// snapshot is retried on the next cycle. Returns true when a write happened.
func (s *Saver) Flush(ctx context.Context, f *plan.Form, section nav.Section) bool {
	if !s.active {
		return false
	}

	snap, err := Snapshot(f)
	if err != nil {
		logger.Warn("Draft snapshot failed: %v", err)
		return false
	}
	if snap == s.baseline || snap == s.lastWritten {
		return false
	}

	if err := s.store.Put(ctx, KeyDraft, snap); err != nil {
		logger.Warn("Draft write failed, will retry next cycle: %v", err)
		return false
	}
	if err := s.store.Put(ctx, KeySection, section.String()); err != nil {
		logger.Warn("Draft section marker write failed: %v", err)
	}

	s.lastWritten = snap
	logger.Debug("Draft saved (%d bytes, section=%s)", len(snap), section)
	return true
}

// Recover reads a previously saved draft. Returns false when no usable
// draft exists; a corrupt snapshot is logged and treated as absent rather
// than surfaced. On success the recovered snapshot becomes the last-written
// state so reactivation does not immediately rewrite it.
func (s *Saver) Recover(ctx context.Context) (*plan.Form, nav.Section, bool) {
	raw, err := s.store.Get(ctx, KeyDraft)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Draft read failed: %v", err)
		}
		return nil, nav.SectionBasic, false
	}
	if raw == "" {
		return nil, nav.SectionBasic, false
	}

	var f plan.Form
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		logger.Warn("Discarding unparseable draft: %v", err)
		return nil, nav.SectionBasic, false
	}

	section := nav.SectionBasic
	if marker, err := s.store.Get(ctx, KeySection); err == nil {
		if parsed, perr := nav.ParseSection(marker); perr == nil {
			section = parsed
		}
	}

	s.lastWritten = raw
	return &f, section, true
}

// Baseline returns the canonical all-defaults snapshot. The recovery prompt
// diffs a draft against it to show what restoring would bring back.
func (s *Saver) Baseline() string {
	return s.baseline
}

// Clear removes the stored draft and section marker. Best-effort, used both
// by "start fresh" and after a successful submit.
func (s *Saver) Clear(ctx context.Context) {
	if err := s.store.Delete(ctx, KeyDraft); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warn("Draft delete failed: %v", err)
	}
	if err := s.store.Delete(ctx, KeySection); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warn("Draft section marker delete failed: %v", err)
	}
	s.lastWritten = ""
}
