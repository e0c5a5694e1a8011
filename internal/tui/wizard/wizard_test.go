package wizard

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/draft"
	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// Helper function to create a KeyPressMsg from a string
func keyPress(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Text: s})
}

func newTestModel(t *testing.T, mode plan.Mode, recordID int) (*Model, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	cfg := &config.Config{AutosaveDebounceMS: 1}
	m := New(cfg, mode, recordID, mem, mem, saver)
	return m, mem
}

func seedTestCatalog(t *testing.T, mem *store.Memory) {
	t.Helper()
	_, err := mem.CreateAddon(context.Background(), plan.Addon{
		Name:            "Extra Seats",
		MonthlyPrice:    5,
		DefaultQuantity: 1,
		MinQuantity:     1,
		MaxQuantity:     50,
		FeatureLevels:   []string{"basic", "premium"},
	})
	require.NoError(t, err)
	_, err = mem.CreateSLA(context.Background(), plan.SupportSLA{
		Name:          "Gold",
		ResponseHours: 4,
		UptimePercent: 99.9,
		MonthlyPrice:  49,
	})
	require.NoError(t, err)
}

// deliver feeds a message to the model and synchronously runs any wizard
// commands it produces. Cursor blink and other library commands are dropped.
func deliver(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	runCmd(t, m, cmd)
}

func runCmd(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			runCmd(t, m, c)
		}
	case CatalogLoadedMsg, PlanLoadedMsg, LoadErrorMsg, DraftCheckedMsg,
		FieldEditedMsg, AutosaveTickMsg, PlanSavedMsg, SubmitErrorMsg,
		AddonCreateRequestMsg, AddonCreatedMsg, AddonCreateErrorMsg,
		TabExitForwardMsg, TabExitBackwardMsg:
		deliver(t, m, msg)
	}
}

// startModel runs Init and a window size pass, leaving the model ready
// (unless a load failure or recovery prompt intervenes).
func startModel(t *testing.T, m *Model) {
	t.Helper()
	runCmd(t, m, m.Init())
	deliver(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

// fillValidForm sets every required field so the entire form validates.
func fillValidForm(f *plan.Form) {
	f.Name = "Team Plan"
	f.Code = "team-plan"
	f.MonthlyPrice = "29.00"
	f.UserLimit = "25"
	f.StorageLimitGB = "100"
}

func TestWizardCreateStartsReady(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	assert.True(t, m.ready())
	assert.True(t, m.saver.Active())
	assert.Equal(t, nav.SectionBasic, m.machine.Current())
	assert.Len(t, m.catalog.Addons, 1)
	assert.Len(t, m.catalog.SLAs, 1)
}

func TestWizardWaterfallUnlock(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	// Basic is incomplete, so a jump to pricing must be refused.
	deliver(t, m, keyPress("alt+2"))
	assert.Equal(t, nav.SectionBasic, m.machine.Current())

	m.form.Name = "Team Plan"
	m.form.Code = "team-plan"
	deliver(t, m, keyPress("alt+2"))
	assert.Equal(t, nav.SectionPricing, m.machine.Current())

	// Features stays locked while pricing has never been valid beyond it.
	m.form.MonthlyPrice = ""
	deliver(t, m, keyPress("alt+3"))
	assert.Equal(t, nav.SectionPricing, m.machine.Current())
}

func TestWizardNextButtonAdvances(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	m.form.Name = "Team Plan"
	m.form.Code = "team-plan"

	deliver(t, m, TabExitForwardMsg{})
	require.True(t, m.buttonFocused)
	// Back is disabled on the first section, so focus starts on Next.
	assert.Equal(t, ButtonNext, m.buttonBar.FocusedButton())

	deliver(t, m, keyPress("enter"))
	assert.Equal(t, nav.SectionPricing, m.machine.Current())
	assert.False(t, m.buttonFocused)
}

func TestWizardSubmissionGate(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	// Invalid form: submit must be a no-op regardless of how it is reached.
	assert.Nil(t, m.submit())

	fillValidForm(m.form)
	runCmd(t, m, m.submit())

	assert.Equal(t, 1, m.savedID)
	saved, err := mem.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Team Plan", saved.Name)
	assert.InDelta(t, 29.0, saved.MonthlyPrice, 0.001)

	// A successful create clears the draft.
	_, found := mem.DraftValue(draft.KeyDraft)
	assert.False(t, found)
}

func TestWizardSubmitWhileInFlight(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)
	fillValidForm(m.form)

	first := m.submit()
	require.NotNil(t, first)
	assert.Nil(t, m.submit(), "second activation while in flight must be a no-op")
}

func TestWizardAutosaveDebounce(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	m.form.Name = "Draft Plan"
	deliver(t, m, FieldEditedMsg{})

	raw, found := mem.DraftValue(draft.KeyDraft)
	require.True(t, found)
	assert.Contains(t, raw, "Draft Plan")
	assert.True(t, m.draftSaved)

	section, found := mem.DraftValue(draft.KeySection)
	require.True(t, found)
	assert.Equal(t, "basic", section)
}

func TestWizardAutosaveStaleTickDropped(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	// Two edits before any tick lands: only the newest generation may write.
	m.form.Name = "First"
	_, _ = m.Update(FieldEditedMsg{})
	m.form.Name = "Second"
	_, _ = m.Update(FieldEditedMsg{})

	_, _ = m.Update(AutosaveTickMsg{Seq: 1})
	_, found := mem.DraftValue(draft.KeyDraft)
	assert.False(t, found, "stale generation must not flush")

	_, _ = m.Update(AutosaveTickMsg{Seq: m.saver.Seq()})
	raw, found := mem.DraftValue(draft.KeyDraft)
	require.True(t, found)
	assert.Contains(t, raw, "Second")
}

func TestWizardAutosaveOnlyInCreateMode(t *testing.T) {
	mem := store.NewMemory()
	mem.PutPlan(validPayload(7))
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	m := New(&config.Config{AutosaveDebounceMS: 1}, plan.ModeEdit, 7, mem, mem, saver)
	startModel(t, m)
	require.True(t, m.ready())

	m.form.Name = "Renamed"
	_, cmd := m.Update(FieldEditedMsg{})
	assert.Nil(t, cmd, "edit mode must never arm the autosave timer")
	_, found := mem.DraftValue(draft.KeyDraft)
	assert.False(t, found)
}

func seedDraft(t *testing.T, mem *store.Memory) {
	t.Helper()
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	saver.Activate()
	f := plan.NewForm()
	f.Name = "Recovered Plan"
	f.Code = "recovered-plan"
	require.True(t, saver.Flush(context.Background(), f, nav.SectionPricing))
}

func TestWizardRecoveryRestore(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	seedDraft(t, mem)
	startModel(t, m)

	require.True(t, m.showRecovery)
	assert.False(t, m.ready(), "prompt must block interactivity")

	// Autosave stays inert until the decision resolves.
	_, cmd := m.Update(FieldEditedMsg{})
	assert.Nil(t, cmd)

	deliver(t, m, keyPress("y"))
	require.True(t, m.ready())
	assert.Equal(t, "Recovered Plan", m.form.Name)
	assert.Equal(t, nav.SectionPricing, m.machine.Current())
	assert.True(t, m.saver.Active())
}

func TestWizardRecoveryStartFresh(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	seedDraft(t, mem)
	startModel(t, m)
	require.True(t, m.showRecovery)

	deliver(t, m, keyPress("n"))
	require.True(t, m.ready())
	assert.Empty(t, m.form.Name)
	assert.Equal(t, nav.SectionBasic, m.machine.Current())

	_, found := mem.DraftValue(draft.KeyDraft)
	assert.False(t, found, "start fresh must delete the stored draft")
}

func validPayload(id int) plan.Payload {
	return plan.Payload{
		ID:              id,
		Name:            "Existing Plan",
		Code:            "existing-plan",
		Active:          true,
		MonthlyPrice:    49,
		BillingInterval: plan.IntervalMonth,
		UserLimit:       10,
		StorageLimitGB:  50,
	}
}

func TestWizardEditLoadsAndUpdates(t *testing.T) {
	mem := store.NewMemory()
	seedTestCatalog(t, mem)
	mem.PutPlan(validPayload(7))
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	m := New(&config.Config{AutosaveDebounceMS: 1}, plan.ModeEdit, 7, mem, mem, saver)
	startModel(t, m)

	require.True(t, m.ready())
	assert.Equal(t, "Existing Plan", m.form.Name)

	m.form.Name = "Renamed Plan"
	runCmd(t, m, m.submit())

	assert.Equal(t, 7, m.savedID)
	saved, err := mem.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Plan", saved.Name)
}

func TestWizardLoadFailureRetry(t *testing.T) {
	mem := store.NewMemory()
	seedTestCatalog(t, mem)
	mem.PutPlan(validPayload(7))
	mem.FailFetch = errors.New("connection refused")
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	m := New(&config.Config{AutosaveDebounceMS: 1}, plan.ModeEdit, 7, mem, mem, saver)
	startModel(t, m)

	require.NotEmpty(t, m.loadErr)
	assert.False(t, m.ready())

	// Arbitrary keys do nothing while the error screen is up.
	deliver(t, m, keyPress("x"))
	assert.False(t, m.ready())

	mem.FailFetch = nil
	deliver(t, m, keyPress("r"))
	require.True(t, m.ready())
	assert.Empty(t, m.loadErr)
	assert.Equal(t, "Existing Plan", m.form.Name)
}

func TestWizardIncompleteRecordIsLoadFailure(t *testing.T) {
	mem := store.NewMemory()
	seedTestCatalog(t, mem)
	mem.PutPlan(plan.Payload{ID: 9}) // no name
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	m := New(&config.Config{AutosaveDebounceMS: 1}, plan.ModeView, 9, mem, mem, saver)
	startModel(t, m)

	assert.NotEmpty(t, m.loadErr)
	assert.False(t, m.ready())
}

func TestWizardViewMode(t *testing.T) {
	mem := store.NewMemory()
	seedTestCatalog(t, mem)
	mem.PutPlan(validPayload(7))
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	m := New(&config.Config{AutosaveDebounceMS: 1}, plan.ModeView, 7, mem, mem, saver)
	startModel(t, m)
	require.True(t, m.ready())

	// Every section is reachable regardless of validity.
	deliver(t, m, keyPress("alt+5"))
	assert.Equal(t, nav.SectionSLA, m.machine.Current())

	assert.Nil(t, m.submit(), "view mode must never submit")

	// Switching to edit keeps the current section.
	deliver(t, m, keyPress("e"))
	assert.Equal(t, plan.ModeEdit, m.mode)
	assert.Equal(t, nav.SectionSLA, m.machine.Current())
}

func TestWizardViewModeQuits(t *testing.T) {
	mem := store.NewMemory()
	seedTestCatalog(t, mem)
	mem.PutPlan(validPayload(7))
	saver, err := draft.NewSaver(mem)
	require.NoError(t, err)
	m := New(&config.Config{AutosaveDebounceMS: 1}, plan.ModeView, 7, mem, mem, saver)
	startModel(t, m)

	_, cmd := m.Update(keyPress("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.cancelled)
}

func TestWizardAddonCreateRoundTrip(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)
	require.Len(t, m.catalog.Addons, 1)

	deliver(t, m, AddonCreateRequestMsg{Addon: plan.Addon{
		Name:            "Priority Queue",
		MonthlyPrice:    12,
		DefaultQuantity: 1,
		MinQuantity:     1,
		MaxQuantity:     5,
	}})

	require.Len(t, m.catalog.Addons, 2)
	assert.Equal(t, "Priority Queue", m.catalog.Addons[1].Name)
	assert.NotZero(t, m.catalog.Addons[1].ID)
}

func TestWizardEscOnFirstSectionCancels(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	_, cmd := m.Update(keyPress("esc"))
	assert.NotNil(t, cmd)
	assert.True(t, m.cancelled)
}

func TestWizardEscGoesBack(t *testing.T) {
	m, mem := newTestModel(t, plan.ModeCreate, 0)
	seedTestCatalog(t, mem)
	startModel(t, m)

	m.form.Name = "Team Plan"
	m.form.Code = "team-plan"
	deliver(t, m, keyPress("alt+2"))
	require.Equal(t, nav.SectionPricing, m.machine.Current())

	deliver(t, m, keyPress("esc"))
	assert.Equal(t, nav.SectionBasic, m.machine.Current())
	assert.False(t, m.cancelled)
}
