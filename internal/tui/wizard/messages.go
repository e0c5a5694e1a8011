package wizard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
)

// fieldEdited returns a command emitting FieldEditedMsg.
func fieldEdited() tea.Cmd {
	return func() tea.Msg { return FieldEditedMsg{} }
}

// CatalogLoadedMsg is sent when the add-on and SLA catalogs have been fetched.
type CatalogLoadedMsg struct {
	Catalog plan.Catalog
}

// PlanLoadedMsg is sent when an existing plan has been fetched for edit/view.
type PlanLoadedMsg struct {
	Payload plan.Payload
}

// LoadErrorMsg is sent when the initial fetch (catalog or plan) fails.
// The wizard body stays non-interactive until a retry succeeds.
type LoadErrorMsg struct {
	Err error
}

// DraftCheckedMsg carries the result of the create-mode draft lookup.
// When Found is false the wizard activates autosave immediately; otherwise
// the recovery prompt blocks until the user restores or starts fresh.
type DraftCheckedMsg struct {
	Found   bool
	Form    *plan.Form
	Section nav.Section
}

// FieldEditedMsg is emitted by a step whenever it mutated the form.
// The orchestrator recomputes validity and restarts the autosave debounce.
type FieldEditedMsg struct{}

// AutosaveTickMsg fires when a debounce window elapses. Seq identifies the
// generation the tick was armed for; a stale Seq means newer edits arrived
// and the tick is dropped.
type AutosaveTickMsg struct {
	Seq int
}

// PlanSavedMsg is sent when final submission succeeded.
type PlanSavedMsg struct {
	ID int
}

// SubmitErrorMsg is sent when final submission failed.
type SubmitErrorMsg struct {
	Err error
}

// AddonCreateRequestMsg asks the orchestrator to persist a new add-on from
// the inline creation sub-flow.
type AddonCreateRequestMsg struct {
	Addon plan.Addon
}

// AddonCreatedMsg is sent when the inline creation sub-flow stored a new
// add-on. The entry is appended to the catalog and becomes selectable.
type AddonCreatedMsg struct {
	Addon plan.Addon
}

// AddonCreateErrorMsg is sent when inline add-on creation failed. It is
// displayed inside the sub-flow only and never affects the parent wizard.
type AddonCreateErrorMsg struct {
	Err error
}

// TabExitForwardMsg is sent when Tab is pressed on a step's last input.
// The orchestrator moves focus to the navigation buttons.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when Shift+Tab is pressed on a step's first
// input. The orchestrator moves focus to the buttons from the end.
type TabExitBackwardMsg struct{}
