package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/planforge/planforge/internal/assign"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/theme"
)

// Quantity edit inputs of one assignment, in tab order.
const (
	addonEditDefault = iota
	addonEditMin
	addonEditMax
	addonEditCount
)

// AddonsStep manages add-on assignments: browsing and filtering the catalog,
// toggling assignments (with a confirmation step on removal), per-assignment
// configuration, and the inline creation sub-flow. The catalog grid and the
// creation form are mutually exclusive surfaces.
type AddonsStep struct {
	form        *plan.Form
	catalog     *plan.Catalog
	assignments *assign.Assignments
	confirmer   *assign.Confirmer
	readOnly    bool

	searchInput textinput.Model
	filtered    []plan.Addon
	selectedIdx int

	// Quantity editing for the selected assignment.
	editing    bool
	editInputs [addonEditCount]textinput.Model
	editFocus  int

	// Inline creation sub-flow. Non-nil while open.
	createForm *AddonForm

	width, height int
}

// NewAddonsStep creates the step bound to the given form and catalog.
func NewAddonsStep(form *plan.Form, catalog *plan.Catalog, readOnly bool) *AddonsStep {
	searchInput := newInput("Type to filter add-ons...")
	searchInput.Prompt = "Search: "

	s := &AddonsStep{
		form:        form,
		catalog:     catalog,
		assignments: assign.NewAssignments(form),
		confirmer:   assign.NewConfirmer(),
		readOnly:    readOnly,
		searchInput: searchInput,
	}
	if !readOnly {
		s.searchInput.Focus()
	}
	s.filter()
	return s
}

// Init initializes the step.
func (s *AddonsStep) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dimensions for the step.
func (s *AddonsStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.searchInput.SetWidth(width - 12)
	if s.createForm != nil {
		s.createForm.SetSize(width, height)
	}
}

// Focus focuses the search input.
func (s *AddonsStep) Focus() {
	if !s.readOnly && s.createForm == nil {
		s.searchInput.Focus()
	}
}

// FocusLast focuses the search input; the step has a single entry point.
func (s *AddonsStep) FocusLast() {
	s.Focus()
}

// Blur removes focus.
func (s *AddonsStep) Blur() {
	s.searchInput.Blur()
}

// Creating reports whether the inline creation sub-flow is open.
func (s *AddonsStep) Creating() bool {
	return s.createForm != nil
}

// ConfirmPending reports whether a removal confirmation is showing.
func (s *AddonsStep) ConfirmPending() bool {
	return s.confirmer.Active()
}

// CreateFinished closes the sub-flow and appends the new entry to the
// catalog so it is immediately selectable.
func (s *AddonsStep) CreateFinished(a plan.Addon) {
	s.catalog.AppendAddon(a)
	s.createForm = nil
	s.searchInput.Focus()
	s.filter()
}

// CreateFailed surfaces the failure inside the sub-flow, which stays open.
func (s *AddonsStep) CreateFailed(err error) {
	if s.createForm != nil {
		s.createForm.Fail(err)
	}
}

// filter recomputes the visible catalog from the search query. In read-only
// mode the catalog is restricted to assigned entries: view mode shows a
// read summary, not a browsing catalog.
func (s *AddonsStep) filter() {
	query := strings.ToLower(strings.TrimSpace(s.searchInput.Value()))

	s.filtered = s.filtered[:0]
	for _, a := range s.catalog.Addons {
		if s.readOnly && !s.assignments.IsAssigned(a.ID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(a.Name), query) {
			continue
		}
		s.filtered = append(s.filtered, a)
	}

	if s.selectedIdx >= len(s.filtered) {
		s.selectedIdx = 0
	}
}

// selected returns the addon under the cursor, or false.
func (s *AddonsStep) selected() (plan.Addon, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.filtered) {
		return plan.Addon{}, false
	}
	return s.filtered[s.selectedIdx], true
}

// Update handles messages for the step.
func (s *AddonsStep) Update(msg tea.Msg) tea.Cmd {
	// The creation sub-flow captures everything while open. ESC closes it
	// unless a submission is in flight.
	if s.createForm != nil {
		if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == "esc" && !s.createForm.InFlight() {
			s.createForm = nil
			if !s.readOnly {
				s.searchInput.Focus()
			}
			return nil
		}
		return s.createForm.Update(msg)
	}

	keyMsg, isKey := msg.(tea.KeyPressMsg)

	// Pending removal confirmation captures Y/N/ESC.
	if s.confirmer.Active() {
		if !isKey {
			return nil
		}
		switch keyMsg.String() {
		case "y", "Y":
			s.confirmer.Confirm()
			s.filter()
			return fieldEdited()
		case "n", "N", "esc":
			s.confirmer.Cancel()
		}
		return nil
	}

	if s.editing {
		return s.updateEditing(msg)
	}

	if isKey {
		switch keyMsg.String() {
		case "tab":
			return func() tea.Msg { return TabExitForwardMsg{} }
		case "shift+tab":
			return func() tea.Msg { return TabExitBackwardMsg{} }
		case "up":
			if s.selectedIdx > 0 {
				s.selectedIdx--
			}
			return nil
		case "down":
			if s.selectedIdx < len(s.filtered)-1 {
				s.selectedIdx++
			}
			return nil
		case "enter":
			return s.toggleSelected()
		case "ctrl+t":
			if s.readOnly {
				return nil
			}
			if a, ok := s.selected(); ok && s.assignments.ToggleIncluded(a.ID) {
				return fieldEdited()
			}
			return nil
		case "ctrl+f":
			if s.readOnly {
				return nil
			}
			return s.cycleFeatureLevel()
		case "ctrl+e":
			if s.readOnly {
				return nil
			}
			s.beginEditing()
			return nil
		case "ctrl+n":
			if s.readOnly {
				return nil
			}
			s.createForm = NewAddonForm()
			s.createForm.SetSize(s.width, s.height)
			s.searchInput.Blur()
			return s.createForm.Init()
		}
	}

	if s.readOnly {
		return nil
	}

	// Typing filters the catalog.
	var cmd tea.Cmd
	s.searchInput, cmd = s.searchInput.Update(msg)
	s.filter()
	return cmd
}

// toggleSelected assigns the addon under the cursor, or stages its removal
// behind the confirmation step. Adding never asks for confirmation; only
// state-losing operations do.
func (s *AddonsStep) toggleSelected() tea.Cmd {
	if s.readOnly {
		return nil
	}
	a, ok := s.selected()
	if !ok {
		return nil
	}
	if s.assignments.IsAssigned(a.ID) {
		id := a.ID
		s.confirmer.Request(a.ID, a.Name, func() {
			s.assignments.Remove(id)
		})
		return nil
	}
	s.assignments.Add(a)
	return fieldEdited()
}

// cycleFeatureLevel advances the selected assignment's feature level through
// the catalog entry's declared levels.
func (s *AddonsStep) cycleFeatureLevel() tea.Cmd {
	a, ok := s.selected()
	if !ok || len(a.FeatureLevels) == 0 {
		return nil
	}
	entry := s.form.Assignment(a.ID)
	if entry == nil {
		return nil
	}
	next := 0
	for i, level := range a.FeatureLevels {
		if level == entry.FeatureLevel {
			next = (i + 1) % len(a.FeatureLevels)
			break
		}
	}
	s.assignments.UpdateField(a.ID, assign.FieldFeatureLevel, a.FeatureLevels[next])
	return fieldEdited()
}

// beginEditing opens the quantity inputs for the selected assignment.
func (s *AddonsStep) beginEditing() {
	a, ok := s.selected()
	if !ok {
		return
	}
	entry := s.form.Assignment(a.ID)
	if entry == nil {
		return
	}

	s.editInputs[addonEditDefault] = newInput("default")
	s.editInputs[addonEditDefault].SetValue(entry.DefaultQuantity)
	s.editInputs[addonEditMin] = newInput("min")
	s.editInputs[addonEditMin].SetValue(entry.MinQuantity)
	s.editInputs[addonEditMax] = newInput("max")
	s.editInputs[addonEditMax].SetValue(entry.MaxQuantity)
	for i := range s.editInputs {
		s.editInputs[i].SetWidth(10)
	}

	s.editing = true
	s.editFocus = addonEditDefault
	s.searchInput.Blur()
	s.editInputs[s.editFocus].Focus()
}

// updateEditing handles quantity-edit mode: tab cycles the three inputs,
// enter or esc commits and returns to browsing.
func (s *AddonsStep) updateEditing(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab":
			s.editInputs[s.editFocus].Blur()
			s.editFocus = (s.editFocus + 1) % addonEditCount
			s.editInputs[s.editFocus].Focus()
			return nil
		case "shift+tab":
			s.editInputs[s.editFocus].Blur()
			s.editFocus = (s.editFocus - 1 + addonEditCount) % addonEditCount
			s.editInputs[s.editFocus].Focus()
			return nil
		case "enter", "esc":
			return s.commitEditing()
		}
	}

	var cmd tea.Cmd
	s.editInputs[s.editFocus], cmd = s.editInputs[s.editFocus].Update(msg)
	return cmd
}

// commitEditing writes the quantity inputs back to the assignment.
func (s *AddonsStep) commitEditing() tea.Cmd {
	s.editing = false
	s.searchInput.Focus()

	a, ok := s.selected()
	if !ok {
		return nil
	}
	changed := false
	changed = s.assignments.UpdateField(a.ID, assign.FieldDefaultQuantity,
		strings.TrimSpace(s.editInputs[addonEditDefault].Value())) || changed
	changed = s.assignments.UpdateField(a.ID, assign.FieldMinQuantity,
		strings.TrimSpace(s.editInputs[addonEditMin].Value())) || changed
	changed = s.assignments.UpdateField(a.ID, assign.FieldMaxQuantity,
		strings.TrimSpace(s.editInputs[addonEditMax].Value())) || changed
	if changed {
		return fieldEdited()
	}
	return nil
}

// View renders the step.
func (s *AddonsStep) View() string {
	if s.createForm != nil {
		return s.createForm.View()
	}

	if pending, ok := s.confirmer.Pending(); ok {
		return RenderConfirmationModal(
			"Remove add-on?",
			fmt.Sprintf("Removing %q discards its configuration. Re-adding starts from catalog defaults.", pending.ResourceName),
		)
	}

	t := theme.Current()
	var b strings.Builder

	if !s.readOnly {
		b.WriteString(s.searchInput.View())
		b.WriteString("\n\n")
	}

	if s.editing {
		if a, ok := s.selected(); ok {
			b.WriteString(t.S().FieldLabel.Render("Quantities for " + a.Name))
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("default %s  min %s  max %s\n\n",
				s.editInputs[addonEditDefault].View(),
				s.editInputs[addonEditMin].View(),
				s.editInputs[addonEditMax].View()))
			b.WriteString(renderHintBar("tab", "next", "enter", "done"))
			return b.String()
		}
	}

	if len(s.filtered) == 0 {
		empty := "No add-ons match your search"
		if s.readOnly {
			empty = "No add-ons assigned"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Render(empty))
		b.WriteString("\n\n")
	}

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))
	configStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))

	for i, a := range s.filtered {
		marker := "[ ]"
		if s.assignments.IsAssigned(a.ID) {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s  $%.2f/mo", marker, a.Name, a.MonthlyPrice)
		if i == s.selectedIdx {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		b.WriteString("\n")

		if entry := s.form.Assignment(a.ID); entry != nil {
			included := ""
			if entry.IsIncluded {
				included = ", included"
			}
			b.WriteString(configStyle.Render(fmt.Sprintf("      level %s, qty %s (%s-%s)%s",
				entry.FeatureLevel, entry.DefaultQuantity, entry.MinQuantity, entry.MaxQuantity, included)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if s.readOnly {
		b.WriteString(renderHintBar("↑↓", "navigate", "esc", "back"))
	} else {
		b.WriteString(renderHintBar(
			"enter", "assign/remove",
			"ctrl+f", "feature level",
			"ctrl+e", "quantities",
			"ctrl+t", "included",
			"ctrl+n", "new add-on",
		))
	}

	return b.String()
}
