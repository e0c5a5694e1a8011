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

// SLAStep manages the flat SLA selection: a filterable catalog list where
// entries toggle in and out of the plan's support_sla_ids, with removal
// routed through the confirmation step.
type SLAStep struct {
	form      *plan.Form
	catalog   *plan.Catalog
	selection *assign.Selection
	confirmer *assign.Confirmer
	readOnly  bool

	searchInput textinput.Model
	filtered    []plan.SupportSLA
	selectedIdx int

	width, height int
}

// NewSLAStep creates the step bound to the given form and catalog.
func NewSLAStep(form *plan.Form, catalog *plan.Catalog, readOnly bool) *SLAStep {
	searchInput := newInput("Type to filter SLAs...")
	searchInput.Prompt = "Search: "

	s := &SLAStep{
		form:        form,
		catalog:     catalog,
		selection:   assign.NewSelection(form),
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
func (s *SLAStep) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dimensions for the step.
func (s *SLAStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.searchInput.SetWidth(width - 12)
}

// Focus focuses the search input.
func (s *SLAStep) Focus() {
	if !s.readOnly {
		s.searchInput.Focus()
	}
}

// FocusLast focuses the search input; the step has a single entry point.
func (s *SLAStep) FocusLast() {
	s.Focus()
}

// Blur removes focus.
func (s *SLAStep) Blur() {
	s.searchInput.Blur()
}

// ConfirmPending reports whether a removal confirmation is showing.
func (s *SLAStep) ConfirmPending() bool {
	return s.confirmer.Active()
}

// filter recomputes the visible catalog from the search query. In read-only
// mode only selected SLAs are listed.
func (s *SLAStep) filter() {
	query := strings.ToLower(strings.TrimSpace(s.searchInput.Value()))

	s.filtered = s.filtered[:0]
	for _, sla := range s.catalog.SLAs {
		if s.readOnly && !s.selection.IsSelected(sla.ID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(sla.Name), query) {
			continue
		}
		s.filtered = append(s.filtered, sla)
	}

	if s.selectedIdx >= len(s.filtered) {
		s.selectedIdx = 0
	}
}

// Update handles messages for the step.
func (s *SLAStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, isKey := msg.(tea.KeyPressMsg)

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
		}
	}

	if s.readOnly {
		return nil
	}

	var cmd tea.Cmd
	s.searchInput, cmd = s.searchInput.Update(msg)
	s.filter()
	return cmd
}

// toggleSelected selects the SLA under the cursor, or stages its removal
// behind the confirmation step.
func (s *SLAStep) toggleSelected() tea.Cmd {
	if s.readOnly {
		return nil
	}
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	sla := s.filtered[s.selectedIdx]

	if s.selection.IsSelected(sla.ID) {
		id := sla.ID
		s.confirmer.Request(sla.ID, sla.Name, func() {
			s.selection.Remove(id)
		})
		return nil
	}
	s.selection.Toggle(sla.ID)
	return fieldEdited()
}

// View renders the step.
func (s *SLAStep) View() string {
	if pending, ok := s.confirmer.Pending(); ok {
		return RenderConfirmationModal(
			"Remove SLA?",
			fmt.Sprintf("Remove %q from this plan?", pending.ResourceName),
		)
	}

	t := theme.Current()
	var b strings.Builder

	if !s.readOnly {
		b.WriteString(s.searchInput.View())
		b.WriteString("\n\n")
	}

	if len(s.filtered) == 0 {
		empty := "No SLAs match your search"
		if s.readOnly {
			empty = "No SLAs selected"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Render(empty))
		b.WriteString("\n\n")
	}

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))

	for i, sla := range s.filtered {
		marker := "[ ]"
		if s.selection.IsSelected(sla.ID) {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s  %dh response, %.2f%% uptime, $%.2f/mo",
			marker, sla.Name, sla.ResponseHours, sla.UptimePercent, sla.MonthlyPrice)
		if i == s.selectedIdx {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.readOnly {
		b.WriteString(renderHintBar("↑↓", "navigate", "esc", "back"))
	} else {
		b.WriteString(renderHintBar("↑↓", "navigate", "enter", "select/remove", "tab", "buttons"))
	}

	return b.String()
}
