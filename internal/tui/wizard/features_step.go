package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/theme"
)

// Focusable elements of the features step, in tab order.
const (
	featuresFieldAPI = iota
	featuresFieldSSO
	featuresFieldAudit
	featuresFieldUserLimit
	featuresFieldStorage
	featuresFieldCount
)

// FeaturesStep edits the plan's feature flags and usage limits.
type FeaturesStep struct {
	form          *plan.Form
	readOnly      bool
	userInput     textinput.Model
	storageInput  textinput.Model
	focusIndex    int
	width, height int
}

// NewFeaturesStep creates the step bound to the given form.
func NewFeaturesStep(form *plan.Form, readOnly bool) *FeaturesStep {
	userInput := newInput("e.g. 25")
	userInput.SetValue(form.UserLimit)

	storageInput := newInput("e.g. 100")
	storageInput.SetValue(form.StorageLimitGB)

	return &FeaturesStep{
		form:         form,
		readOnly:     readOnly,
		userInput:    userInput,
		storageInput: storageInput,
	}
}

// Init initializes the step.
func (s *FeaturesStep) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dimensions for the step.
func (s *FeaturesStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.userInput.SetWidth(width - 10)
	s.storageInput.SetWidth(width - 10)
}

// Focus focuses the first element.
func (s *FeaturesStep) Focus() {
	s.focusIndex = featuresFieldAPI
	s.updateFocus()
}

// FocusLast focuses the last element.
func (s *FeaturesStep) FocusLast() {
	s.focusIndex = featuresFieldStorage
	s.updateFocus()
}

// Blur removes focus from all elements.
func (s *FeaturesStep) Blur() {
	s.focusIndex = -1
	s.updateFocus()
}

// Update handles messages for the step.
func (s *FeaturesStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab":
			if s.focusIndex >= featuresFieldCount-1 {
				return func() tea.Msg { return TabExitForwardMsg{} }
			}
			s.focusIndex++
			s.updateFocus()
			return nil
		case "shift+tab":
			if s.focusIndex <= 0 {
				return func() tea.Msg { return TabExitBackwardMsg{} }
			}
			s.focusIndex--
			s.updateFocus()
			return nil
		case " ", "enter":
			if s.readOnly {
				return nil
			}
			switch s.focusIndex {
			case featuresFieldAPI:
				s.form.APIAccess = !s.form.APIAccess
				return fieldEdited()
			case featuresFieldSSO:
				s.form.SSO = !s.form.SSO
				return fieldEdited()
			case featuresFieldAudit:
				s.form.AuditLogs = !s.form.AuditLogs
				return fieldEdited()
			}
		}
	}

	if s.readOnly {
		return nil
	}

	var cmd tea.Cmd
	switch s.focusIndex {
	case featuresFieldUserLimit:
		s.userInput, cmd = s.userInput.Update(msg)
	case featuresFieldStorage:
		s.storageInput, cmd = s.storageInput.Update(msg)
	}

	if s.syncForm() {
		return tea.Batch(cmd, fieldEdited())
	}
	return cmd
}

// syncForm copies input values into the form, reporting changes.
func (s *FeaturesStep) syncForm() bool {
	changed := false
	if v := s.userInput.Value(); v != s.form.UserLimit {
		s.form.UserLimit = v
		changed = true
	}
	if v := s.storageInput.Value(); v != s.form.StorageLimitGB {
		s.form.StorageLimitGB = v
		changed = true
	}
	return changed
}

// updateFocus focuses the element at focusIndex and blurs the rest.
func (s *FeaturesStep) updateFocus() {
	s.userInput.Blur()
	s.storageInput.Blur()
	if s.readOnly {
		return
	}
	switch s.focusIndex {
	case featuresFieldUserLimit:
		s.userInput.Focus()
	case featuresFieldStorage:
		s.storageInput.Focus()
	}
}

// View renders the step.
func (s *FeaturesStep) View() string {
	t := theme.Current()
	label := t.S().FieldLabel
	var b strings.Builder

	b.WriteString(renderToggle("API access", s.form.APIAccess, s.focusIndex == featuresFieldAPI))
	b.WriteString("\n")
	b.WriteString(renderToggle("Single sign-on", s.form.SSO, s.focusIndex == featuresFieldSSO))
	b.WriteString("\n")
	b.WriteString(renderToggle("Audit logs", s.form.AuditLogs, s.focusIndex == featuresFieldAudit))
	b.WriteString("\n\n")

	b.WriteString(label.Render("User Limit"))
	b.WriteString("\n")
	b.WriteString(s.userInput.View())
	b.WriteString("\n\n")

	b.WriteString(label.Render("Storage Limit (GB)"))
	b.WriteString("\n")
	b.WriteString(s.storageInput.View())
	b.WriteString("\n\n")

	if s.readOnly {
		b.WriteString(renderHintBar("tab", "next field", "esc", "back"))
	} else {
		b.WriteString(renderHintBar("tab", "next field", "space", "toggle", "esc", "back"))
	}

	return b.String()
}
