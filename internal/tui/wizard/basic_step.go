package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/gosimple/slug"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/theme"
)

// Focusable elements of the basic info step, in tab order.
const (
	basicFieldName = iota
	basicFieldCode
	basicFieldDescription
	basicFieldActive
	basicFieldPublic
	basicFieldCount
)

// BasicStep edits the plan's identity fields: name, code, description, and
// the active/public flags. The code field follows the slugified name until
// the user edits it by hand.
type BasicStep struct {
	form       *plan.Form
	readOnly   bool
	nameInput  textinput.Model
	codeInput  textinput.Model
	descInput  textarea.Model
	focusIndex int
	// Once the user types into the code field directly, stop deriving it
	// from the name.
	codeTouched bool
	width       int
	height      int
}

// NewBasicStep creates the step bound to the given form.
func NewBasicStep(form *plan.Form, readOnly bool) *BasicStep {
	nameInput := newInput("e.g. 'Premium Plan'")
	nameInput.SetValue(form.Name)
	nameInput.CharLimit = 120

	codeInput := newInput("derived from name")
	codeInput.SetValue(form.Code)

	descInput := textarea.New()
	descInput.Placeholder = "What does this plan offer?"
	descInput.CharLimit = 2000
	descInput.SetHeight(4)
	descInput.SetWidth(50)
	descInput.SetValue(form.Description)

	// A code that does not match the slugified name was set deliberately;
	// keep it instead of overwriting on the next name keystroke.
	codeTouched := form.Code != "" && form.Code != slug.Make(form.Name)

	s := &BasicStep{
		form:        form,
		readOnly:    readOnly,
		nameInput:   nameInput,
		codeInput:   codeInput,
		descInput:   descInput,
		codeTouched: codeTouched,
	}
	if !readOnly {
		s.nameInput.Focus()
	}
	return s
}

// Init initializes the step.
func (s *BasicStep) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dimensions for the step.
func (s *BasicStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.nameInput.SetWidth(width - 10)
	s.codeInput.SetWidth(width - 10)
	s.descInput.SetWidth(width - 10)
}

// Focus focuses the first element.
func (s *BasicStep) Focus() {
	s.focusIndex = basicFieldName
	s.updateFocus()
}

// FocusLast focuses the last element.
func (s *BasicStep) FocusLast() {
	s.focusIndex = basicFieldPublic
	s.updateFocus()
}

// Blur removes focus from all elements.
func (s *BasicStep) Blur() {
	s.focusIndex = -1
	s.updateFocus()
}

// Update handles messages for the step.
func (s *BasicStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if ok {
		switch keyMsg.String() {
		case "tab":
			if s.focusIndex >= basicFieldCount-1 {
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
			switch s.focusIndex {
			case basicFieldActive:
				if s.readOnly {
					return nil
				}
				s.form.Active = !s.form.Active
				return fieldEdited()
			case basicFieldPublic:
				if s.readOnly {
					return nil
				}
				s.form.Public = !s.form.Public
				return fieldEdited()
			}
			// Otherwise the key belongs to the focused input (space in a
			// name, newline in the description) and falls through below.
		}
	}

	if s.readOnly {
		return nil
	}

	var cmd tea.Cmd
	switch s.focusIndex {
	case basicFieldName:
		s.nameInput, cmd = s.nameInput.Update(msg)
	case basicFieldCode:
		s.codeInput, cmd = s.codeInput.Update(msg)
		if ok {
			s.codeTouched = true
		}
	case basicFieldDescription:
		s.descInput, cmd = s.descInput.Update(msg)
	}

	if s.syncForm() {
		return tea.Batch(cmd, fieldEdited())
	}
	return cmd
}

// syncForm copies input values into the form and reports whether anything
// changed. The code field tracks the slugified name until touched.
func (s *BasicStep) syncForm() bool {
	changed := false

	name := s.nameInput.Value()
	if name != s.form.Name {
		s.form.Name = name
		changed = true
	}

	if !s.codeTouched {
		derived := slug.Make(name)
		if derived != s.codeInput.Value() {
			s.codeInput.SetValue(derived)
		}
	}
	code := strings.TrimSpace(s.codeInput.Value())
	if code != s.form.Code {
		s.form.Code = code
		changed = true
	}

	desc := s.descInput.Value()
	if desc != s.form.Description {
		s.form.Description = desc
		changed = true
	}

	return changed
}

// updateFocus focuses the element at focusIndex and blurs the rest.
func (s *BasicStep) updateFocus() {
	s.nameInput.Blur()
	s.codeInput.Blur()
	s.descInput.Blur()
	if s.readOnly {
		return
	}
	switch s.focusIndex {
	case basicFieldName:
		s.nameInput.Focus()
	case basicFieldCode:
		s.codeInput.Focus()
	case basicFieldDescription:
		s.descInput.Focus()
	}
}

// View renders the step.
func (s *BasicStep) View() string {
	t := theme.Current()
	label := t.S().FieldLabel
	var b strings.Builder

	b.WriteString(label.Render("Name"))
	b.WriteString("\n")
	b.WriteString(s.nameInput.View())
	b.WriteString("\n\n")

	b.WriteString(label.Render("Code"))
	b.WriteString("\n")
	b.WriteString(s.codeInput.View())
	b.WriteString("\n\n")

	b.WriteString(label.Render("Description"))
	b.WriteString("\n")
	b.WriteString(s.descInput.View())
	b.WriteString("\n\n")

	b.WriteString(renderToggle("Active", s.form.Active, s.focusIndex == basicFieldActive))
	b.WriteString("\n")
	b.WriteString(renderToggle("Publicly listed", s.form.Public, s.focusIndex == basicFieldPublic))
	b.WriteString("\n\n")

	if s.readOnly {
		b.WriteString(renderHintBar("tab", "next field", "esc", "back"))
	} else {
		b.WriteString(renderHintBar("tab", "next field", "space", "toggle", "esc", "back"))
	}

	return b.String()
}
