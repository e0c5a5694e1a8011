package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/theme"
)

// Inputs of the creation form, in tab order.
const (
	addonFormName = iota
	addonFormDescription
	addonFormPrice
	addonFormDefaultQty
	addonFormMinQty
	addonFormMaxQty
	addonFormLevels
	addonFormCount
)

// AddonForm is the inline creation sub-flow for a new catalog add-on.
// It validates against its own schema, independent of the plan form. While
// a submission is in flight all input is suppressed; on failure the form
// stays open and shows the error.
type AddonForm struct {
	inputs     [addonFormCount]textinput.Model
	focusIndex int
	err        string
	inFlight   bool
	width      int
	height     int
}

// NewAddonForm creates an empty creation form.
func NewAddonForm() *AddonForm {
	f := &AddonForm{}
	f.inputs[addonFormName] = newInput("e.g. 'Priority Backups'")
	f.inputs[addonFormDescription] = newInput("short description")
	f.inputs[addonFormPrice] = newInput("monthly price, e.g. 5.00")
	f.inputs[addonFormDefaultQty] = newInput("1")
	f.inputs[addonFormDefaultQty].SetValue("1")
	f.inputs[addonFormMinQty] = newInput("1")
	f.inputs[addonFormMinQty].SetValue("1")
	f.inputs[addonFormMaxQty] = newInput("10")
	f.inputs[addonFormMaxQty].SetValue("10")
	f.inputs[addonFormLevels] = newInput("comma-separated, e.g. standard,premium")
	f.inputs[addonFormName].Focus()
	return f
}

// Init initializes the form.
func (f *AddonForm) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dimensions for the form.
func (f *AddonForm) SetSize(width, height int) {
	f.width = width
	f.height = height
	for i := range f.inputs {
		f.inputs[i].SetWidth(width - 14)
	}
}

// InFlight reports whether a creation submission is outstanding.
func (f *AddonForm) InFlight() bool {
	return f.inFlight
}

// Fail surfaces a creation failure and re-enables the form.
func (f *AddonForm) Fail(err error) {
	f.inFlight = false
	f.err = err.Error()
}

// Update handles messages for the form.
func (f *AddonForm) Update(msg tea.Msg) tea.Cmd {
	if f.inFlight {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab":
			f.inputs[f.focusIndex].Blur()
			f.focusIndex = (f.focusIndex + 1) % addonFormCount
			f.inputs[f.focusIndex].Focus()
			return nil
		case "shift+tab":
			f.inputs[f.focusIndex].Blur()
			f.focusIndex = (f.focusIndex - 1 + addonFormCount) % addonFormCount
			f.inputs[f.focusIndex].Focus()
			return nil
		case "enter":
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focusIndex], cmd = f.inputs[f.focusIndex].Update(msg)
	if f.err != "" {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			f.err = ""
		}
	}
	return cmd
}

// submit validates the form and emits the creation request.
func (f *AddonForm) submit() tea.Cmd {
	addon, err := f.validate()
	if err != nil {
		f.err = err.Error()
		return nil
	}
	f.err = ""
	f.inFlight = true
	return func() tea.Msg {
		return AddonCreateRequestMsg{Addon: addon}
	}
}

// validate checks the form against the add-on schema and builds the entity.
func (f *AddonForm) validate() (plan.Addon, error) {
	name := strings.TrimSpace(f.inputs[addonFormName].Value())
	if name == "" {
		return plan.Addon{}, fmt.Errorf("name cannot be empty")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(f.inputs[addonFormPrice].Value()), 64)
	if err != nil || price < 0 {
		return plan.Addon{}, fmt.Errorf("monthly price must be a non-negative number")
	}

	defQty, err := strconv.Atoi(strings.TrimSpace(f.inputs[addonFormDefaultQty].Value()))
	if err != nil || defQty < 0 {
		return plan.Addon{}, fmt.Errorf("default quantity must be a non-negative integer")
	}
	minQty, err := strconv.Atoi(strings.TrimSpace(f.inputs[addonFormMinQty].Value()))
	if err != nil || minQty < 0 {
		return plan.Addon{}, fmt.Errorf("min quantity must be a non-negative integer")
	}
	maxQty, err := strconv.Atoi(strings.TrimSpace(f.inputs[addonFormMaxQty].Value()))
	if err != nil || maxQty < 0 {
		return plan.Addon{}, fmt.Errorf("max quantity must be a non-negative integer")
	}
	if minQty > defQty || defQty > maxQty {
		return plan.Addon{}, fmt.Errorf("quantities must satisfy min ≤ default ≤ max")
	}

	var levels []string
	for _, level := range strings.Split(f.inputs[addonFormLevels].Value(), ",") {
		if level = strings.TrimSpace(level); level != "" {
			levels = append(levels, level)
		}
	}

	return plan.Addon{
		Name:            name,
		Description:     strings.TrimSpace(f.inputs[addonFormDescription].Value()),
		MonthlyPrice:    price,
		DefaultQuantity: defQty,
		MinQuantity:     minQty,
		MaxQuantity:     maxQty,
		FeatureLevels:   levels,
	}, nil
}

// View renders the form.
func (f *AddonForm) View() string {
	t := theme.Current()
	label := t.S().FieldLabel
	var b strings.Builder

	b.WriteString(t.S().HeaderTitle.Render("New Add-on"))
	b.WriteString("\n\n")

	labels := [addonFormCount]string{
		"Name", "Description", "Monthly Price",
		"Default Quantity", "Min Quantity", "Max Quantity",
		"Feature Levels",
	}
	for i := range f.inputs {
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	if f.inFlight {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Render("Creating..."))
		b.WriteString("\n")
	} else if f.err != "" {
		b.WriteString(t.S().FieldError.Render("✗ " + f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(renderHintBar("tab", "next field", "enter", "create", "esc", "cancel"))

	return b.String()
}
