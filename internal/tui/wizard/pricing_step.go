package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/tui/theme"
)

// Fixed focusable elements of the pricing step, in tab order. Volume
// discount rows extend the tab order past pricingFieldCount, two inputs
// per row.
const (
	pricingFieldMonthly = iota
	pricingFieldSetup
	pricingFieldTrial
	pricingFieldInterval
	pricingFieldCount
)

// PricingStep edits the plan's pricing fields and the volume discount rows.
type PricingStep struct {
	form          *plan.Form
	readOnly      bool
	monthlyInput  textinput.Model
	setupInput    textinput.Model
	trialInput    textinput.Model
	discountRows  []discountRow
	focusIndex    int
	width, height int
}

// discountRow holds the two inputs of one volume discount entry.
type discountRow struct {
	qtyInput textinput.Model
	pctInput textinput.Model
}

// NewPricingStep creates the step bound to the given form.
func NewPricingStep(form *plan.Form, readOnly bool) *PricingStep {
	monthlyInput := newInput("e.g. 49.90")
	monthlyInput.SetValue(form.MonthlyPrice)

	setupInput := newInput("0")
	setupInput.SetValue(form.SetupFee)

	trialInput := newInput("0")
	trialInput.SetValue(form.TrialDays)

	s := &PricingStep{
		form:         form,
		readOnly:     readOnly,
		monthlyInput: monthlyInput,
		setupInput:   setupInput,
		trialInput:   trialInput,
	}
	for _, d := range form.VolumeDiscounts {
		s.discountRows = append(s.discountRows, newDiscountRow(d))
	}
	if !readOnly {
		s.monthlyInput.Focus()
	}
	return s
}

func newDiscountRow(d plan.VolumeDiscount) discountRow {
	qty := newInput("min qty")
	qty.SetValue(d.MinQuantity)
	qty.SetWidth(12)
	pct := newInput("% off")
	pct.SetValue(d.DiscountPercent)
	pct.SetWidth(12)
	return discountRow{qtyInput: qty, pctInput: pct}
}

// Init initializes the step.
func (s *PricingStep) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the dimensions for the step.
func (s *PricingStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.monthlyInput.SetWidth(width - 10)
	s.setupInput.SetWidth(width - 10)
	s.trialInput.SetWidth(width - 10)
}

// fieldCount returns the total number of focusable elements including
// discount row inputs.
func (s *PricingStep) fieldCount() int {
	return pricingFieldCount + len(s.discountRows)*2
}

// Focus focuses the first element.
func (s *PricingStep) Focus() {
	s.focusIndex = pricingFieldMonthly
	s.updateFocus()
}

// FocusLast focuses the last element.
func (s *PricingStep) FocusLast() {
	s.focusIndex = s.fieldCount() - 1
	s.updateFocus()
}

// Blur removes focus from all elements.
func (s *PricingStep) Blur() {
	s.focusIndex = -1
	s.updateFocus()
}

// Update handles messages for the step.
func (s *PricingStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab":
			if s.focusIndex >= s.fieldCount()-1 {
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
			if s.focusIndex == pricingFieldInterval && !s.readOnly {
				if s.form.BillingInterval == plan.IntervalMonth {
					s.form.BillingInterval = plan.IntervalYear
				} else {
					s.form.BillingInterval = plan.IntervalMonth
				}
				return fieldEdited()
			}
		case "ctrl+d":
			// Add a discount row and focus its quantity input.
			if s.readOnly {
				return nil
			}
			s.form.VolumeDiscounts = append(s.form.VolumeDiscounts, plan.VolumeDiscount{})
			s.discountRows = append(s.discountRows, newDiscountRow(plan.VolumeDiscount{}))
			s.focusIndex = pricingFieldCount + (len(s.discountRows)-1)*2
			s.updateFocus()
			return fieldEdited()
		case "ctrl+x":
			// Delete the discount row under focus.
			if s.readOnly {
				return nil
			}
			if row := s.focusedRow(); row >= 0 {
				s.form.VolumeDiscounts = append(
					s.form.VolumeDiscounts[:row:row], s.form.VolumeDiscounts[row+1:]...)
				s.discountRows = append(
					s.discountRows[:row:row], s.discountRows[row+1:]...)
				if s.focusIndex >= s.fieldCount() {
					s.focusIndex = s.fieldCount() - 1
				}
				s.updateFocus()
				return fieldEdited()
			}
		}
	}

	if s.readOnly {
		return nil
	}

	var cmd tea.Cmd
	switch s.focusIndex {
	case pricingFieldMonthly:
		s.monthlyInput, cmd = s.monthlyInput.Update(msg)
	case pricingFieldSetup:
		s.setupInput, cmd = s.setupInput.Update(msg)
	case pricingFieldTrial:
		s.trialInput, cmd = s.trialInput.Update(msg)
	default:
		if row := s.focusedRow(); row >= 0 {
			if s.focusedRowInput() == 0 {
				s.discountRows[row].qtyInput, cmd = s.discountRows[row].qtyInput.Update(msg)
			} else {
				s.discountRows[row].pctInput, cmd = s.discountRows[row].pctInput.Update(msg)
			}
		}
	}

	if s.syncForm() {
		return tea.Batch(cmd, fieldEdited())
	}
	return cmd
}

// focusedRow returns the discount row index under focus, or -1.
func (s *PricingStep) focusedRow() int {
	if s.focusIndex < pricingFieldCount {
		return -1
	}
	row := (s.focusIndex - pricingFieldCount) / 2
	if row >= len(s.discountRows) {
		return -1
	}
	return row
}

// focusedRowInput returns 0 for the quantity input, 1 for the percent input.
func (s *PricingStep) focusedRowInput() int {
	return (s.focusIndex - pricingFieldCount) % 2
}

// syncForm copies input values into the form, reporting changes.
func (s *PricingStep) syncForm() bool {
	changed := false

	if v := s.monthlyInput.Value(); v != s.form.MonthlyPrice {
		s.form.MonthlyPrice = v
		changed = true
	}
	if v := s.setupInput.Value(); v != s.form.SetupFee {
		s.form.SetupFee = v
		changed = true
	}
	if v := s.trialInput.Value(); v != s.form.TrialDays {
		s.form.TrialDays = v
		changed = true
	}
	for i := range s.discountRows {
		if v := s.discountRows[i].qtyInput.Value(); v != s.form.VolumeDiscounts[i].MinQuantity {
			s.form.VolumeDiscounts[i].MinQuantity = v
			changed = true
		}
		if v := s.discountRows[i].pctInput.Value(); v != s.form.VolumeDiscounts[i].DiscountPercent {
			s.form.VolumeDiscounts[i].DiscountPercent = v
			changed = true
		}
	}
	return changed
}

// updateFocus focuses the element at focusIndex and blurs the rest.
func (s *PricingStep) updateFocus() {
	s.monthlyInput.Blur()
	s.setupInput.Blur()
	s.trialInput.Blur()
	for i := range s.discountRows {
		s.discountRows[i].qtyInput.Blur()
		s.discountRows[i].pctInput.Blur()
	}
	if s.readOnly {
		return
	}
	switch s.focusIndex {
	case pricingFieldMonthly:
		s.monthlyInput.Focus()
	case pricingFieldSetup:
		s.setupInput.Focus()
	case pricingFieldTrial:
		s.trialInput.Focus()
	default:
		if row := s.focusedRow(); row >= 0 {
			if s.focusedRowInput() == 0 {
				s.discountRows[row].qtyInput.Focus()
			} else {
				s.discountRows[row].pctInput.Focus()
			}
		}
	}
}

// View renders the step.
func (s *PricingStep) View() string {
	t := theme.Current()
	label := t.S().FieldLabel
	var b strings.Builder

	b.WriteString(label.Render("Monthly Price"))
	b.WriteString("\n")
	b.WriteString(s.monthlyInput.View())
	b.WriteString("\n\n")

	b.WriteString(label.Render("Setup Fee"))
	b.WriteString("\n")
	b.WriteString(s.setupInput.View())
	b.WriteString("\n\n")

	b.WriteString(label.Render("Trial Days"))
	b.WriteString("\n")
	b.WriteString(s.trialInput.View())
	b.WriteString("\n\n")

	interval := "Billed monthly"
	if s.form.BillingInterval == plan.IntervalYear {
		interval = "Billed yearly"
	}
	b.WriteString(renderToggle(interval, s.form.BillingInterval == plan.IntervalYear,
		s.focusIndex == pricingFieldInterval))
	b.WriteString("\n\n")

	b.WriteString(label.Render(fmt.Sprintf("Volume Discounts (%d)", len(s.discountRows))))
	b.WriteString("\n")
	if len(s.discountRows) == 0 {
		b.WriteString(t.S().SectionLocked.Render("none"))
		b.WriteString("\n")
	}
	for i := range s.discountRows {
		b.WriteString(fmt.Sprintf("  %s  →  %s%%\n",
			s.discountRows[i].qtyInput.View(),
			s.discountRows[i].pctInput.View()))
	}
	b.WriteString("\n")

	if s.readOnly {
		b.WriteString(renderHintBar("tab", "next field", "esc", "back"))
	} else {
		b.WriteString(renderHintBar(
			"tab", "next field",
			"space", "toggle interval",
			"ctrl+d", "add discount",
			"ctrl+x", "remove discount",
		))
	}

	return b.String()
}
