// Package nav owns the wizard's section order and the tab-unlock state
// machine that gates navigation between sections.
package nav

import (
	"fmt"

	"github.com/planforge/planforge/internal/plan"
)

// Section identifies one step of the wizard. The declaration order is the
// wizard's step sequence; SectionSLA is the terminal forward state where
// submission is offered.
type Section int

const (
	SectionBasic Section = iota
	SectionPricing
	SectionFeatures
	SectionAddons
	SectionSLA
)

// Sections returns all sections in wizard order.
func Sections() []Section {
	return []Section{SectionBasic, SectionPricing, SectionFeatures, SectionAddons, SectionSLA}
}

// String returns the stable identifier persisted as the active-section marker.
func (s Section) String() string {
	switch s {
	case SectionBasic:
		return "basic"
	case SectionPricing:
		return "pricing"
	case SectionFeatures:
		return "features"
	case SectionAddons:
		return "addons"
	case SectionSLA:
		return "sla"
	default:
		return "unknown"
	}
}

// Title returns the human-readable tab label.
func (s Section) Title() string {
	switch s {
	case SectionBasic:
		return "Basic Info"
	case SectionPricing:
		return "Pricing"
	case SectionFeatures:
		return "Features"
	case SectionAddons:
		return "Add-ons"
	case SectionSLA:
		return "Support SLAs"
	default:
		return "Unknown"
	}
}

// ParseSection parses a persisted section marker back to a Section.
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections() {
		if sec.String() == s {
			return sec, nil
		}
	}
	return SectionBasic, fmt.Errorf("unknown section: %q", s)
}

// Machine tracks the current section and performs guarded transitions.
// Unlock state is derived, never stored: callers pass the live per-section
// validity on every transition so the waterfall is always recomputed from
// the current form state.
type Machine struct {
	current Section
	mode    plan.Mode
}

// New creates a machine positioned at the first section.
func New(mode plan.Mode) *Machine {
	return &Machine{current: SectionBasic, mode: mode}
}

// Current returns the current section.
func (m *Machine) Current() Section {
	return m.current
}

// Mode returns the wizard mode the machine was built for.
func (m *Machine) Mode() plan.Mode {
	return m.mode
}

// Restore positions the machine at a persisted section without gating.
// Used when recovering a draft's active-section marker.
func (m *Machine) Restore(s Section) {
	m.current = s
}

// Unlocked derives the tab-unlock map from per-section validity.
// The first section is always unlocked; a later section is unlocked only if
// every strictly-earlier section is currently valid. View mode bypasses
// gating entirely since it never mutates. An earlier section turning invalid
// re-locks everything after it on the next derivation.
func (m *Machine) Unlocked(perSection map[Section]bool) map[Section]bool {
	unlocked := make(map[Section]bool, len(Sections()))
	if m.mode == plan.ModeView {
		for _, s := range Sections() {
			unlocked[s] = true
		}
		return unlocked
	}

	open := true
	for _, s := range Sections() {
		unlocked[s] = open
		open = open && perSection[s]
	}
	return unlocked
}

// GoTo jumps to a section if it is unlocked. Jumping to a locked section is
// a silent no-op: the tab UI is expected to disable locked tabs, but a stale
// view must not be able to force an illegal transition.
func (m *Machine) GoTo(s Section, perSection map[Section]bool) bool {
	if !m.Unlocked(perSection)[s] {
		return false
	}
	m.current = s
	return true
}

// Next advances to the following section. In mutable modes the current
// section must be valid; in view mode there is nothing to validate and Next
// always advances. At the last section Next is a no-op; the orchestrator
// reinterprets it as the submit action.
func (m *Machine) Next(currentValid bool) bool {
	if m.current >= SectionSLA {
		return false
	}
	if m.mode != plan.ModeView && !currentValid {
		return false
	}
	m.current++
	return true
}

// Previous moves back one section. Going backward never requires validity.
func (m *Machine) Previous() bool {
	if m.current <= SectionBasic {
		return false
	}
	m.current--
	return true
}

// AtLast reports whether the machine is at the terminal forward section.
func (m *Machine) AtLast() bool {
	return m.current == SectionSLA
}
