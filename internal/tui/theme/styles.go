package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles shared across the TUI.
type Styles struct {
	HeaderTitle     lipgloss.Style
	SectionActive   lipgloss.Style
	SectionUnlocked lipgloss.Style
	SectionLocked   lipgloss.Style
	FieldLabel      lipgloss.Style
	FieldError      lipgloss.Style
}
