package wizard

import (
	"bytes"
	"encoding/json"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/aymanbagabas/go-udiff"

	"github.com/planforge/planforge/internal/tui/theme"
)

// draftDiff produces a unified diff between the all-defaults baseline and a
// recovered draft snapshot so the recovery prompt can show exactly what
// restoring would bring back. Both snapshots are indented first; diffing two
// single-line JSON blobs tells the user nothing.
func draftDiff(baseline, snapshot string) string {
	return udiff.Unified("defaults", "draft", indentJSON(baseline), indentJSON(snapshot))
}

// indentJSON pretty-prints a JSON string, returning it unchanged on error.
func indentJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String() + "\n"
}

// RenderRecoveryModal renders the blocking draft-recovery prompt. The diff
// is truncated to fit; the user chooses restore or start fresh before the
// wizard becomes interactive.
func RenderRecoveryModal(diff string, maxHeight int) string {
	t := theme.Current()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Info)).
		MarginBottom(1)
	titleText := titleStyle.Render("Unsaved draft found")

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1)
	messageText := messageStyle.Render("A previous session left an unsaved plan draft. Restore it?")

	diffText := renderDiffLines(diff, maxHeight)

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))
	buttons := buttonStyle.Render("Press Y to restore, N to start fresh")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleText,
		messageText,
		diffText,
		"",
		buttons,
	)

	modalStyle := lipgloss.NewStyle().
		Width(70).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Info))

	return modalStyle.Render(content)
}

// renderDiffLines colorizes and truncates unified diff output.
func renderDiffLines(diff string, maxLines int) string {
	if maxLines < 5 {
		maxLines = 5
	}

	t := theme.Current()
	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	delStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error))
	ctxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	truncated := false
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		truncated = true
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(delStyle.Render(line))
		default:
			b.WriteString(ctxStyle.Render(line))
		}
	}
	if truncated {
		b.WriteString("\n")
		b.WriteString(ctxStyle.Render("…"))
	}
	return b.String()
}
