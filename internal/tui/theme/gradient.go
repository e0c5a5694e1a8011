package theme

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

// ApplyGradient colors each rune of text along a linear blend from the
// start hex color to the end hex color.
func ApplyGradient(text, start, end string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	r1, g1, b1 := parseHex(start)
	r2, g2, b2 := parseHex(end)

	var b strings.Builder
	steps := len(runes) - 1
	if steps == 0 {
		steps = 1
	}
	for i, r := range runes {
		t := float64(i) / float64(steps)
		color := fmt.Sprintf("#%02x%02x%02x",
			lerp(r1, r2, t), lerp(g1, g2, t), lerp(b1, b2, t))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	return b.String()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func parseHex(s string) (r, g, b uint8) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	rv, _ := strconv.ParseUint(s[0:2], 16, 8)
	gv, _ := strconv.ParseUint(s[2:4], 16, 8)
	bv, _ := strconv.ParseUint(s[4:6], 16, 8)
	return uint8(rv), uint8(gv), uint8(bv)
}
