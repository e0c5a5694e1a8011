package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentDefaultsToCatppuccinMocha(t *testing.T) {
	th := Current()
	assert.NotNil(t, th)
	assert.Equal(t, "catppuccin-mocha", th.Name)
	assert.True(t, th.IsDark)
}

func TestCatppuccinMochaPalette(t *testing.T) {
	th := NewCatppuccinMocha()

	// Every color the styles depend on must be populated.
	colors := map[string]string{
		"Primary":       th.Primary,
		"BgBase":        th.BgBase,
		"FgBase":        th.FgBase,
		"FgMuted":       th.FgMuted,
		"FgSubtle":      th.FgSubtle,
		"Success":       th.Success,
		"Warning":       th.Warning,
		"Error":         th.Error,
		"BorderDefault": th.BorderDefault,
		"BorderFocused": th.BorderFocused,
	}
	for name, value := range colors {
		assert.NotEmpty(t, value, "%s must be set", name)
		assert.Equal(t, byte('#'), value[0], "%s must be a hex color", name)
		assert.Len(t, value, 7, "%s must be #RRGGBB", name)
	}
}

func TestStylesLazyInit(t *testing.T) {
	th := NewCatppuccinMocha()
	s1 := th.S()
	s2 := th.S()
	assert.Same(t, s1, s2, "styles must be built once and cached")
}
