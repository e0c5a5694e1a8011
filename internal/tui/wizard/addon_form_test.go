package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formWithValues(name, price, defQty, minQty, maxQty, levels string) *AddonForm {
	f := NewAddonForm()
	f.inputs[addonFormName].SetValue(name)
	f.inputs[addonFormPrice].SetValue(price)
	f.inputs[addonFormDefaultQty].SetValue(defQty)
	f.inputs[addonFormMinQty].SetValue(minQty)
	f.inputs[addonFormMaxQty].SetValue(maxQty)
	f.inputs[addonFormLevels].SetValue(levels)
	return f
}

func TestAddonForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    *AddonForm
		wantErr string
	}{
		{
			name: "valid",
			form: formWithValues("Priority Backups", "12.50", "1", "1", "10", "standard, premium"),
		},
		{
			name:    "empty name",
			form:    formWithValues("", "5", "1", "1", "10", ""),
			wantErr: "name",
		},
		{
			name:    "price not a number",
			form:    formWithValues("X", "free", "1", "1", "10", ""),
			wantErr: "price",
		},
		{
			name:    "negative price",
			form:    formWithValues("X", "-1", "1", "1", "10", ""),
			wantErr: "price",
		},
		{
			name:    "default below min",
			form:    formWithValues("X", "5", "1", "2", "10", ""),
			wantErr: "quantities",
		},
		{
			name:    "default above max",
			form:    formWithValues("X", "5", "20", "1", "10", ""),
			wantErr: "quantities",
		},
		{
			name:    "quantity not an integer",
			form:    formWithValues("X", "5", "one", "1", "10", ""),
			wantErr: "default quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addon, err := tt.form.validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Priority Backups", addon.Name)
			assert.InDelta(t, 12.5, addon.MonthlyPrice, 0.001)
			assert.Equal(t, []string{"standard", "premium"}, addon.FeatureLevels)
		})
	}
}

func TestAddonForm_SubmitSetsInFlight(t *testing.T) {
	f := formWithValues("Priority Backups", "12.50", "1", "1", "10", "standard")

	cmd := f.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	assert.True(t, f.InFlight())

	msg, ok := cmd().(AddonCreateRequestMsg)
	require.True(t, ok)
	assert.Equal(t, "Priority Backups", msg.Addon.Name)
}

func TestAddonForm_InvalidSubmitStaysOpen(t *testing.T) {
	f := formWithValues("", "5", "1", "1", "10", "")

	assert.Nil(t, f.Update(keyPress("enter")))
	assert.False(t, f.InFlight())
	assert.NotEmpty(t, f.err)
}

func TestAddonForm_InFlightSuppressesInput(t *testing.T) {
	f := formWithValues("Priority Backups", "12.50", "1", "1", "10", "")
	f.inFlight = true

	before := f.inputs[addonFormName].Value()
	assert.Nil(t, f.Update(keyPress("x")))
	assert.Equal(t, before, f.inputs[addonFormName].Value())
}

func TestAddonForm_FailReopens(t *testing.T) {
	f := formWithValues("Priority Backups", "12.50", "1", "1", "10", "")
	f.inFlight = true

	f.Fail(errors.New("catalog unavailable"))
	assert.False(t, f.InFlight())
	assert.Equal(t, "catalog unavailable", f.err)
}
