package assign

import (
	"encoding/json"
	"testing"

	"github.com/planforge/planforge/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_RequestThenConfirmApplies(t *testing.T) {
	form := plan.NewForm()
	a := NewAssignments(form)
	a.Add(seatAddon())
	c := NewConfirmer()

	c.Request(1, "Extra Seats", func() { a.Remove(1) })
	require.True(t, c.Active())

	pending, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, 1, pending.ResourceID)
	assert.Equal(t, "Extra Seats", pending.ResourceName)

	// Nothing mutated until confirm.
	assert.Len(t, form.AddonAssignments, 1)

	require.True(t, c.Confirm())
	assert.Empty(t, form.AddonAssignments)
	assert.False(t, c.Active())
}

func TestConfirmer_CancelLeavesListByteIdentical(t *testing.T) {
	form := plan.NewForm()
	a := NewAssignments(form)
	a.Add(seatAddon())
	a.UpdateField(1, FieldDefaultQuantity, "7")

	before, err := json.Marshal(form.AddonAssignments)
	require.NoError(t, err)

	c := NewConfirmer()
	c.Request(1, "Extra Seats", func() { a.Remove(1) })
	c.Cancel()

	after, err := json.Marshal(form.AddonAssignments)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.False(t, c.Active())
}

func TestConfirmer_ConfirmWithoutRequestIsNoOp(t *testing.T) {
	c := NewConfirmer()
	assert.False(t, c.Confirm())
}

func TestConfirmer_NewerRequestReplacesPending(t *testing.T) {
	var applied []int
	c := NewConfirmer()

	c.Request(1, "first", func() { applied = append(applied, 1) })
	c.Request(2, "second", func() { applied = append(applied, 2) })
	c.Confirm()

	assert.Equal(t, []int{2}, applied, "only the latest request may apply")
}
