// Package assign manages the plan's child-resource lists: configured add-on
// assignments, the flat SLA selection, and the confirmation step that guards
// destructive removals.
package assign

import (
	"strconv"

	"github.com/planforge/planforge/internal/plan"
)

// Field identifies one editable configuration field of an assignment.
// A closed enum, not open string matching, so an unknown field is a
// compile-time impossibility rather than a silent no-op.
type Field int

const (
	FieldFeatureLevel Field = iota
	FieldDefaultQuantity
	FieldMinQuantity
	FieldMaxQuantity
)

// Assignments mutates the ordered add-on assignment list inside a form.
// All operations are keyed by addon ID, never by list position; the list
// preserves insertion order for display stability and never holds two
// entries with the same ID.
type Assignments struct {
	form *plan.Form
}

// NewAssignments wraps the assignment list of the given form.
func NewAssignments(form *plan.Form) *Assignments {
	return &Assignments{form: form}
}

// IsAssigned reports whether the add-on is currently assigned.
func (a *Assignments) IsAssigned(addonID int) bool {
	return a.form.Assignment(addonID) != nil
}

// Add synthesizes a new assignment seeded from the catalog entry's defaults
// and appends it. Adding an already-assigned add-on is a no-op, which keeps
// the ID-uniqueness invariant under repeated toggles.
func (a *Assignments) Add(addon plan.Addon) bool {
	if a.IsAssigned(addon.ID) {
		return false
	}
	a.form.AddonAssignments = append(a.form.AddonAssignments, plan.AddonAssignment{
		AddonID:         addon.ID,
		FeatureLevel:    addon.DefaultFeatureLevel(),
		IsIncluded:      false,
		DefaultQuantity: strconv.Itoa(addon.DefaultQuantity),
		MinQuantity:     strconv.Itoa(addon.MinQuantity),
		MaxQuantity:     strconv.Itoa(addon.MaxQuantity),
	})
	return true
}

// Remove deletes the assignment entirely, discarding its configuration.
// Re-adding later reseeds from catalog defaults; that loss is intentional.
func (a *Assignments) Remove(addonID int) bool {
	list := a.form.AddonAssignments
	for i := range list {
		if list[i].AddonID == addonID {
			a.form.AddonAssignments = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateField mutates a single configuration field of one assignment
// without touching the others. Returns false if the add-on is not assigned.
func (a *Assignments) UpdateField(addonID int, field Field, value string) bool {
	entry := a.form.Assignment(addonID)
	if entry == nil {
		return false
	}
	switch field {
	case FieldFeatureLevel:
		entry.FeatureLevel = value
	case FieldDefaultQuantity:
		entry.DefaultQuantity = value
	case FieldMinQuantity:
		entry.MinQuantity = value
	case FieldMaxQuantity:
		entry.MaxQuantity = value
	}
	return true
}

// ToggleIncluded flips the is_included flag of one assignment.
func (a *Assignments) ToggleIncluded(addonID int) bool {
	entry := a.form.Assignment(addonID)
	if entry == nil {
		return false
	}
	entry.IsIncluded = !entry.IsIncluded
	return true
}
