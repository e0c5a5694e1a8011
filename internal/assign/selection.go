package assign

import "github.com/planforge/planforge/internal/plan"

// Selection mutates the flat SLA id list inside a form. The list behaves as
// a set (no duplicate IDs) but preserves insertion order so the rendered
// summary stays stable as entries toggle.
type Selection struct {
	form *plan.Form
}

// NewSelection wraps the SLA selection of the given form.
func NewSelection(form *plan.Form) *Selection {
	return &Selection{form: form}
}

// IsSelected reports whether the SLA is currently selected.
func (s *Selection) IsSelected(id int) bool {
	for _, v := range s.form.SupportSLAIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle adds the id if absent and removes it if present. Returns true when
// the id was added. Callers wanting a confirmation step for the removal path
// check IsSelected first and route through the Confirmer.
func (s *Selection) Toggle(id int) bool {
	if s.IsSelected(id) {
		s.Remove(id)
		return false
	}
	s.form.SupportSLAIDs = append(s.form.SupportSLAIDs, id)
	return true
}

// Remove deletes the id unconditionally. Removing an absent id is a no-op.
func (s *Selection) Remove(id int) bool {
	list := s.form.SupportSLAIDs
	for i, v := range list {
		if v == id {
			s.form.SupportSLAIDs = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// IDs returns the selection in insertion order.
func (s *Selection) IDs() []int {
	return s.form.SupportSLAIDs
}
