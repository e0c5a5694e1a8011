package assign

// Pending is a removal awaiting user confirmation. The apply closure holds
// the actual mutation so nothing changes until Confirm runs it.
type Pending struct {
	ResourceID   int
	ResourceName string
	apply        func()
}

// Confirmer routes destructive toggle/remove actions through an explicit
// confirm step. Removing a configured add-on or a selected SLA discards
// state the user may have spent time on, so accidental clicks must stay
// reversible until committed. Adds never pass through here.
type Confirmer struct {
	pending *Pending
}

// NewConfirmer creates an empty confirmer.
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Request stages a removal. A newer request replaces any pending one.
func (c *Confirmer) Request(id int, name string, apply func()) {
	c.pending = &Pending{ResourceID: id, ResourceName: name, apply: apply}
}

// Confirm executes the staged removal and clears the pending state.
// Returns false if nothing was pending.
func (c *Confirmer) Confirm() bool {
	if c.pending == nil {
		return false
	}
	apply := c.pending.apply
	c.pending = nil
	if apply != nil {
		apply()
	}
	return true
}

// Cancel discards the pending removal without mutating anything.
func (c *Confirmer) Cancel() {
	c.pending = nil
}

// Active reports whether a removal is awaiting confirmation.
func (c *Confirmer) Active() bool {
	return c.pending != nil
}

// Pending returns the staged removal, if any.
func (c *Confirmer) Pending() (Pending, bool) {
	if c.pending == nil {
		return Pending{}, false
	}
	return *c.pending, true
}
