// Package plan defines the plan record, its editable form representation,
// and the catalog of selectable add-ons and support SLAs.
package plan

// Mode selects the wizard behavior for a session.
type Mode int

const (
	ModeCreate Mode = iota // New plan from defaults (or recovered draft)
	ModeEdit               // Existing plan, fetched by ID
	ModeView               // Existing plan, read-only
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	case ModeView:
		return "view"
	default:
		return "unknown"
	}
}

// ReadOnly reports whether the mode disallows mutation.
func (m Mode) ReadOnly() bool {
	return m == ModeView
}

// Billing interval values accepted by the pricing section.
const (
	IntervalMonth = "month"
	IntervalYear  = "year"
)

// Form is the full mutable draft of a plan being created or edited.
// Numeric inputs stay strings here; conversion to real numbers happens
// only at the service boundary (Payload / FormFromPayload).
type Form struct {
	// Basic info
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	Public      bool   `json:"public"`

	// Pricing (numeric-as-string)
	MonthlyPrice    string           `json:"monthly_price"`
	SetupFee        string           `json:"setup_fee"`
	TrialDays       string           `json:"trial_days"`
	BillingInterval string           `json:"billing_interval"`
	VolumeDiscounts []VolumeDiscount `json:"volume_discounts"`

	// Features
	APIAccess      bool   `json:"api_access"`
	SSO            bool   `json:"sso"`
	AuditLogs      bool   `json:"audit_logs"`
	UserLimit      string `json:"user_limit"`
	StorageLimitGB string `json:"storage_limit_gb"`

	// Assignments and selections
	AddonAssignments []AddonAssignment `json:"addon_assignments"`
	SupportSLAIDs    []int             `json:"support_sla_ids"`
}

// AddonAssignment is one selected add-on plus its per-plan configuration.
// AddonID is unique within a form's assignment list. Quantities are
// numeric-as-string because they are edited through text inputs.
type AddonAssignment struct {
	AddonID         int    `json:"addon_id"`
	FeatureLevel    string `json:"feature_level"`
	IsIncluded      bool   `json:"is_included"`
	DefaultQuantity string `json:"default_quantity"`
	MinQuantity     string `json:"min_quantity"`
	MaxQuantity     string `json:"max_quantity"`
}

// VolumeDiscount is a quantity-threshold discount row in the pricing section.
type VolumeDiscount struct {
	MinQuantity     string `json:"min_quantity"`
	DiscountPercent string `json:"discount_percent"`
}

// NewForm returns a form populated with the all-defaults baseline.
// The draft engine compares against this baseline to decide whether a
// snapshot is worth persisting.
func NewForm() *Form {
	return &Form{
		Active:           true,
		Public:           false,
		MonthlyPrice:     "",
		SetupFee:         "0",
		TrialDays:        "0",
		BillingInterval:  IntervalMonth,
		VolumeDiscounts:  []VolumeDiscount{},
		AddonAssignments: []AddonAssignment{},
		SupportSLAIDs:    []int{},
	}
}

// Clone returns a deep copy of the form. List fields get fresh backing
// arrays so mutations on the copy never alias the original.
func (f *Form) Clone() *Form {
	c := *f
	c.VolumeDiscounts = append([]VolumeDiscount(nil), f.VolumeDiscounts...)
	c.AddonAssignments = append([]AddonAssignment(nil), f.AddonAssignments...)
	c.SupportSLAIDs = append([]int(nil), f.SupportSLAIDs...)
	return &c
}

// Assignment returns a pointer to the assignment for the given add-on ID,
// or nil if the add-on is not assigned.
func (f *Form) Assignment(addonID int) *AddonAssignment {
	for i := range f.AddonAssignments {
		if f.AddonAssignments[i].AddonID == addonID {
			return &f.AddonAssignments[i]
		}
	}
	return nil
}
