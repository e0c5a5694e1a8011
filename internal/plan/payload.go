package plan

import (
	"fmt"
	"strconv"
)

// Payload is the wire shape of a plan record as the store persists it.
// It mirrors Form but carries real numbers instead of input strings.
type Payload struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	Public      bool   `json:"public"`

	MonthlyPrice    float64                 `json:"monthly_price"`
	SetupFee        float64                 `json:"setup_fee"`
	TrialDays       int                     `json:"trial_days"`
	BillingInterval string                  `json:"billing_interval"`
	VolumeDiscounts []VolumeDiscountPayload `json:"volume_discounts"`

	APIAccess      bool `json:"api_access"`
	SSO            bool `json:"sso"`
	AuditLogs      bool `json:"audit_logs"`
	UserLimit      int  `json:"user_limit"`
	StorageLimitGB int  `json:"storage_limit_gb"`

	AddonAssignments []AddonAssignmentPayload `json:"addon_assignments"`
	SupportSLAIDs    []int                    `json:"support_sla_ids"`
}

// AddonAssignmentPayload is the wire shape of one add-on assignment.
type AddonAssignmentPayload struct {
	AddonID         int    `json:"addon_id"`
	FeatureLevel    string `json:"feature_level"`
	IsIncluded      bool   `json:"is_included"`
	DefaultQuantity int    `json:"default_quantity"`
	MinQuantity     int    `json:"min_quantity"`
	MaxQuantity     int    `json:"max_quantity"`
}

// VolumeDiscountPayload is the wire shape of one volume discount row.
type VolumeDiscountPayload struct {
	MinQuantity     int     `json:"min_quantity"`
	DiscountPercent float64 `json:"discount_percent"`
}

// Payload converts the form to its wire shape. Callers submit only
// fully-validated forms, so parse failures indicate a programming error
// upstream and are returned rather than silently zeroed.
func (f *Form) Payload() (Payload, error) {
	monthly, err := parseAmount(f.MonthlyPrice, "monthly_price")
	if err != nil {
		return Payload{}, err
	}
	setup, err := parseAmount(f.SetupFee, "setup_fee")
	if err != nil {
		return Payload{}, err
	}
	trial, err := parseCount(f.TrialDays, "trial_days")
	if err != nil {
		return Payload{}, err
	}
	users, err := parseCount(f.UserLimit, "user_limit")
	if err != nil {
		return Payload{}, err
	}
	storage, err := parseCount(f.StorageLimitGB, "storage_limit_gb")
	if err != nil {
		return Payload{}, err
	}

	p := Payload{
		Name:            f.Name,
		Code:            f.Code,
		Description:     f.Description,
		Active:          f.Active,
		Public:          f.Public,
		MonthlyPrice:    monthly,
		SetupFee:        setup,
		TrialDays:       trial,
		BillingInterval: f.BillingInterval,
		APIAccess:       f.APIAccess,
		SSO:             f.SSO,
		AuditLogs:       f.AuditLogs,
		UserLimit:       users,
		StorageLimitGB:  storage,
		SupportSLAIDs:   append([]int{}, f.SupportSLAIDs...),
	}

	p.VolumeDiscounts = make([]VolumeDiscountPayload, 0, len(f.VolumeDiscounts))
	for i, vd := range f.VolumeDiscounts {
		minQty, err := parseCount(vd.MinQuantity, fmt.Sprintf("volume_discounts[%d].min_quantity", i))
		if err != nil {
			return Payload{}, err
		}
		pct, err := parseAmount(vd.DiscountPercent, fmt.Sprintf("volume_discounts[%d].discount_percent", i))
		if err != nil {
			return Payload{}, err
		}
		p.VolumeDiscounts = append(p.VolumeDiscounts, VolumeDiscountPayload{
			MinQuantity:     minQty,
			DiscountPercent: pct,
		})
	}

	p.AddonAssignments = make([]AddonAssignmentPayload, 0, len(f.AddonAssignments))
	for _, a := range f.AddonAssignments {
		defQty, err := parseCount(a.DefaultQuantity, fmt.Sprintf("addon %d default_quantity", a.AddonID))
		if err != nil {
			return Payload{}, err
		}
		minQty, err := parseCount(a.MinQuantity, fmt.Sprintf("addon %d min_quantity", a.AddonID))
		if err != nil {
			return Payload{}, err
		}
		maxQty, err := parseCount(a.MaxQuantity, fmt.Sprintf("addon %d max_quantity", a.AddonID))
		if err != nil {
			return Payload{}, err
		}
		p.AddonAssignments = append(p.AddonAssignments, AddonAssignmentPayload{
			AddonID:         a.AddonID,
			FeatureLevel:    a.FeatureLevel,
			IsIncluded:      a.IsIncluded,
			DefaultQuantity: defQty,
			MinQuantity:     minQty,
			MaxQuantity:     maxQty,
		})
	}

	return p, nil
}

// FormFromPayload converts a fetched record back to its editable form shape.
func FormFromPayload(p Payload) *Form {
	f := &Form{
		Name:            p.Name,
		Code:            p.Code,
		Description:     p.Description,
		Active:          p.Active,
		Public:          p.Public,
		MonthlyPrice:    formatAmount(p.MonthlyPrice),
		SetupFee:        formatAmount(p.SetupFee),
		TrialDays:       strconv.Itoa(p.TrialDays),
		BillingInterval: p.BillingInterval,
		APIAccess:       p.APIAccess,
		SSO:             p.SSO,
		AuditLogs:       p.AuditLogs,
		UserLimit:       strconv.Itoa(p.UserLimit),
		StorageLimitGB:  strconv.Itoa(p.StorageLimitGB),
		SupportSLAIDs:   append([]int{}, p.SupportSLAIDs...),
	}
	if f.BillingInterval == "" {
		f.BillingInterval = IntervalMonth
	}

	f.VolumeDiscounts = make([]VolumeDiscount, 0, len(p.VolumeDiscounts))
	for _, vd := range p.VolumeDiscounts {
		f.VolumeDiscounts = append(f.VolumeDiscounts, VolumeDiscount{
			MinQuantity:     strconv.Itoa(vd.MinQuantity),
			DiscountPercent: formatAmount(vd.DiscountPercent),
		})
	}

	f.AddonAssignments = make([]AddonAssignment, 0, len(p.AddonAssignments))
	for _, a := range p.AddonAssignments {
		f.AddonAssignments = append(f.AddonAssignments, AddonAssignment{
			AddonID:         a.AddonID,
			FeatureLevel:    a.FeatureLevel,
			IsIncluded:      a.IsIncluded,
			DefaultQuantity: strconv.Itoa(a.DefaultQuantity),
			MinQuantity:     strconv.Itoa(a.MinQuantity),
			MaxQuantity:     strconv.Itoa(a.MaxQuantity),
		})
	}

	return f
}

func parseAmount(s, field string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("field %s is empty", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return v, nil
}

func parseCount(s, field string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("field %s is empty", field)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return v, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
