// Package validate computes per-section and whole-form validity for a plan
// form. Every function here is pure and synchronous: validity is re-derived
// from scratch on each call so the result always reflects the live form.
package validate

import (
	"strconv"
	"strings"

	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
)

// Validity is the result of a full validation pass.
type Validity struct {
	Sections   map[nav.Section]bool
	EntireForm bool
}

// Compute runs every section predicate against the form. EntireForm is the
// AND of all sections, including ones the user has not visited yet: an
// unreached section with missing required fields counts as invalid, so
// submission can never bypass a section.
func Compute(f *plan.Form) Validity {
	v := Validity{Sections: make(map[nav.Section]bool, len(nav.Sections()))}
	v.EntireForm = true
	for _, s := range nav.Sections() {
		ok := SectionValid(f, s)
		v.Sections[s] = ok
		v.EntireForm = v.EntireForm && ok
	}
	return v
}

// SectionValid evaluates the fixed predicate for a single section. Each
// predicate reads only the fields belonging to that section.
func SectionValid(f *plan.Form, s nav.Section) bool {
	switch s {
	case nav.SectionBasic:
		return basicValid(f)
	case nav.SectionPricing:
		return pricingValid(f)
	case nav.SectionFeatures:
		return featuresValid(f)
	case nav.SectionAddons:
		return addonsValid(f)
	case nav.SectionSLA:
		return slaValid(f)
	default:
		return false
	}
}

func basicValid(f *plan.Form) bool {
	name := strings.TrimSpace(f.Name)
	if name == "" || len(name) > 120 {
		return false
	}
	return strings.TrimSpace(f.Code) != ""
}

func pricingValid(f *plan.Form) bool {
	if !isAmount(f.MonthlyPrice) || !isAmount(f.SetupFee) {
		return false
	}
	if !isCount(f.TrialDays) {
		return false
	}
	if f.BillingInterval != plan.IntervalMonth && f.BillingInterval != plan.IntervalYear {
		return false
	}
	for _, vd := range f.VolumeDiscounts {
		qty, ok := parseCount(vd.MinQuantity)
		if !ok || qty < 1 {
			return false
		}
		pct, ok := parseAmount(vd.DiscountPercent)
		if !ok || pct <= 0 || pct > 100 {
			return false
		}
	}
	return true
}

func featuresValid(f *plan.Form) bool {
	users, ok := parseCount(f.UserLimit)
	if !ok || users < 1 {
		return false
	}
	return isCount(f.StorageLimitGB)
}

// addonsValid requires every assignment's quantity configuration to be
// numerically coherent: min <= default <= max. An empty assignment list is
// valid, add-ons are optional.
func addonsValid(f *plan.Form) bool {
	for _, a := range f.AddonAssignments {
		if strings.TrimSpace(a.FeatureLevel) == "" {
			return false
		}
		minQty, ok := parseCount(a.MinQuantity)
		if !ok {
			return false
		}
		defQty, ok := parseCount(a.DefaultQuantity)
		if !ok {
			return false
		}
		maxQty, ok := parseCount(a.MaxQuantity)
		if !ok {
			return false
		}
		if minQty > defQty || defQty > maxQty {
			return false
		}
	}
	return true
}

// slaValid is vacuously true: SLA selection is optional and carries no
// per-entry configuration to check.
func slaValid(_ *plan.Form) bool {
	return true
}

// parseAmount parses a non-negative decimal amount. Validation goes through
// a numeric parse, never lexical comparison.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func isAmount(s string) bool {
	_, ok := parseAmount(s)
	return ok
}

// parseCount parses a non-negative integer.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func isCount(s string) bool {
	_, ok := parseCount(s)
	return ok
}
