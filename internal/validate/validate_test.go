package validate

import (
	"testing"

	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
	"github.com/stretchr/testify/assert"
)

// completeForm returns a form every section predicate accepts.
func completeForm() *plan.Form {
	f := plan.NewForm()
	f.Name = "Premium Plan"
	f.Code = "premium-plan"
	f.MonthlyPrice = "49.90"
	f.UserLimit = "25"
	f.StorageLimitGB = "100"
	return f
}

func TestCompute_DefaultFormIsInvalid(t *testing.T) {
	v := Compute(plan.NewForm())

	assert.False(t, v.Sections[nav.SectionBasic], "empty name/code must fail basic")
	assert.False(t, v.Sections[nav.SectionPricing], "empty price must fail pricing")
	assert.False(t, v.Sections[nav.SectionFeatures], "empty user limit must fail features")
	assert.True(t, v.Sections[nav.SectionAddons], "no assignments is valid")
	assert.True(t, v.Sections[nav.SectionSLA], "no selection is valid")
	assert.False(t, v.EntireForm)
}

func TestCompute_CompleteFormIsValid(t *testing.T) {
	v := Compute(completeForm())

	for _, s := range nav.Sections() {
		assert.True(t, v.Sections[s], "section %s should be valid", s)
	}
	assert.True(t, v.EntireForm)
}

func TestBasicSection(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*plan.Form)
		valid bool
	}{
		{"valid", func(f *plan.Form) {}, true},
		{"empty name", func(f *plan.Form) { f.Name = "" }, false},
		{"whitespace name", func(f *plan.Form) { f.Name = "   " }, false},
		{"empty code", func(f *plan.Form) { f.Code = "" }, false},
		{"name too long", func(f *plan.Form) {
			for len(f.Name) <= 120 {
				f.Name += "x"
			}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := completeForm()
			tt.edit(f)
			assert.Equal(t, tt.valid, SectionValid(f, nav.SectionBasic))
		})
	}
}

func TestPricingSection(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*plan.Form)
		valid bool
	}{
		{"valid", func(f *plan.Form) {}, true},
		{"price not numeric", func(f *plan.Form) { f.MonthlyPrice = "forty" }, false},
		{"negative price", func(f *plan.Form) { f.MonthlyPrice = "-1" }, false},
		{"empty price", func(f *plan.Form) { f.MonthlyPrice = "" }, false},
		{"bad interval", func(f *plan.Form) { f.BillingInterval = "weekly" }, false},
		{"yearly interval", func(f *plan.Form) { f.BillingInterval = plan.IntervalYear }, true},
		{"trial days not integer", func(f *plan.Form) { f.TrialDays = "7.5" }, false},
		{"valid discount", func(f *plan.Form) {
			f.VolumeDiscounts = []plan.VolumeDiscount{{MinQuantity: "10", DiscountPercent: "12.5"}}
		}, true},
		{"discount over 100", func(f *plan.Form) {
			f.VolumeDiscounts = []plan.VolumeDiscount{{MinQuantity: "10", DiscountPercent: "120"}}
		}, false},
		{"zero discount quantity", func(f *plan.Form) {
			f.VolumeDiscounts = []plan.VolumeDiscount{{MinQuantity: "0", DiscountPercent: "5"}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := completeForm()
			tt.edit(f)
			assert.Equal(t, tt.valid, SectionValid(f, nav.SectionPricing))
		})
	}
}

func TestFeaturesSection(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*plan.Form)
		valid bool
	}{
		{"valid", func(f *plan.Form) {}, true},
		{"zero users", func(f *plan.Form) { f.UserLimit = "0" }, false},
		{"users not numeric", func(f *plan.Form) { f.UserLimit = "many" }, false},
		{"zero storage allowed", func(f *plan.Form) { f.StorageLimitGB = "0" }, true},
		{"negative storage", func(f *plan.Form) { f.StorageLimitGB = "-5" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := completeForm()
			tt.edit(f)
			assert.Equal(t, tt.valid, SectionValid(f, nav.SectionFeatures))
		})
	}
}

func TestAddonsSection(t *testing.T) {
	assignment := func(minQ, defQ, maxQ string) plan.AddonAssignment {
		return plan.AddonAssignment{
			AddonID:         1,
			FeatureLevel:    "standard",
			MinQuantity:     minQ,
			DefaultQuantity: defQ,
			MaxQuantity:     maxQ,
		}
	}

	tests := []struct {
		name  string
		a     plan.AddonAssignment
		valid bool
	}{
		{"coherent bounds", assignment("1", "2", "5"), true},
		{"default below min", assignment("3", "2", "5"), false},
		{"default above max", assignment("1", "9", "5"), false},
		{"non-numeric quantity", assignment("1", "two", "5"), false},
		{"equal bounds", assignment("2", "2", "2"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := completeForm()
			f.AddonAssignments = []plan.AddonAssignment{tt.a}
			assert.Equal(t, tt.valid, SectionValid(f, nav.SectionAddons))
		})
	}

	t.Run("empty feature level", func(t *testing.T) {
		f := completeForm()
		a := assignment("1", "1", "5")
		a.FeatureLevel = " "
		f.AddonAssignments = []plan.AddonAssignment{a}
		assert.False(t, SectionValid(f, nav.SectionAddons))
	})
}

func TestEntireForm_FailsWhenAnySectionFails(t *testing.T) {
	f := completeForm()
	f.AddonAssignments = []plan.AddonAssignment{{
		AddonID: 1, FeatureLevel: "standard",
		MinQuantity: "5", DefaultQuantity: "1", MaxQuantity: "10",
	}}

	v := Compute(f)
	assert.False(t, v.Sections[nav.SectionAddons])
	assert.False(t, v.EntireForm, "a single invalid section must fail the whole form")
}
