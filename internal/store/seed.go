package store

import (
	"context"
	"fmt"

	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/plan"
)

// SeedCatalog populates the add-on and SLA catalogs with a starter set on
// first run so the wizard has something to browse. Existing catalogs are
// left alone.
func SeedCatalog(ctx context.Context, cs CatalogService) error {
	addons, err := cs.ListAddons(ctx)
	if err != nil {
		return fmt.Errorf("checking addon catalog: %w", err)
	}
	slas, err := cs.ListSLAs(ctx)
	if err != nil {
		return fmt.Errorf("checking sla catalog: %w", err)
	}
	if len(addons) > 0 || len(slas) > 0 {
		return nil
	}

	for _, a := range defaultAddons() {
		if _, err := cs.CreateAddon(ctx, a); err != nil {
			return fmt.Errorf("seeding addon %q: %w", a.Name, err)
		}
	}
	for _, s := range defaultSLAs() {
		if _, err := cs.CreateSLA(ctx, s); err != nil {
			return fmt.Errorf("seeding sla %q: %w", s.Name, err)
		}
	}

	logger.Info("Seeded starter catalog: %d addons, %d slas", len(defaultAddons()), len(defaultSLAs()))
	return nil
}

func defaultAddons() []plan.Addon {
	return []plan.Addon{
		{
			Name:            "Extra Seats",
			Description:     "Additional user seats beyond the plan limit",
			MonthlyPrice:    4.50,
			DefaultQuantity: 5,
			MinQuantity:     1,
			MaxQuantity:     100,
			FeatureLevels:   []string{"standard"},
		},
		{
			Name:            "Priority Backups",
			Description:     "Hourly snapshots with 90-day retention",
			MonthlyPrice:    12,
			DefaultQuantity: 1,
			MinQuantity:     1,
			MaxQuantity:     1,
			FeatureLevels:   []string{"standard", "premium"},
		},
		{
			Name:            "Dedicated IP",
			Description:     "Static egress IP for allow-listing",
			MonthlyPrice:    8,
			DefaultQuantity: 1,
			MinQuantity:     1,
			MaxQuantity:     4,
			FeatureLevels:   []string{"standard"},
		},
	}
}

func defaultSLAs() []plan.SupportSLA {
	return []plan.SupportSLA{
		{Name: "Bronze", ResponseHours: 48, UptimePercent: 99.0, MonthlyPrice: 0},
		{Name: "Silver", ResponseHours: 8, UptimePercent: 99.9, MonthlyPrice: 49},
		{Name: "Gold", ResponseHours: 1, UptimePercent: 99.99, MonthlyPrice: 199},
	}
}
