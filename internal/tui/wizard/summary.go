package wizard

import (
	"fmt"
	"strings"

	glamour "charm.land/glamour/v2"

	"github.com/planforge/planforge/internal/plan"
)

// buildSummaryMarkdown assembles a markdown overview of the whole plan,
// resolving assignment and selection IDs against the catalog.
func buildSummaryMarkdown(f *plan.Form, catalog *plan.Catalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", orDash(f.Name))
	fmt.Fprintf(&b, "`%s`", orDash(f.Code))
	if f.Active {
		b.WriteString(" · active")
	} else {
		b.WriteString(" · inactive")
	}
	if f.Public {
		b.WriteString(" · public")
	}
	b.WriteString("\n\n")
	if f.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", f.Description)
	}

	b.WriteString("## Pricing\n\n")
	fmt.Fprintf(&b, "- Monthly price: %s\n", orDash(f.MonthlyPrice))
	fmt.Fprintf(&b, "- Setup fee: %s\n", orDash(f.SetupFee))
	fmt.Fprintf(&b, "- Trial days: %s\n", orDash(f.TrialDays))
	fmt.Fprintf(&b, "- Billing interval: %s\n", f.BillingInterval)
	if len(f.VolumeDiscounts) > 0 {
		b.WriteString("- Volume discounts:\n")
		for _, d := range f.VolumeDiscounts {
			fmt.Fprintf(&b, "  - %s+ units: %s%% off\n", d.MinQuantity, d.DiscountPercent)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Features\n\n")
	fmt.Fprintf(&b, "- API access: %s\n", yesNo(f.APIAccess))
	fmt.Fprintf(&b, "- Single sign-on: %s\n", yesNo(f.SSO))
	fmt.Fprintf(&b, "- Audit logs: %s\n", yesNo(f.AuditLogs))
	fmt.Fprintf(&b, "- User limit: %s\n", orDash(f.UserLimit))
	fmt.Fprintf(&b, "- Storage limit: %s GB\n\n", orDash(f.StorageLimitGB))

	b.WriteString("## Add-ons\n\n")
	if len(f.AddonAssignments) == 0 {
		b.WriteString("_none_\n\n")
	} else {
		for _, a := range f.AddonAssignments {
			name := fmt.Sprintf("#%d", a.AddonID)
			if entry, ok := catalog.Addon(a.AddonID); ok {
				name = entry.Name
			}
			included := ""
			if a.IsIncluded {
				included = ", included"
			}
			fmt.Fprintf(&b, "- **%s**: level %s, qty %s (%s-%s)%s\n",
				name, a.FeatureLevel, a.DefaultQuantity, a.MinQuantity, a.MaxQuantity, included)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Support SLAs\n\n")
	if len(f.SupportSLAIDs) == 0 {
		b.WriteString("_none_\n")
	} else {
		for _, id := range f.SupportSLAIDs {
			name := fmt.Sprintf("#%d", id)
			if sla, ok := catalog.SLA(id); ok {
				name = fmt.Sprintf("%s (%dh response, %.2f%% uptime)",
					sla.Name, sla.ResponseHours, sla.UptimePercent)
			}
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return b.String()
}

// renderSummary renders the plan overview as styled terminal markdown.
// Falls back to the raw markdown if rendering fails.
func renderSummary(f *plan.Form, catalog *plan.Catalog, width int) string {
	md := buildSummaryMarkdown(f, catalog)

	if width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	rendered, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSuffix(rendered, "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(unset)"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
