package plan

// Addon is an externally supplied catalog entry selectable as a plan add-on.
// Entries are immutable once listed; the only mutation this package allows
// is appending newly created entries from the inline creation sub-flow.
type Addon struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	MonthlyPrice    float64  `json:"monthly_price"`
	DefaultQuantity int      `json:"default_quantity"`
	MinQuantity     int      `json:"min_quantity"`
	MaxQuantity     int      `json:"max_quantity"`
	FeatureLevels   []string `json:"feature_levels"`
}

// DefaultFeatureLevel returns the first declared feature level, or "standard"
// when the add-on declares none.
func (a Addon) DefaultFeatureLevel() string {
	if len(a.FeatureLevels) > 0 {
		return a.FeatureLevels[0]
	}
	return "standard"
}

// SupportSLA is an externally supplied service-level agreement catalog entry.
type SupportSLA struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	ResponseHours int     `json:"response_hours"`
	UptimePercent float64 `json:"uptime_percent"`
	MonthlyPrice  float64 `json:"monthly_price"`
}

// Catalog holds the selectable child resources fetched from the store.
// It is a plain data holder; fetching and creation happen elsewhere.
type Catalog struct {
	Addons []Addon
	SLAs   []SupportSLA
}

// Addon returns the catalog entry with the given ID, or false if absent.
func (c *Catalog) Addon(id int) (Addon, bool) {
	for _, a := range c.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return Addon{}, false
}

// SLA returns the SLA entry with the given ID, or false if absent.
func (c *Catalog) SLA(id int) (SupportSLA, bool) {
	for _, s := range c.SLAs {
		if s.ID == id {
			return s, true
		}
	}
	return SupportSLA{}, false
}

// AppendAddon appends a newly created add-on to the catalog so it becomes
// immediately selectable.
func (c *Catalog) AppendAddon(a Addon) {
	c.Addons = append(c.Addons, a)
}
