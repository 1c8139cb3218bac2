package types

// Government classifies a country's leadership structure.
type Government string

const (
	GovernmentDictatorship Government = "dictatorship"
	GovernmentDemocracy    Government = "democracy"
)

// UnitType distinguishes the two military unit kinds.
type UnitType string

const (
	UnitFleet UnitType = "fleet"
	UnitArmy  UnitType = "army"
)

// Unit is one fleet or army on the board. Hostile marks a unit
// standing in foreign territory by force.
type Unit struct {
	Territory string `json:"territory"`
	Hostile   bool   `json:"hostile,omitempty"`
}

// CountryInfo is the per-nation slice of the game state.
type CountryInfo struct {
	Treasury         float64    `json:"treasury"`
	Points           int        `json:"points"`
	Factories        []string   `json:"factories"`
	WheelPosition    string     `json:"wheelPosition"`
	Government       Government `json:"government"`
	Leadership       []string   `json:"leadership"`
	AvailableStock   []int      `json:"availableStock"`
	LockedThisRound  bool       `json:"lockedThisRound"`
	LastTaxThreshold int        `json:"lastTaxThreshold"`
	TaxMarkers       []string   `json:"taxMarkers"`
	Fleets           []Unit     `json:"fleets"`
	Armies           []Unit     `json:"armies"`
}

// Leader returns the top-ranked stockholder, or "" if the country has
// no leadership.
func (c *CountryInfo) Leader() string {
	if len(c.Leadership) == 0 {
		return ""
	}
	return c.Leadership[0]
}

// Opposition returns the second-ranked stockholder, or "".
func (c *CountryInfo) Opposition() string {
	if len(c.Leadership) < 2 {
		return ""
	}
	return c.Leadership[1]
}

// TotalUnits returns the combined fleet and army count.
func (c *CountryInfo) TotalUnits() int {
	return len(c.Fleets) + len(c.Armies)
}

// HasFactory reports whether the country owns a factory at the
// territory.
func (c *CountryInfo) HasFactory(territory string) bool {
	for _, f := range c.Factories {
		if f == territory {
			return true
		}
	}
	return false
}

// HasTaxMarker reports whether the country holds a tax marker at the
// territory.
func (c *CountryInfo) HasTaxMarker(territory string) bool {
	for _, m := range c.TaxMarkers {
		if m == territory {
			return true
		}
	}
	return false
}

// RemoveTaxMarker drops the country's tax marker at the territory, if
// present.
func (c *CountryInfo) RemoveTaxMarker(territory string) {
	for i, m := range c.TaxMarkers {
		if m == territory {
			c.TaxMarkers = append(c.TaxMarkers[:i], c.TaxMarkers[i+1:]...)
			return
		}
	}
}

// RemoveFactory destroys one factory at the territory. Returns false
// if the country has none there.
func (c *CountryInfo) RemoveFactory(territory string) bool {
	for i, f := range c.Factories {
		if f == territory {
			c.Factories = append(c.Factories[:i], c.Factories[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveUnit destroys one unit of the given type at the territory.
// Returns false if no such unit exists.
func (c *CountryInfo) RemoveUnit(unitType UnitType, territory string) bool {
	units := &c.Armies
	if unitType == UnitFleet {
		units = &c.Fleets
	}
	for i, u := range *units {
		if u.Territory == territory {
			*units = append((*units)[:i], (*units)[i+1:]...)
			return true
		}
	}
	return false
}

// HasAvailableStock reports whether the denomination is still unsold.
func (c *CountryInfo) HasAvailableStock(denom int) bool {
	for _, d := range c.AvailableStock {
		if d == denom {
			return true
		}
	}
	return false
}

// RemoveAvailableStock pulls the denomination from the unsold pool.
// Returns false if it was not available.
func (c *CountryInfo) RemoveAvailableStock(denom int) bool {
	for i, d := range c.AvailableStock {
		if d == denom {
			c.AvailableStock = append(c.AvailableStock[:i], c.AvailableStock[i+1:]...)
			return true
		}
	}
	return false
}

// InsertAvailableStock returns the denomination to the unsold pool,
// keeping the pool sorted ascending.
func (c *CountryInfo) InsertAvailableStock(denom int) {
	i := 0
	for i < len(c.AvailableStock) && c.AvailableStock[i] < denom {
		i++
	}
	c.AvailableStock = append(c.AvailableStock, 0)
	copy(c.AvailableStock[i+1:], c.AvailableStock[i:])
	c.AvailableStock[i] = denom
}

func (c *CountryInfo) clone() *CountryInfo {
	if c == nil {
		return nil
	}
	out := *c
	out.Factories = copySlice(c.Factories)
	out.Leadership = copySlice(c.Leadership)
	out.TaxMarkers = copySlice(c.TaxMarkers)
	out.AvailableStock = copySlice(c.AvailableStock)
	out.Fleets = copySlice(c.Fleets)
	out.Armies = copySlice(c.Armies)
	return &out
}
