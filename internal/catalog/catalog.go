// internal/catalog/catalog.go
// Package catalog holds the fixed table of published gravitational-wave
// events. The table is populated once at construction and never mutated;
// derived quantities are computed on demand and never cached on the record.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/gravwave/gwdetect/internal/physics"
)

// EventType classifies the merging binary.
type EventType int

const (
	// BinaryBlackHole is a merger of two black holes
	BinaryBlackHole EventType = iota
	// BinaryNeutronStar is a merger of two neutron stars
	BinaryNeutronStar
	// NeutronStarBlackHole is a mixed merger
	NeutronStarBlackHole
)

// String returns the conventional abbreviation for the event type.
func (t EventType) String() string {
	switch t {
	case BinaryBlackHole:
		return "BBH"
	case BinaryNeutronStar:
		return "BNS"
	case NeutronStarBlackHole:
		return "NSBH"
	default:
		return "unknown"
	}
}

// Event is one immutable historical record.
type Event struct {
	// Name is the official designation, e.g. GW150914
	Name string
	// Date is the UTC observation date
	Date time.Time
	// Type classifies the binary
	Type EventType
	// Mass1Solar and Mass2Solar are the component masses in solar masses
	Mass1Solar float64
	Mass2Solar float64
	// FinalMassSolar is the post-merger mass in solar masses
	FinalMassSolar float64
	// DistanceMpc is the published luminosity distance in megaparsecs
	DistanceMpc float64
	// PeakStrain is the peak observed strain amplitude
	PeakStrain float64
	// SignificanceSigma is the detection significance in standard deviations
	SignificanceSigma float64
	// Description is a one-line summary
	Description string
}

// Catalog is the read-only event table.
type Catalog struct {
	events []Event
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New returns the catalog populated with the reference events.
func New() *Catalog {
	return &Catalog{events: []Event{
		{
			Name: "GW150914", Date: date(2015, time.September, 14), Type: BinaryBlackHole,
			Mass1Solar: 36, Mass2Solar: 29, FinalMassSolar: 62,
			DistanceMpc: 410, PeakStrain: 1.0e-21, SignificanceSigma: 5.1,
			Description: "First direct detection of gravitational waves",
		},
		{
			Name: "GW151226", Date: date(2015, time.December, 26), Type: BinaryBlackHole,
			Mass1Solar: 14.2, Mass2Solar: 7.5, FinalMassSolar: 20.8,
			DistanceMpc: 440, PeakStrain: 3.4e-22, SignificanceSigma: 5.3,
			Description: "Boxing Day event, second binary black hole merger",
		},
		{
			Name: "GW170104", Date: date(2017, time.January, 4), Type: BinaryBlackHole,
			Mass1Solar: 31.2, Mass2Solar: 19.4, FinalMassSolar: 48.7,
			DistanceMpc: 880, PeakStrain: 5.0e-22, SignificanceSigma: 4.9,
			Description: "Heavy stellar-mass black hole merger",
		},
		{
			Name: "GW170814", Date: date(2017, time.August, 14), Type: BinaryBlackHole,
			Mass1Solar: 30.5, Mass2Solar: 25.3, FinalMassSolar: 53.2,
			DistanceMpc: 540, PeakStrain: 4.7e-22, SignificanceSigma: 5.9,
			Description: "First three-detector observation",
		},
		{
			Name: "GW170817", Date: date(2017, time.August, 17), Type: BinaryNeutronStar,
			Mass1Solar: 1.46, Mass2Solar: 1.27, FinalMassSolar: 2.7,
			DistanceMpc: 40, PeakStrain: 1.0e-22, SignificanceSigma: 5.3,
			Description: "First binary neutron star merger, with electromagnetic counterpart",
		},
		{
			Name: "GW190412", Date: date(2019, time.April, 12), Type: BinaryBlackHole,
			Mass1Solar: 29.7, Mass2Solar: 8.4, FinalMassSolar: 37.0,
			DistanceMpc: 740, PeakStrain: 2.5e-22, SignificanceSigma: 5.0,
			Description: "Strongly asymmetric black hole masses",
		},
		{
			Name: "GW190425", Date: date(2019, time.April, 25), Type: BinaryNeutronStar,
			Mass1Solar: 2.0, Mass2Solar: 1.4, FinalMassSolar: 3.3,
			DistanceMpc: 160, PeakStrain: 8.0e-23, SignificanceSigma: 4.2,
			Description: "Heaviest known binary neutron star system",
		},
		{
			Name: "GW190521", Date: date(2019, time.May, 21), Type: BinaryBlackHole,
			Mass1Solar: 85, Mass2Solar: 66, FinalMassSolar: 142,
			DistanceMpc: 5300, PeakStrain: 6.0e-22, SignificanceSigma: 4.8,
			Description: "Intermediate-mass black hole remnant",
		},
		{
			Name: "GW200105", Date: date(2020, time.January, 5), Type: NeutronStarBlackHole,
			Mass1Solar: 8.9, Mass2Solar: 1.9, FinalMassSolar: 10.6,
			DistanceMpc: 280, PeakStrain: 1.1e-22, SignificanceSigma: 4.5,
			Description: "Neutron star black hole merger",
		},
		{
			Name: "GW200115", Date: date(2020, time.January, 15), Type: NeutronStarBlackHole,
			Mass1Solar: 5.7, Mass2Solar: 1.5, FinalMassSolar: 7.0,
			DistanceMpc: 300, PeakStrain: 9.0e-23, SignificanceSigma: 5.0,
			Description: "Second confident neutron star black hole merger",
		},
	}}
}

// All returns a copy of the event table in its fixed order.
func (c *Catalog) All() []Event {
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Len returns the number of events.
func (c *Catalog) Len() int {
	return len(c.events)
}

// ByName looks up an event by its designation, case-insensitively.
func (c *Catalog) ByName(name string) (Event, bool) {
	for _, e := range c.events {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Event{}, false
}

// SortedByDate returns the events ordered by observation date, oldest first.
func (c *Catalog) SortedByDate() []Event {
	out := c.All()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Derived computes the on-demand derived quantities for an event using its
// published peak strain and the engine's reference peak frequency.
func (e Event) Derived() (physics.Derived, error) {
	return physics.DerivedFor(
		e.Mass1Solar, e.Mass2Solar, e.FinalMassSolar,
		e.PeakStrain, physics.DefaultPeakFrequencyHz, physics.DefaultHubbleConstantKmsMpc,
	)
}
