package pricing

import (
	"context"
	"time"
)

// Fuel type tags carried by vehicles and priced by weekly records.
const (
	FuelDiesel   = "diesel"
	FuelBenzin   = "benzin"
	FuelLPG      = "lpg"
	FuelElectric = "electric"
)

// Record holds per-fuel unit prices valid for a closed date interval.
// Weekly records come from the statistical office import and never
// overlap there; manually entered records may.
type Record struct {
	ID            string
	ValidFrom     time.Time
	ValidTo       time.Time
	PriceDiesel   float64
	PriceBenzin   float64
	PriceLpg      float64
	PriceElectric float64
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks record invariants.
func (r Record) Validate() error {
	if r.ValidFrom.IsZero() || r.ValidTo.IsZero() {
		return ErrMissingPeriodBound
	}
	if r.ValidTo.Before(r.ValidFrom) {
		return ErrPeriodInverted
	}
	return nil
}

// Contains reports whether at falls inside the closed validity interval.
func (r Record) Contains(at time.Time) bool {
	return !at.Before(r.ValidFrom) && !at.After(r.ValidTo)
}

// PriceFor returns the unit price for a fuel type tag.
// An unknown tag yields 0, meaning "no price known".
func (r Record) PriceFor(fuelType string) float64 {
	switch fuelType {
	case FuelDiesel:
		return r.PriceDiesel
	case FuelBenzin:
		return r.PriceBenzin
	case FuelLPG:
		return r.PriceLpg
	case FuelElectric:
		return r.PriceElectric
	default:
		return 0
	}
}

// Resolve picks the price record valid at the given instant.
//
// Records are scanned in the order provided, which is import order and not
// necessarily chronological; the first interval containing the instant wins.
// A false result means "price unknown" and must not be read as a zero price.
func Resolve(at time.Time, records []Record) (*Record, bool) {
	for i := range records {
		if records[i].Contains(at) {
			return &records[i], true
		}
	}
	return nil, false
}

// Repository persists fuel price records.
// List returns records in import order, which Resolve depends on.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	Save(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id string) error
}
