package trips

import (
	"context"
	"time"
)

// Settings holds the statutory reimbursement rates. One record exists in the
// system at a time; callers fetch a snapshot and pass it into every
// calculation rather than reading process-wide state.
type Settings struct {
	MealRateLow      float64 // 5 to 12 hours
	MealRateMid      float64 // 12 to 18 hours
	MealRateHigh     float64 // above 18 hours
	AmortizationRate float64 // per km, private vehicles only
	UpdatedAt        time.Time
}

// Validate checks settings invariants.
func (s Settings) Validate() error {
	if s.MealRateLow < 0 || s.MealRateMid < 0 || s.MealRateHigh < 0 || s.AmortizationRate < 0 {
		return ErrNegativeRate
	}
	return nil
}

// SettingsRepository manages the settings singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}
