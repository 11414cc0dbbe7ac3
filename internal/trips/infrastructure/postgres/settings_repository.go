package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trips "travelorder-cloud/internal/trips/domain"
)

const defaultSettingsTable = "settings"

// SettingsRepository manages the single settings row. The table holds one
// record by convention (fixed id 1); Get falls back to zero rates when it
// has never been written.
type SettingsRepository struct {
	db    *sql.DB
	table string
}

// SettingsOption configures the repository.
type SettingsOption func(*SettingsRepository)

// WithSettingsTable overrides the default table name.
func WithSettingsTable(table string) SettingsOption {
	return func(repo *SettingsRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewSettingsRepository constructs a repository.
func NewSettingsRepository(db *sql.DB, opts ...SettingsOption) *SettingsRepository {
	repo := &SettingsRepository{db: db, table: defaultSettingsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads the settings snapshot.
func (r *SettingsRepository) Get(ctx context.Context) (trips.Settings, error) {
	if r == nil || r.db == nil {
		return trips.Settings{}, errors.New("settings repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT meal_rate_low, meal_rate_mid, meal_rate_high, amortization_rate, updated_at
FROM %s
WHERE id = 1
LIMIT 1`, r.table)

	var settings trips.Settings
	if err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.MealRateLow,
		&settings.MealRateMid,
		&settings.MealRateHigh,
		&settings.AmortizationRate,
		&settings.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trips.Settings{}, nil
		}
		return trips.Settings{}, err
	}
	settings.UpdatedAt = settings.UpdatedAt.UTC()
	return settings, nil
}

// Save writes the settings snapshot.
func (r *SettingsRepository) Save(ctx context.Context, settings trips.Settings) error {
	if r == nil || r.db == nil {
		return errors.New("settings repo: nil db")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, meal_rate_low, meal_rate_mid, meal_rate_high, amortization_rate)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id)
DO UPDATE SET
	meal_rate_low = EXCLUDED.meal_rate_low,
	meal_rate_mid = EXCLUDED.meal_rate_mid,
	meal_rate_high = EXCLUDED.meal_rate_high,
	amortization_rate = EXCLUDED.amortization_rate,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		settings.MealRateLow,
		settings.MealRateMid,
		settings.MealRateHigh,
		settings.AmortizationRate,
	)
	return err
}
