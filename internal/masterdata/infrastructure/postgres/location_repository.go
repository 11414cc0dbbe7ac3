package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	masterdata "travelorder-cloud/internal/masterdata/domain"
)

const defaultLocationsTable = "saved_locations"

// LocationRepository is a Postgres implementation for saved locations.
type LocationRepository struct {
	db    DBTX
	table string
}

// LocationOption configures the repository.
type LocationOption func(*LocationRepository)

// WithLocationsTable overrides the default table name.
func WithLocationsTable(table string) LocationOption {
	return func(repo *LocationRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewLocationRepository constructs a repository.
func NewLocationRepository(db DBTX, opts ...LocationOption) *LocationRepository {
	repo := &LocationRepository{db: db, table: defaultLocationsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads a saved location by id.
func (r *LocationRepository) Get(ctx context.Context, id string) (*masterdata.SavedLocation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("location repo: nil db")
	}
	if id == "" {
		return nil, errors.New("location repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, name, street, city, zip, country, note, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var location masterdata.SavedLocation
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.Street,
		&location.City,
		&location.Zip,
		&location.Country,
		&location.Note,
		&location.CreatedAt,
		&location.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	location.CreatedAt = location.CreatedAt.UTC()
	location.UpdatedAt = location.UpdatedAt.UTC()
	return &location, nil
}

// List returns all saved locations ordered by name.
func (r *LocationRepository) List(ctx context.Context) ([]masterdata.SavedLocation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("location repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, name, street, city, zip, country, note, created_at, updated_at
FROM %s
ORDER BY name`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []masterdata.SavedLocation
	for rows.Next() {
		var location masterdata.SavedLocation
		if err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Street,
			&location.City,
			&location.Zip,
			&location.Country,
			&location.Note,
			&location.CreatedAt,
			&location.UpdatedAt,
		); err != nil {
			return nil, err
		}
		location.CreatedAt = location.CreatedAt.UTC()
		location.UpdatedAt = location.UpdatedAt.UTC()
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

// Save upserts a saved location.
func (r *LocationRepository) Save(ctx context.Context, location *masterdata.SavedLocation) error {
	if r == nil || r.db == nil {
		return errors.New("location repo: nil db")
	}
	if location == nil {
		return errors.New("location repo: nil location")
	}
	if err := location.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, name, street, city, zip, country, note)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	street = EXCLUDED.street,
	city = EXCLUDED.city,
	zip = EXCLUDED.zip,
	country = EXCLUDED.country,
	note = EXCLUDED.note,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		location.ID,
		location.Name,
		location.Street,
		location.City,
		location.Zip,
		location.Country,
		location.Note,
	)
	return err
}

// Delete removes a saved location.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("location repo: nil db")
	}
	if id == "" {
		return errors.New("location repo: empty id")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return masterdata.ErrNotFound
	}
	return nil
}
