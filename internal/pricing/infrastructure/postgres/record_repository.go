package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pricing "travelorder-cloud/internal/pricing/domain"
)

const defaultFuelPricesTable = "fuel_prices"

// DBTX abstracts *sql.DB and *sql.Tx for repository use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RecordRepository is a Postgres implementation for fuel price records.
type RecordRepository struct {
	db    DBTX
	table string
}

// RecordOption configures the repository.
type RecordOption func(*RecordRepository)

// WithFuelPricesTable overrides the default table name.
func WithFuelPricesTable(table string) RecordOption {
	return func(repo *RecordRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewRecordRepository constructs a repository.
func NewRecordRepository(db DBTX, opts ...RecordOption) *RecordRepository {
	repo := &RecordRepository{db: db, table: defaultFuelPricesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// List returns all records in import order. Price resolution scans the
// collection front to back, so the order rows were first inserted in is the
// order they must come back in.
func (r *RecordRepository) List(ctx context.Context) ([]pricing.Record, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("fuel price repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, valid_from, valid_to, price_diesel, price_benzin, price_lpg, price_electric, note, created_at, updated_at
FROM %s
ORDER BY position`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []pricing.Record
	for rows.Next() {
		var record pricing.Record
		if err := rows.Scan(
			&record.ID,
			&record.ValidFrom,
			&record.ValidTo,
			&record.PriceDiesel,
			&record.PriceBenzin,
			&record.PriceLpg,
			&record.PriceElectric,
			&record.Note,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		record.ValidFrom = record.ValidFrom.UTC()
		record.ValidTo = record.ValidTo.UTC()
		record.CreatedAt = record.CreatedAt.UTC()
		record.UpdatedAt = record.UpdatedAt.UTC()
		records = append(records, record)
	}
	return records, rows.Err()
}

// Get loads a record by id.
func (r *RecordRepository) Get(ctx context.Context, id string) (*pricing.Record, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("fuel price repo: nil db")
	}
	if id == "" {
		return nil, errors.New("fuel price repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, valid_from, valid_to, price_diesel, price_benzin, price_lpg, price_electric, note, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var record pricing.Record
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.ValidFrom,
		&record.ValidTo,
		&record.PriceDiesel,
		&record.PriceBenzin,
		&record.PriceLpg,
		&record.PriceElectric,
		&record.Note,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	record.ValidFrom = record.ValidFrom.UTC()
	record.ValidTo = record.ValidTo.UTC()
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}

// Save upserts a record. Updates keep the original position so the import
// order of the collection is stable.
func (r *RecordRepository) Save(ctx context.Context, record *pricing.Record) error {
	if r == nil || r.db == nil {
		return errors.New("fuel price repo: nil db")
	}
	if record == nil {
		return pricing.ErrNilRecord
	}
	if err := record.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, valid_from, valid_to, price_diesel, price_benzin, price_lpg, price_electric, note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id)
DO UPDATE SET
	valid_from = EXCLUDED.valid_from,
	valid_to = EXCLUDED.valid_to,
	price_diesel = EXCLUDED.price_diesel,
	price_benzin = EXCLUDED.price_benzin,
	price_lpg = EXCLUDED.price_lpg,
	price_electric = EXCLUDED.price_electric,
	note = EXCLUDED.note,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ValidFrom.UTC(),
		record.ValidTo.UTC(),
		record.PriceDiesel,
		record.PriceBenzin,
		record.PriceLpg,
		record.PriceElectric,
		record.Note,
	)
	return err
}

// Delete removes a record.
func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("fuel price repo: nil db")
	}
	if id == "" {
		return errors.New("fuel price repo: empty id")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return pricing.ErrRecordNotFound
	}
	return nil
}
