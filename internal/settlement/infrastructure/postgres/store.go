package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	settlement "travelorder-cloud/internal/settlement/domain"
)

const (
	defaultSettlementsTable     = "settlements"
	defaultSettlementTripsTable = "settlement_trips"
	defaultTripsTable           = "trips"
)

// Store is a Postgres implementation of the settlement store. Creating and
// deleting a settlement also flips the settled flag on the referenced trip
// rows; both run in a single transaction so a batch is either fully claimed
// or not at all.
type Store struct {
	db         *sql.DB
	table      string
	linkTable  string
	tripsTable string
}

// StoreOption configures the store.
type StoreOption func(*Store)

// WithSettlementTables overrides the default table names.
func WithSettlementTables(table, link, trips string) StoreOption {
	return func(store *Store) {
		if table != "" {
			store.table = table
		}
		if link != "" {
			store.linkTable = link
		}
		if trips != "" {
			store.tripsTable = trips
		}
	}
}

// NewStore constructs a store.
func NewStore(db *sql.DB, opts ...StoreOption) *Store {
	store := &Store{
		db:         db,
		table:      defaultSettlementsTable,
		linkTable:  defaultSettlementTripsTable,
		tripsTable: defaultTripsTable,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Get loads a settlement with its trip ids.
func (s *Store) Get(ctx context.Context, id string) (*settlement.Settlement, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("settlement store: nil db")
	}
	if id == "" {
		return nil, errors.New("settlement store: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, name, status, total_amount, created_at
FROM %s
WHERE id = $1
LIMIT 1`, s.table)

	var batch settlement.Settlement
	if err := s.db.QueryRowContext(ctx, query, id).Scan(
		&batch.ID,
		&batch.Name,
		&batch.Status,
		&batch.TotalAmount,
		&batch.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	batch.CreatedAt = batch.CreatedAt.UTC()

	tripIDs, err := s.tripIDs(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	batch.TripIDs = tripIDs
	return &batch, nil
}

// List returns all settlements, newest first.
func (s *Store) List(ctx context.Context) ([]settlement.Settlement, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("settlement store: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, name, status, total_amount, created_at
FROM %s
ORDER BY created_at DESC`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []settlement.Settlement
	for rows.Next() {
		var batch settlement.Settlement
		if err := rows.Scan(
			&batch.ID,
			&batch.Name,
			&batch.Status,
			&batch.TotalAmount,
			&batch.CreatedAt,
		); err != nil {
			return nil, err
		}
		batch.CreatedAt = batch.CreatedAt.UTC()
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range batches {
		tripIDs, err := s.tripIDs(ctx, batches[i].ID)
		if err != nil {
			return nil, err
		}
		batches[i].TripIDs = tripIDs
	}
	return batches, nil
}

func (s *Store) tripIDs(ctx context.Context, settlementID string) ([]string, error) {
	query := fmt.Sprintf(`
SELECT trip_id
FROM %s
WHERE settlement_id = $1
ORDER BY position`, s.linkTable)

	rows, err := s.db.QueryContext(ctx, query, settlementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tripIDs []string
	for rows.Next() {
		var tripID string
		if err := rows.Scan(&tripID); err != nil {
			return nil, err
		}
		tripIDs = append(tripIDs, tripID)
	}
	return tripIDs, rows.Err()
}

// CreateWithTrips inserts the settlement and claims its trips in one
// transaction. A trip that is already settled aborts the whole batch with
// ErrTripAlreadySettled.
func (s *Store) CreateWithTrips(ctx context.Context, batch *settlement.Settlement) error {
	if s == nil || s.db == nil {
		return errors.New("settlement store: nil db")
	}
	if batch == nil {
		return settlement.ErrNilSettlement
	}
	if err := batch.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	insert := fmt.Sprintf(`
INSERT INTO %s (id, name, status, total_amount, created_at)
VALUES ($1, $2, $3, $4, $5)`, s.table)
	if _, err := tx.ExecContext(ctx, insert,
		batch.ID,
		batch.Name,
		batch.Status,
		batch.TotalAmount,
		batch.CreatedAt.UTC(),
	); err != nil {
		return err
	}

	// The settled-flag guard in the WHERE clause enforces the
	// one-settlement-per-trip invariant under concurrent creates.
	claim := fmt.Sprintf(`
UPDATE %s
SET is_settled = TRUE, settlement_id = $1, updated_at = NOW()
WHERE id = $2 AND is_settled = FALSE`, s.tripsTable)
	link := fmt.Sprintf(`
INSERT INTO %s (settlement_id, trip_id, position)
VALUES ($1, $2, $3)`, s.linkTable)

	for i, tripID := range batch.TripIDs {
		result, err := tx.ExecContext(ctx, claim, batch.ID, tripID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return settlement.ErrTripAlreadySettled
		}
		if _, err := tx.ExecContext(ctx, link, batch.ID, tripID, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteWithTrips removes the settlement and releases its trips in one
// transaction.
func (s *Store) DeleteWithTrips(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return errors.New("settlement store: nil db")
	}
	if id == "" {
		return errors.New("settlement store: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	release := fmt.Sprintf(`
UPDATE %s
SET is_settled = FALSE, settlement_id = NULL, updated_at = NOW()
WHERE settlement_id = $1`, s.tripsTable)
	if _, err := tx.ExecContext(ctx, release, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE settlement_id = $1`, s.linkTable), id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return settlement.ErrNotFound
	}

	return tx.Commit()
}

// UpdateStatus changes the settlement status.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	if s == nil || s.db == nil {
		return errors.New("settlement store: nil db")
	}
	if id == "" {
		return errors.New("settlement store: empty id")
	}

	query := fmt.Sprintf(`UPDATE %s SET status = $2 WHERE id = $1`, s.table)
	result, err := s.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return settlement.ErrNotFound
	}
	return nil
}
