package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trips "travelorder-cloud/internal/trips/domain"
)

const (
	defaultTripsTable     = "trips"
	defaultWaypointsTable = "trip_waypoints"
	defaultExpensesTable  = "trip_expenses"
)

// TripRepository is a Postgres implementation for trips. It owns the trip
// row plus its ordered waypoints and expense items, written together in one
// transaction.
type TripRepository struct {
	db             *sql.DB
	table          string
	waypointsTable string
	expensesTable  string
}

// TripOption configures the repository.
type TripOption func(*TripRepository)

// WithTripsTable overrides the default table names.
func WithTripsTable(table, waypoints, expenses string) TripOption {
	return func(repo *TripRepository) {
		if table != "" {
			repo.table = table
		}
		if waypoints != "" {
			repo.waypointsTable = waypoints
		}
		if expenses != "" {
			repo.expensesTable = expenses
		}
	}
}

// NewTripRepository constructs a repository.
func NewTripRepository(db *sql.DB, opts ...TripOption) *TripRepository {
	repo := &TripRepository{
		db:             db,
		table:          defaultTripsTable,
		waypointsTable: defaultWaypointsTable,
		expensesTable:  defaultExpensesTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

const tripColumns = `id, vehicle_id, employee_id, project_id, date_start, date_end,
	origin, origin_country, destination, destination_country,
	odometer_start, odometer_end, distance_km, purpose, notes,
	is_settled, settlement_id, created_at, updated_at`

func scanTrip(scanner interface{ Scan(dest ...any) error }) (*trips.Trip, error) {
	var trip trips.Trip
	var projectID, settlementID sql.NullString
	var odometerStart, odometerEnd sql.NullFloat64

	if err := scanner.Scan(
		&trip.ID,
		&trip.VehicleID,
		&trip.EmployeeID,
		&projectID,
		&trip.DateStart,
		&trip.DateEnd,
		&trip.Origin,
		&trip.OriginCountry,
		&trip.Destination,
		&trip.DestinationCountry,
		&odometerStart,
		&odometerEnd,
		&trip.DistanceKm,
		&trip.Purpose,
		&trip.Notes,
		&trip.IsSettled,
		&settlementID,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	); err != nil {
		return nil, err
	}

	trip.ProjectID = projectID.String
	trip.SettlementID = settlementID.String
	if odometerStart.Valid {
		trip.OdometerStart = &odometerStart.Float64
	}
	if odometerEnd.Valid {
		trip.OdometerEnd = &odometerEnd.Float64
	}
	trip.DateStart = trip.DateStart.UTC()
	trip.DateEnd = trip.DateEnd.UTC()
	trip.CreatedAt = trip.CreatedAt.UTC()
	trip.UpdatedAt = trip.UpdatedAt.UTC()
	return &trip, nil
}

// Get loads a trip with its waypoints and expenses.
func (r *TripRepository) Get(ctx context.Context, id string) (*trips.Trip, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("trip repo: nil db")
	}
	if id == "" {
		return nil, errors.New("trip repo: empty id")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 LIMIT 1`, tripColumns, r.table)
	trip, err := scanTrip(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadChildren(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// List returns all trips, newest start date first.
func (r *TripRepository) List(ctx context.Context) ([]trips.Trip, error) {
	return r.list(ctx, "")
}

// ListUnsettled returns trips not yet claimed by a settlement.
func (r *TripRepository) ListUnsettled(ctx context.Context) ([]trips.Trip, error) {
	return r.list(ctx, "WHERE is_settled = FALSE")
}

func (r *TripRepository) list(ctx context.Context, where string) ([]trips.Trip, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("trip repo: nil db")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY date_start DESC`, tripColumns, r.table, where)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []trips.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadChildren(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *TripRepository) loadChildren(ctx context.Context, trip *trips.Trip) error {
	waypointQuery := fmt.Sprintf(`
SELECT location, country
FROM %s
WHERE trip_id = $1
ORDER BY position`, r.waypointsTable)

	rows, err := r.db.QueryContext(ctx, waypointQuery, trip.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var waypoint trips.Waypoint
		if err := rows.Scan(&waypoint.Location, &waypoint.Country); err != nil {
			return err
		}
		trip.Waypoints = append(trip.Waypoints, waypoint)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	expenseQuery := fmt.Sprintf(`
SELECT id, category, amount, note
FROM %s
WHERE trip_id = $1
ORDER BY position`, r.expensesTable)

	expenseRows, err := r.db.QueryContext(ctx, expenseQuery, trip.ID)
	if err != nil {
		return err
	}
	defer expenseRows.Close()
	for expenseRows.Next() {
		var expense trips.Expense
		if err := expenseRows.Scan(&expense.ID, &expense.Category, &expense.Amount, &expense.Note); err != nil {
			return err
		}
		trip.Expenses = append(trip.Expenses, expense)
	}
	return expenseRows.Err()
}

// Save upserts a trip and rewrites its waypoints and expenses in one
// transaction.
func (r *TripRepository) Save(ctx context.Context, trip *trips.Trip) error {
	if r == nil || r.db == nil {
		return errors.New("trip repo: nil db")
	}
	if trip == nil {
		return trips.ErrNilTrip
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
INSERT INTO %s (
	id, vehicle_id, employee_id, project_id, date_start, date_end,
	origin, origin_country, destination, destination_country,
	odometer_start, odometer_end, distance_km, purpose, notes,
	is_settled, settlement_id
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
)
ON CONFLICT (id)
DO UPDATE SET
	vehicle_id = EXCLUDED.vehicle_id,
	employee_id = EXCLUDED.employee_id,
	project_id = EXCLUDED.project_id,
	date_start = EXCLUDED.date_start,
	date_end = EXCLUDED.date_end,
	origin = EXCLUDED.origin,
	origin_country = EXCLUDED.origin_country,
	destination = EXCLUDED.destination,
	destination_country = EXCLUDED.destination_country,
	odometer_start = EXCLUDED.odometer_start,
	odometer_end = EXCLUDED.odometer_end,
	distance_km = EXCLUDED.distance_km,
	purpose = EXCLUDED.purpose,
	notes = EXCLUDED.notes,
	is_settled = EXCLUDED.is_settled,
	settlement_id = EXCLUDED.settlement_id,
	updated_at = NOW()`, r.table)

	if _, err := tx.ExecContext(ctx, query,
		trip.ID,
		trip.VehicleID,
		trip.EmployeeID,
		nullString(trip.ProjectID),
		trip.DateStart.UTC(),
		trip.DateEnd.UTC(),
		trip.Origin,
		trip.OriginCountry,
		trip.Destination,
		trip.DestinationCountry,
		nullFloat(trip.OdometerStart),
		nullFloat(trip.OdometerEnd),
		trip.DistanceKm,
		trip.Purpose,
		trip.Notes,
		trip.IsSettled,
		nullString(trip.SettlementID),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE trip_id = $1`, r.waypointsTable), trip.ID); err != nil {
		return err
	}
	for i, waypoint := range trip.Waypoints {
		insert := fmt.Sprintf(`INSERT INTO %s (trip_id, position, location, country) VALUES ($1, $2, $3, $4)`, r.waypointsTable)
		if _, err := tx.ExecContext(ctx, insert, trip.ID, i, waypoint.Location, waypoint.Country); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE trip_id = $1`, r.expensesTable), trip.ID); err != nil {
		return err
	}
	for i, expense := range trip.Expenses {
		insert := fmt.Sprintf(`INSERT INTO %s (id, trip_id, position, category, amount, note) VALUES ($1, $2, $3, $4, $5, $6)`, r.expensesTable)
		if _, err := tx.ExecContext(ctx, insert, expense.ID, trip.ID, i, expense.Category, expense.Amount, expense.Note); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a trip with its waypoints and expenses.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("trip repo: nil db")
	}
	if id == "" {
		return errors.New("trip repo: empty id")
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return trips.ErrTripNotFound
	}
	return nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
