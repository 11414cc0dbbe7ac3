package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	masterdata "travelorder-cloud/internal/masterdata/domain"
)

const defaultVehiclesTable = "vehicles"

// VehicleRepository is a Postgres implementation for vehicles.
type VehicleRepository struct {
	db    DBTX
	table string
}

// VehicleOption configures the repository.
type VehicleOption func(*VehicleRepository)

// WithVehiclesTable overrides the default table name.
func WithVehiclesTable(table string) VehicleOption {
	return func(repo *VehicleRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewVehicleRepository constructs a repository.
func NewVehicleRepository(db DBTX, opts ...VehicleOption) *VehicleRepository {
	repo := &VehicleRepository{db: db, table: defaultVehiclesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads a vehicle by id.
func (r *VehicleRepository) Get(ctx context.Context, id string) (*masterdata.Vehicle, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vehicle repo: nil db")
	}
	if id == "" {
		return nil, errors.New("vehicle repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, name, plate, consumption, fuel_type, ownership, is_active, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var vehicle masterdata.Vehicle
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&vehicle.ID,
		&vehicle.Name,
		&vehicle.Plate,
		&vehicle.Consumption,
		&vehicle.FuelType,
		&vehicle.Ownership,
		&vehicle.IsActive,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	vehicle.CreatedAt = vehicle.CreatedAt.UTC()
	vehicle.UpdatedAt = vehicle.UpdatedAt.UTC()
	return &vehicle, nil
}

// List returns all vehicles ordered by name.
func (r *VehicleRepository) List(ctx context.Context) ([]masterdata.Vehicle, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("vehicle repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, name, plate, consumption, fuel_type, ownership, is_active, created_at, updated_at
FROM %s
ORDER BY name`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []masterdata.Vehicle
	for rows.Next() {
		var vehicle masterdata.Vehicle
		if err := rows.Scan(
			&vehicle.ID,
			&vehicle.Name,
			&vehicle.Plate,
			&vehicle.Consumption,
			&vehicle.FuelType,
			&vehicle.Ownership,
			&vehicle.IsActive,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicle.CreatedAt = vehicle.CreatedAt.UTC()
		vehicle.UpdatedAt = vehicle.UpdatedAt.UTC()
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

// Save upserts a vehicle.
func (r *VehicleRepository) Save(ctx context.Context, vehicle *masterdata.Vehicle) error {
	if r == nil || r.db == nil {
		return errors.New("vehicle repo: nil db")
	}
	if vehicle == nil {
		return errors.New("vehicle repo: nil vehicle")
	}
	if err := vehicle.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, name, plate, consumption, fuel_type, ownership, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	plate = EXCLUDED.plate,
	consumption = EXCLUDED.consumption,
	fuel_type = EXCLUDED.fuel_type,
	ownership = EXCLUDED.ownership,
	is_active = EXCLUDED.is_active,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.Plate,
		vehicle.Consumption,
		vehicle.FuelType,
		vehicle.Ownership,
		vehicle.IsActive,
	)
	return err
}

// Delete removes a vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("vehicle repo: nil db")
	}
	if id == "" {
		return errors.New("vehicle repo: empty id")
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
