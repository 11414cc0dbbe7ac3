package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	masterdata "travelorder-cloud/internal/masterdata/domain"
)

const defaultEmployeesTable = "employees"

// EmployeeRepository is a Postgres implementation for employees.
type EmployeeRepository struct {
	db    DBTX
	table string
}

// EmployeeOption configures the repository.
type EmployeeOption func(*EmployeeRepository)

// WithEmployeesTable overrides the default table name.
func WithEmployeesTable(table string) EmployeeOption {
	return func(repo *EmployeeRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewEmployeeRepository constructs a repository.
func NewEmployeeRepository(db DBTX, opts ...EmployeeOption) *EmployeeRepository {
	repo := &EmployeeRepository{db: db, table: defaultEmployeesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads an employee by id.
func (r *EmployeeRepository) Get(ctx context.Context, id string) (*masterdata.Employee, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("employee repo: nil db")
	}
	if id == "" {
		return nil, errors.New("employee repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, name, address, role, is_active, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	var employee masterdata.Employee
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Address,
		&employee.Role,
		&employee.IsActive,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	employee.CreatedAt = employee.CreatedAt.UTC()
	employee.UpdatedAt = employee.UpdatedAt.UTC()
	return &employee, nil
}

// List returns all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]masterdata.Employee, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("employee repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, name, address, role, is_active, created_at, updated_at
FROM %s
ORDER BY name`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []masterdata.Employee
	for rows.Next() {
		var employee masterdata.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Address,
			&employee.Role,
			&employee.IsActive,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		employee.CreatedAt = employee.CreatedAt.UTC()
		employee.UpdatedAt = employee.UpdatedAt.UTC()
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// Save upserts an employee.
func (r *EmployeeRepository) Save(ctx context.Context, employee *masterdata.Employee) error {
	if r == nil || r.db == nil {
		return errors.New("employee repo: nil db")
	}
	if employee == nil {
		return errors.New("employee repo: nil employee")
	}
	if err := employee.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, name, address, role, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	address = EXCLUDED.address,
	role = EXCLUDED.role,
	is_active = EXCLUDED.is_active,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		employee.ID,
		employee.Name,
		employee.Address,
		employee.Role,
		employee.IsActive,
	)
	return err
}

// Delete removes an employee.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("employee repo: nil db")
	}
	if id == "" {
		return errors.New("employee repo: empty id")
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
