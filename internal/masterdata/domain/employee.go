package masterdata

import (
	"context"
	"time"
)

// Employee represents a person who takes business trips.
type Employee struct {
	ID        string
	Name      string
	Address   string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks employee invariants.
func (e Employee) Validate() error {
	if e.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// EmployeeRepository manages employee persistence.
type EmployeeRepository interface {
	Get(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id string) error
}
