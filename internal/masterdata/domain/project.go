package masterdata

import (
	"context"
	"time"
)

// Project is a cost center that trips can be booked against.
type Project struct {
	ID        string
	Code      string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks project invariants.
func (p Project) Validate() error {
	if p.Code == "" {
		return ErrEmptyCode
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// ProjectRepository manages project persistence.
type ProjectRepository interface {
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Save(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}
