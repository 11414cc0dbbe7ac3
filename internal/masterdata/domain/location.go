package masterdata

import (
	"context"
	"time"
)

// SavedLocation is a reusable trip origin or destination.
type SavedLocation struct {
	ID        string
	Name      string
	Street    string
	City      string
	Zip       string
	Country   string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks saved location invariants.
func (l SavedLocation) Validate() error {
	if l.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// LocationRepository manages saved location persistence.
type LocationRepository interface {
	Get(ctx context.Context, id string) (*SavedLocation, error)
	List(ctx context.Context) ([]SavedLocation, error)
	Save(ctx context.Context, location *SavedLocation) error
	Delete(ctx context.Context, id string) error
}
