package settlement

import (
	"context"
	"time"
)

// Settlement statuses. A draft is editable; an approved settlement is a
// closed, paid-out batch and rejects further changes.
const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
)

// Settlement is a named batch of trips submitted together for reimbursement.
// TotalAmount caches the aggregated trip costs at creation time.
type Settlement struct {
	ID          string
	Name        string
	Status      string
	TotalAmount float64
	TripIDs     []string
	CreatedAt   time.Time
}

// Validate checks settlement invariants.
func (s Settlement) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	if len(s.TripIDs) == 0 {
		return ErrNoTrips
	}
	return nil
}

// Store persists settlements together with the settled state of their trips.
//
// CreateWithTrips and DeleteWithTrips are single logical transactions over
// the settlement row and every referenced trip's settled flag. An
// implementation that cannot apply them atomically must return
// ErrPartialUpdate when only part of the batch went through.
type Store interface {
	Get(ctx context.Context, id string) (*Settlement, error)
	List(ctx context.Context) ([]Settlement, error)
	// CreateWithTrips inserts the settlement and flips every referenced trip
	// from unsettled to settled. It fails with ErrTripAlreadySettled if any
	// trip is already claimed by an active settlement.
	CreateWithTrips(ctx context.Context, settlement *Settlement) error
	// DeleteWithTrips removes the settlement and reverts its trips to
	// unsettled.
	DeleteWithTrips(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) error
}
