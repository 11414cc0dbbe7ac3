package settlement

import "errors"

var (
	// ErrEmptyName is returned when a settlement has no name.
	ErrEmptyName = errors.New("settlement: empty name")
	// ErrNoTrips is returned when a settlement references no trips.
	ErrNoTrips = errors.New("settlement: no trips")
	// ErrTripAlreadySettled is returned when a referenced trip belongs to
	// another active settlement.
	ErrTripAlreadySettled = errors.New("settlement: trip already settled")
	// ErrNotFound is returned when a settlement does not exist.
	ErrNotFound = errors.New("settlement: not found")
	// ErrApproved is returned when mutating an approved settlement.
	ErrApproved = errors.New("settlement: approved and immutable")
	// ErrNilSettlement is returned when saving a nil settlement.
	ErrNilSettlement = errors.New("settlement: nil settlement")
	// ErrPartialUpdate signals that only some trip flag updates were applied.
	// Data is inconsistent and needs manual reconciliation; this is distinct
	// from a total failure, after which nothing changed.
	ErrPartialUpdate = errors.New("settlement: partial trip update, reconciliation required")
)
