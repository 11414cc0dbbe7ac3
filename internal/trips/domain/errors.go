package trips

import "errors"

var (
	// ErrEmptyVehicleID is returned when a trip has no vehicle reference.
	ErrEmptyVehicleID = errors.New("trips: empty vehicle id")
	// ErrEmptyEmployeeID is returned when a trip has no employee reference.
	ErrEmptyEmployeeID = errors.New("trips: empty employee id")
	// ErrMissingDates is returned when a trip start or end is zero.
	ErrMissingDates = errors.New("trips: missing start or end date")
	// ErrEndNotAfterStart is returned when a trip ends at or before its start.
	ErrEndNotAfterStart = errors.New("trips: end not after start")
	// ErrNegativeDistance is returned for a negative driven distance.
	ErrNegativeDistance = errors.New("trips: negative distance")
	// ErrUnknownExpenseCategory is returned for an expense category outside the closed set.
	ErrUnknownExpenseCategory = errors.New("trips: unknown expense category")
	// ErrNegativeRate is returned when a settings rate is negative.
	ErrNegativeRate = errors.New("trips: negative rate")
	// ErrTripNotFound is returned when a trip does not exist.
	ErrTripNotFound = errors.New("trips: not found")
	// ErrTripSettled is returned when mutating a trip locked by a settlement.
	ErrTripSettled = errors.New("trips: trip belongs to a settlement")
	// ErrNilTrip is returned when saving a nil trip.
	ErrNilTrip = errors.New("trips: nil trip")
)
