package pricing

import "errors"

var (
	// ErrMissingPeriodBound is returned when a validity bound is zero.
	ErrMissingPeriodBound = errors.New("pricing: missing validity bound")
	// ErrPeriodInverted is returned when valid_to precedes valid_from.
	ErrPeriodInverted = errors.New("pricing: valid_to before valid_from")
	// ErrNilRecord is returned when saving a nil record.
	ErrNilRecord = errors.New("pricing: nil record")
	// ErrRecordNotFound is returned when a price record is not found.
	ErrRecordNotFound = errors.New("pricing: record not found")
)
