package masterdata

import "errors"

var (
	// ErrEmptyName is returned when a name is missing.
	ErrEmptyName = errors.New("masterdata: empty name")
	// ErrEmptyPlate is returned when a vehicle plate is missing.
	ErrEmptyPlate = errors.New("masterdata: empty plate")
	// ErrEmptyCode is returned when a project code is missing.
	ErrEmptyCode = errors.New("masterdata: empty code")
	// ErrNegativeConsumption is returned for a negative fuel consumption.
	ErrNegativeConsumption = errors.New("masterdata: negative consumption")
	// ErrUnknownFuelType is returned for a fuel type outside the closed set.
	ErrUnknownFuelType = errors.New("masterdata: unknown fuel type")
	// ErrUnknownOwnership is returned for an ownership outside the closed set.
	ErrUnknownOwnership = errors.New("masterdata: unknown ownership")
	// ErrNotFound is returned when a masterdata entity does not exist.
	ErrNotFound = errors.New("masterdata: not found")
)
