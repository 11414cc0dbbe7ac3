package masterdata

import (
	"context"
	"time"

	pricing "travelorder-cloud/internal/pricing/domain"
)

// Ownership kinds. Amortization is only paid for privately owned vehicles.
const (
	OwnershipPrivate = "private"
	OwnershipCompany = "company"
)

// Vehicle represents a car used for business trips.
type Vehicle struct {
	ID          string
	Name        string
	Plate       string
	Consumption float64 // liters (or kWh) per 100 km
	FuelType    string
	Ownership   string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks vehicle invariants.
func (v Vehicle) Validate() error {
	if v.Name == "" {
		return ErrEmptyName
	}
	if v.Plate == "" {
		return ErrEmptyPlate
	}
	if v.Consumption < 0 {
		return ErrNegativeConsumption
	}
	switch v.FuelType {
	case pricing.FuelDiesel, pricing.FuelBenzin, pricing.FuelLPG, pricing.FuelElectric:
	default:
		return ErrUnknownFuelType
	}
	switch v.Ownership {
	case OwnershipPrivate, OwnershipCompany:
	default:
		return ErrUnknownOwnership
	}
	return nil
}

// VehicleRepository manages vehicle persistence.
type VehicleRepository interface {
	Get(ctx context.Context, id string) (*Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	Save(ctx context.Context, vehicle *Vehicle) error
	Delete(ctx context.Context, id string) error
}
