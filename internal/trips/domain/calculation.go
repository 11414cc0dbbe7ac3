package trips

import (
	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
)

// Calculation is the reimbursement breakdown for a single trip.
// TotalCost is always the sum of the four cost components. Values are not
// rounded; currency formatting is a presentation concern.
type Calculation struct {
	DurationHours     float64
	MealAllowance     float64
	FuelCost          float64
	AmortizationCost  float64
	OtherExpensesCost float64
	TotalCost         float64
}

// Warning tags for degraded calculation inputs.
const (
	WarningMissingVehicle   = "missing_vehicle"
	WarningMissingFuelPrice = "missing_fuel_price"
)

// Calculate derives the cost breakdown for a trip.
//
// It is a pure function over snapshots of its inputs and never fails: a nil
// vehicle or an unresolved fuel price degrades the affected component to 0.
// Callers that need to surface those conditions use Warnings. Temporal
// ordering is not checked here; a trip ending before it starts yields a
// negative duration and zero meal allowance.
func Calculate(trip Trip, vehicle *masterdata.Vehicle, settings Settings, records []pricing.Record) Calculation {
	calc := Calculation{DurationHours: trip.DateEnd.Sub(trip.DateStart).Hours()}

	calc.MealAllowance = mealAllowance(calc.DurationHours, settings)

	if vehicle != nil {
		if record, ok := pricing.Resolve(trip.DateStart, records); ok {
			calc.FuelCost = trip.DistanceKm / 100 * vehicle.Consumption * record.PriceFor(vehicle.FuelType)
		}
		if vehicle.Ownership == masterdata.OwnershipPrivate {
			calc.AmortizationCost = trip.DistanceKm * settings.AmortizationRate
		}
	}

	for _, expense := range trip.Expenses {
		calc.OtherExpensesCost += expense.Amount
	}

	calc.TotalCost = calc.MealAllowance + calc.FuelCost + calc.AmortizationCost + calc.OtherExpensesCost
	return calc
}

// mealAllowance is the statutory per-diem step function of trip duration.
// Exactly 12 hours pays the mid rate, and so does exactly 18; only strictly
// above 18 hours pays the high rate.
func mealAllowance(hours float64, settings Settings) float64 {
	switch {
	case hours < 5:
		return 0
	case hours < 12:
		return settings.MealRateLow
	case hours <= 18:
		return settings.MealRateMid
	default:
		return settings.MealRateHigh
	}
}

// Warnings reports the degraded-input conditions under which Calculate
// silently produced zero cost components, so the caller can pair the figures
// with a non-blocking warning instead of presenting them as exact.
func Warnings(trip Trip, vehicle *masterdata.Vehicle, records []pricing.Record) []string {
	if vehicle == nil {
		return []string{WarningMissingVehicle}
	}
	if _, ok := pricing.Resolve(trip.DateStart, records); !ok {
		return []string{WarningMissingFuelPrice}
	}
	return nil
}
