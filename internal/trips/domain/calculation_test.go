package trips

import (
	"math"
	"testing"
	"time"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
)

var testSettings = Settings{
	MealRateLow:      7.80,
	MealRateMid:      11.60,
	MealRateHigh:     17.40,
	AmortizationRate: 0.252,
}

func tripLasting(hours float64) Trip {
	start := time.Date(2024, time.January, 3, 6, 0, 0, 0, time.UTC)
	return Trip{
		ID:         "trip-1",
		VehicleID:  "veh-1",
		EmployeeID: "emp-1",
		DateStart:  start,
		DateEnd:    start.Add(time.Duration(hours * float64(time.Hour))),
	}
}

func privateDiesel() *masterdata.Vehicle {
	return &masterdata.Vehicle{
		ID:          "veh-1",
		Name:        "Opel Grandland",
		Plate:       "NR-168MH",
		Consumption: 6.5,
		FuelType:    pricing.FuelDiesel,
		Ownership:   masterdata.OwnershipPrivate,
		IsActive:    true,
	}
}

func januaryPrices() []pricing.Record {
	return []pricing.Record{{
		ID:          "fp-1",
		ValidFrom:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:     time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC),
		PriceDiesel: 1.45,
		PriceBenzin: 1.60,
	}}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMealAllowanceBoundaries(t *testing.T) {
	cases := []struct {
		hours float64
		want  float64
	}{
		{4.999, 0},
		{5, testSettings.MealRateLow},
		{11.999, testSettings.MealRateLow},
		{12, testSettings.MealRateMid},
		{18, testSettings.MealRateMid},
		{18.001, testSettings.MealRateHigh},
		{36, testSettings.MealRateHigh},
	}
	for _, tc := range cases {
		calc := Calculate(tripLasting(tc.hours), nil, testSettings, nil)
		if !almostEqual(calc.MealAllowance, tc.want) {
			t.Fatalf("meal allowance for %vh = %v, want %v", tc.hours, calc.MealAllowance, tc.want)
		}
	}
}

func TestNegativeDurationPropagates(t *testing.T) {
	trip := tripLasting(8)
	trip.DateEnd = trip.DateStart.Add(-2 * time.Hour)

	calc := Calculate(trip, nil, testSettings, nil)
	if calc.DurationHours != -2 {
		t.Fatalf("duration = %v, want -2", calc.DurationHours)
	}
	if calc.MealAllowance != 0 {
		t.Fatalf("negative duration must pay no meal allowance, got %v", calc.MealAllowance)
	}
}

func TestCompanyVehiclePaysNoAmortization(t *testing.T) {
	vehicle := privateDiesel()
	vehicle.Ownership = masterdata.OwnershipCompany

	for _, distance := range []float64{0, 1, 120, 100000} {
		trip := tripLasting(8)
		trip.DistanceKm = distance
		calc := Calculate(trip, vehicle, testSettings, januaryPrices())
		if calc.AmortizationCost != 0 {
			t.Fatalf("company vehicle amortization for %v km = %v, want 0", distance, calc.AmortizationCost)
		}
	}
}

func TestPrivateVehicleAmortizationExact(t *testing.T) {
	trip := tripLasting(8)
	trip.DistanceKm = 347.5

	calc := Calculate(trip, privateDiesel(), testSettings, januaryPrices())
	if calc.AmortizationCost != 347.5*testSettings.AmortizationRate {
		t.Fatalf("amortization = %v, want %v", calc.AmortizationCost, 347.5*testSettings.AmortizationRate)
	}
}

func TestNoVehicleZeroesVehicleComponents(t *testing.T) {
	trip := tripLasting(8)
	trip.DistanceKm = 500

	calc := Calculate(trip, nil, testSettings, januaryPrices())
	if calc.FuelCost != 0 || calc.AmortizationCost != 0 {
		t.Fatalf("missing vehicle must zero fuel and amortization, got %v / %v", calc.FuelCost, calc.AmortizationCost)
	}
	warnings := Warnings(trip, nil, januaryPrices())
	if len(warnings) != 1 || warnings[0] != WarningMissingVehicle {
		t.Fatalf("warnings = %v, want [%s]", warnings, WarningMissingVehicle)
	}
}

func TestUnresolvedPriceZeroesFuelCost(t *testing.T) {
	trip := tripLasting(8)
	trip.DistanceKm = 120
	trip.DateStart = time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	trip.DateEnd = trip.DateStart.Add(8 * time.Hour)

	calc := Calculate(trip, privateDiesel(), testSettings, januaryPrices())
	if calc.FuelCost != 0 {
		t.Fatalf("unresolved price must zero fuel cost, got %v", calc.FuelCost)
	}
	// Amortization is unaffected by the missing price.
	if !almostEqual(calc.AmortizationCost, 120*testSettings.AmortizationRate) {
		t.Fatalf("amortization = %v", calc.AmortizationCost)
	}
	warnings := Warnings(trip, privateDiesel(), januaryPrices())
	if len(warnings) != 1 || warnings[0] != WarningMissingFuelPrice {
		t.Fatalf("warnings = %v, want [%s]", warnings, WarningMissingFuelPrice)
	}
}

func TestPriceResolvedAtTripStart(t *testing.T) {
	trip := tripLasting(8)
	trip.DistanceKm = 100
	// Starts inside the priced week, ends after it.
	trip.DateStart = time.Date(2024, time.January, 6, 20, 0, 0, 0, time.UTC)
	trip.DateEnd = time.Date(2024, time.January, 9, 4, 0, 0, 0, time.UTC)

	calc := Calculate(trip, privateDiesel(), testSettings, januaryPrices())
	if calc.FuelCost == 0 {
		t.Fatalf("price lookup must use the trip start, not the end")
	}
}

func TestExpensesSummedAsGiven(t *testing.T) {
	trip := tripLasting(8)
	trip.Expenses = []Expense{
		{Category: ExpenseParking, Amount: 4.50},
		{Category: ExpenseToll, Amount: 10},
		{Category: ExpenseOther, Amount: 0},
		{Category: ExpenseAccommodation, Amount: -2.50}, // passed through, not rejected
	}

	calc := Calculate(trip, nil, testSettings, nil)
	if !almostEqual(calc.OtherExpensesCost, 12) {
		t.Fatalf("other expenses = %v, want 12", calc.OtherExpensesCost)
	}
}

func TestEndToEndScenario(t *testing.T) {
	trip := tripLasting(8)
	trip.DistanceKm = 120

	calc := Calculate(trip, privateDiesel(), testSettings, januaryPrices())

	if !almostEqual(calc.MealAllowance, 7.80) {
		t.Fatalf("meal allowance = %v, want 7.80", calc.MealAllowance)
	}
	if !almostEqual(calc.FuelCost, 11.31) {
		t.Fatalf("fuel cost = %v, want 11.31", calc.FuelCost)
	}
	if !almostEqual(calc.AmortizationCost, 30.24) {
		t.Fatalf("amortization = %v, want 30.24", calc.AmortizationCost)
	}
	if calc.OtherExpensesCost != 0 {
		t.Fatalf("other expenses = %v, want 0", calc.OtherExpensesCost)
	}
	if !almostEqual(calc.TotalCost, 49.35) {
		t.Fatalf("total = %v, want 49.35", calc.TotalCost)
	}
}

func TestSumLawAndIdempotence(t *testing.T) {
	trip := tripLasting(13.5)
	trip.DistanceKm = 88
	trip.Expenses = []Expense{{Category: ExpenseParking, Amount: 3.20}}

	first := Calculate(trip, privateDiesel(), testSettings, januaryPrices())
	second := Calculate(trip, privateDiesel(), testSettings, januaryPrices())

	if first != second {
		t.Fatalf("identical inputs must yield identical output: %+v vs %+v", first, second)
	}
	sum := first.MealAllowance + first.FuelCost + first.AmortizationCost + first.OtherExpensesCost
	if first.TotalCost != sum {
		t.Fatalf("total %v != component sum %v", first.TotalCost, sum)
	}
}
