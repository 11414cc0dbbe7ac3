package settlement

import (
	"math"
	"testing"
	"time"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	trips "travelorder-cloud/internal/trips/domain"
)

var testSettings = trips.Settings{
	MealRateLow:      7.80,
	MealRateMid:      11.60,
	MealRateHigh:     17.40,
	AmortizationRate: 0.252,
}

func referenceTrip(id, projectID string) trips.Trip {
	start := time.Date(2024, time.January, 3, 6, 0, 0, 0, time.UTC)
	return trips.Trip{
		ID:         id,
		VehicleID:  "veh-1",
		EmployeeID: "emp-1",
		ProjectID:  projectID,
		DateStart:  start,
		DateEnd:    start.Add(8 * time.Hour),
		DistanceKm: 120,
	}
}

func testVehicles() map[string]*masterdata.Vehicle {
	return map[string]*masterdata.Vehicle{
		"veh-1": {
			ID:          "veh-1",
			Name:        "Opel Grandland",
			Plate:       "NR-168MH",
			Consumption: 6.5,
			FuelType:    pricing.FuelDiesel,
			Ownership:   masterdata.OwnershipPrivate,
		},
	}
}

func testPrices() []pricing.Record {
	return []pricing.Record{{
		ID:          "fp-1",
		ValidFrom:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:     time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC),
		PriceDiesel: 1.45,
	}}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateTripsSumsBatch(t *testing.T) {
	batch := []trips.Trip{referenceTrip("trip-1", ""), referenceTrip("trip-2", "")}

	total := AggregateTrips(batch, testVehicles(), testSettings, testPrices())

	// Each reference trip costs 7.80 + 11.31 + 30.24 = 49.35.
	if !almostEqual(total.TotalAmount, 98.70) {
		t.Fatalf("total = %v, want 98.70", total.TotalAmount)
	}
	if len(total.Breakdowns) != 2 {
		t.Fatalf("breakdowns = %d, want 2", len(total.Breakdowns))
	}
	for _, breakdown := range total.Breakdowns {
		if !almostEqual(breakdown.Calculation.TotalCost, 49.35) {
			t.Fatalf("trip %s total = %v, want 49.35", breakdown.TripID, breakdown.Calculation.TotalCost)
		}
	}
}

func TestAggregateTripsMissingVehicleDegrades(t *testing.T) {
	trip := referenceTrip("trip-1", "")
	trip.VehicleID = "veh-unknown"

	total := AggregateTrips([]trips.Trip{trip}, testVehicles(), testSettings, testPrices())
	if !almostEqual(total.TotalAmount, 7.80) {
		t.Fatalf("total with missing vehicle = %v, want just the meal allowance 7.80", total.TotalAmount)
	}
}

func TestGroupTotalsConstantKey(t *testing.T) {
	batch := []trips.Trip{referenceTrip("trip-1", ""), referenceTrip("trip-2", "")}

	groups := GroupTotals(batch, testVehicles(), testSettings, testPrices(), func(trips.Trip) string { return "all" })
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	if groups[0].Key != "all" || groups[0].TripCount != 2 || !almostEqual(groups[0].TotalCost, 98.70) {
		t.Fatalf("unexpected group: %+v", groups[0])
	}
}

func TestGroupTotalsSortedDescending(t *testing.T) {
	small := referenceTrip("trip-1", "proj-small")
	small.DistanceKm = 10
	big1 := referenceTrip("trip-2", "proj-big")
	big2 := referenceTrip("trip-3", "proj-big")

	groups := GroupTotals([]trips.Trip{small, big1, big2}, testVehicles(), testSettings, testPrices(), func(tr trips.Trip) string { return tr.ProjectID })
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Key != "proj-big" || groups[1].Key != "proj-small" {
		t.Fatalf("groups not sorted by cost desc: %+v", groups)
	}
	if groups[0].TotalCost <= groups[1].TotalCost {
		t.Fatalf("descending order violated: %+v", groups)
	}
}

func TestSettlementValidate(t *testing.T) {
	valid := Settlement{Name: "February batch", Status: StatusDraft, TripIDs: []string{"trip-1"}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid settlement rejected: %v", err)
	}
	if err := (Settlement{TripIDs: []string{"trip-1"}}).Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Settlement{Name: "x"}).Validate(); err != ErrNoTrips {
		t.Fatalf("expected ErrNoTrips, got %v", err)
	}
}
