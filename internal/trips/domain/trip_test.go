package trips

import (
	"testing"
	"time"
)

func TestTripValidate(t *testing.T) {
	start := time.Date(2024, time.February, 5, 7, 0, 0, 0, time.UTC)
	valid := Trip{
		VehicleID:  "veh-1",
		EmployeeID: "emp-1",
		DateStart:  start,
		DateEnd:    start.Add(9 * time.Hour),
		DistanceKm: 210,
		Expenses:   []Expense{{Category: ExpenseToll, Amount: 12}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid trip rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Trip)
		want   error
	}{
		{"no vehicle", func(tr *Trip) { tr.VehicleID = "" }, ErrEmptyVehicleID},
		{"no employee", func(tr *Trip) { tr.EmployeeID = "" }, ErrEmptyEmployeeID},
		{"zero end", func(tr *Trip) { tr.DateEnd = time.Time{} }, ErrMissingDates},
		{"end equals start", func(tr *Trip) { tr.DateEnd = tr.DateStart }, ErrEndNotAfterStart},
		{"end before start", func(tr *Trip) { tr.DateEnd = tr.DateStart.Add(-time.Hour) }, ErrEndNotAfterStart},
		{"negative distance", func(tr *Trip) { tr.DistanceKm = -1 }, ErrNegativeDistance},
		{"bad expense category", func(tr *Trip) { tr.Expenses[0].Category = "bribe" }, ErrUnknownExpenseCategory},
	}
	for _, tc := range cases {
		trip := valid
		trip.Expenses = []Expense{{Category: ExpenseToll, Amount: 12}}
		tc.mutate(&trip)
		if err := trip.Validate(); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := (Settings{MealRateLow: 7.8, MealRateMid: 11.6, MealRateHigh: 17.4, AmortizationRate: 0.252}).Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	if err := (Settings{MealRateMid: -1}).Validate(); err != ErrNegativeRate {
		t.Fatalf("expected ErrNegativeRate, got %v", err)
	}
}
