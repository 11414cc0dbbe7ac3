package application

import (
	"context"
	"errors"
	"testing"
	"time"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	trips "travelorder-cloud/internal/trips/domain"
	"travelorder-cloud/internal/trips/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubVehicleRepo struct {
	vehicles map[string]*masterdata.Vehicle
}

func (r *stubVehicleRepo) Get(ctx context.Context, id string) (*masterdata.Vehicle, error) {
	return r.vehicles[id], nil
}

func (r *stubVehicleRepo) List(ctx context.Context) ([]masterdata.Vehicle, error) {
	return nil, nil
}

func (r *stubVehicleRepo) Save(ctx context.Context, vehicle *masterdata.Vehicle) error {
	return nil
}

func (r *stubVehicleRepo) Delete(ctx context.Context, id string) error { return nil }

type stubSettingsRepo struct{ settings trips.Settings }

func (r *stubSettingsRepo) Get(ctx context.Context) (trips.Settings, error) {
	return r.settings, nil
}

func (r *stubSettingsRepo) Save(ctx context.Context, settings trips.Settings) error {
	r.settings = settings
	return nil
}

type stubPriceRepo struct{ records []pricing.Record }

func (r *stubPriceRepo) List(ctx context.Context) ([]pricing.Record, error) {
	return r.records, nil
}

func (r *stubPriceRepo) Get(ctx context.Context, id string) (*pricing.Record, error) {
	return nil, nil
}

func (r *stubPriceRepo) Save(ctx context.Context, record *pricing.Record) error { return nil }

func (r *stubPriceRepo) Delete(ctx context.Context, id string) error { return nil }

func newTestService(t *testing.T, vehicles *stubVehicleRepo, prices *stubPriceRepo) (*TripService, *memory.TripRepository) {
	t.Helper()
	repo := memory.NewTripRepository()
	settings := &stubSettingsRepo{settings: trips.Settings{
		MealRateLow:      7.80,
		MealRateMid:      11.60,
		MealRateHigh:     17.40,
		AmortizationRate: 0.252,
	}}
	service, err := NewTripService(repo, vehicles, settings, prices, fixedClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}, nil)
	if err != nil {
		t.Fatalf("NewTripService: %v", err)
	}
	return service, repo
}

func sampleTrip() trips.Trip {
	return trips.Trip{
		VehicleID:   "veh-1",
		EmployeeID:  "emp-1",
		DateStart:   time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC),
		DateEnd:     time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC),
		Origin:      "Bratislava",
		Destination: "Trnava",
		DistanceKm:  120,
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	service, _ := newTestService(t, &stubVehicleRepo{}, &stubPriceRepo{})

	created, err := service.Create(context.Background(), sampleTrip())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("no id assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set")
	}
	if created.IsSettled {
		t.Fatalf("new trip marked settled")
	}
}

func TestCreateRejectsInvalidTrip(t *testing.T) {
	service, _ := newTestService(t, &stubVehicleRepo{}, &stubPriceRepo{})

	trip := sampleTrip()
	trip.DateEnd = trip.DateStart
	if _, err := service.Create(context.Background(), trip); !errors.Is(err, trips.ErrEndNotAfterStart) {
		t.Fatalf("err = %v, want ErrEndNotAfterStart", err)
	}

	trip = sampleTrip()
	trip.DistanceKm = -1
	if _, err := service.Create(context.Background(), trip); !errors.Is(err, trips.ErrNegativeDistance) {
		t.Fatalf("err = %v, want ErrNegativeDistance", err)
	}
}

func TestUpdateRejectsSettledTrip(t *testing.T) {
	service, repo := newTestService(t, &stubVehicleRepo{}, &stubPriceRepo{})

	trip := sampleTrip()
	trip.ID = "trip-1"
	trip.IsSettled = true
	trip.SettlementID = "stl-1"
	if err := repo.Save(context.Background(), &trip); err != nil {
		t.Fatalf("seed: %v", err)
	}

	trip.Purpose = "edited"
	if _, err := service.Update(context.Background(), trip); !errors.Is(err, trips.ErrTripSettled) {
		t.Fatalf("update err = %v, want ErrTripSettled", err)
	}
	if err := service.Delete(context.Background(), "trip-1"); !errors.Is(err, trips.ErrTripSettled) {
		t.Fatalf("delete err = %v, want ErrTripSettled", err)
	}
}

func TestCostsReferenceScenario(t *testing.T) {
	vehicles := &stubVehicleRepo{vehicles: map[string]*masterdata.Vehicle{
		"veh-1": {
			ID:          "veh-1",
			Name:        "Octavia",
			Plate:       "BA-111XX",
			Consumption: 6.5,
			FuelType:    pricing.FuelDiesel,
			Ownership:   masterdata.OwnershipPrivate,
		},
	}}
	prices := &stubPriceRepo{records: []pricing.Record{{
		ID:          "fp-1",
		ValidFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:     time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		PriceDiesel: 1.45,
	}}}
	service, repo := newTestService(t, vehicles, prices)

	trip := sampleTrip()
	trip.ID = "trip-1"
	if err := repo.Save(context.Background(), &trip); err != nil {
		t.Fatalf("seed: %v", err)
	}

	report, err := service.Costs(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("Costs: %v", err)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("warnings = %v", report.Warnings)
	}
	if got := report.Calculation.TotalCost; !almostEqual(got, 49.35) {
		t.Fatalf("total = %v, want 49.35", got)
	}
}

func TestCostsMissingVehicleDegradesWithWarning(t *testing.T) {
	service, repo := newTestService(t, &stubVehicleRepo{}, &stubPriceRepo{})

	trip := sampleTrip()
	trip.ID = "trip-1"
	if err := repo.Save(context.Background(), &trip); err != nil {
		t.Fatalf("seed: %v", err)
	}

	report, err := service.Costs(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("Costs: %v", err)
	}
	if len(report.Warnings) != 1 || report.Warnings[0] != trips.WarningMissingVehicle {
		t.Fatalf("warnings = %v", report.Warnings)
	}
	if report.Calculation.FuelCost != 0 || report.Calculation.AmortizationCost != 0 {
		t.Fatalf("vehicle costs not degraded: %+v", report.Calculation)
	}
	if !almostEqual(report.Calculation.MealAllowance, 7.80) {
		t.Fatalf("meal allowance = %v", report.Calculation.MealAllowance)
	}
}

func TestCostsUnknownTrip(t *testing.T) {
	service, _ := newTestService(t, &stubVehicleRepo{}, &stubPriceRepo{})
	if _, err := service.Costs(context.Background(), "trip-missing"); !errors.Is(err, trips.ErrTripNotFound) {
		t.Fatalf("err = %v, want ErrTripNotFound", err)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
