package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	tripsapp "travelorder-cloud/internal/trips/application"
	trips "travelorder-cloud/internal/trips/domain"
	"travelorder-cloud/internal/trips/infrastructure/memory"
)

type stubVehicleRepo struct {
	vehicles map[string]*masterdata.Vehicle
}

func (r *stubVehicleRepo) Get(ctx context.Context, id string) (*masterdata.Vehicle, error) {
	return r.vehicles[id], nil
}

func (r *stubVehicleRepo) List(ctx context.Context) ([]masterdata.Vehicle, error) { return nil, nil }

func (r *stubVehicleRepo) Save(ctx context.Context, vehicle *masterdata.Vehicle) error { return nil }

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

func newTestHandler(t *testing.T) (*Handler, *memory.TripRepository) {
	t.Helper()

	repo := memory.NewTripRepository()
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
	settings := &stubSettingsRepo{settings: trips.Settings{
		MealRateLow:      7.80,
		MealRateMid:      11.60,
		MealRateHigh:     17.40,
		AmortizationRate: 0.252,
	}}
	prices := &stubPriceRepo{records: []pricing.Record{{
		ID:          "fp-1",
		ValidFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:     time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		PriceDiesel: 1.45,
	}}}

	service, err := tripsapp.NewTripService(repo, vehicles, settings, prices, tripsapp.SystemClock{}, nil)
	if err != nil {
		t.Fatalf("NewTripService: %v", err)
	}
	handler, err := NewHandler(service, nil)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return handler, repo
}

func testTripBody() []byte {
	body, _ := json.Marshal(tripPayload{
		VehicleID:   "veh-1",
		EmployeeID:  "emp-1",
		DateStart:   time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC),
		DateEnd:     time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC),
		Origin:      "Bratislava",
		Destination: "Trnava",
		DistanceKm:  120,
	})
	return body
}

func TestHandlerCreateAndGetCosts(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips", bytes.NewReader(testTripBody()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created tripPayload
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("no id in create response")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+created.ID+"/costs", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("costs status = %d, body %s", resp.Code, resp.Body.String())
	}

	var report costReportPayload
	if err := json.Unmarshal(resp.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode costs response: %v", err)
	}
	if diff := report.TotalCost - 49.35; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("total = %v, want 49.35", report.TotalCost)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("warnings = %v", report.Warnings)
	}
}

func TestHandlerQuoteDoesNotStore(t *testing.T) {
	handler, repo := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/quote", bytes.NewReader(testTripBody()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("quote status = %d, body %s", resp.Code, resp.Body.String())
	}

	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("quote stored %d trips", len(stored))
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	var payload tripPayload
	_ = json.Unmarshal(testTripBody(), &payload)
	payload.DateEnd = payload.DateStart
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestHandlerSettledTripConflict(t *testing.T) {
	handler, repo := newTestHandler(t)

	trip := trips.Trip{
		ID:           "trip-1",
		VehicleID:    "veh-1",
		EmployeeID:   "emp-1",
		DateStart:    time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC),
		DateEnd:      time.Date(2024, 1, 3, 16, 0, 0, 0, time.UTC),
		DistanceKm:   120,
		IsSettled:    true,
		SettlementID: "stl-1",
	}
	if err := repo.Save(context.Background(), &trip); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/trips/trip-1", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.Code)
	}
}

func TestHandlerUnknownTrip(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-missing", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}
