package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	trips "travelorder-cloud/internal/trips/domain"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the wall clock.
type SystemClock struct{}

// Now returns current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// CostReport pairs a cost breakdown with the degraded-input warnings that
// apply to it.
type CostReport struct {
	Calculation trips.Calculation
	Warnings    []string
}

// TripService coordinates trip lifecycle and costing.
type TripService struct {
	trips    trips.Repository
	vehicles masterdata.VehicleRepository
	settings trips.SettingsRepository
	prices   pricing.Repository
	clock    Clock
	logger   *log.Logger
}

// NewTripService constructs a TripService.
func NewTripService(
	tripRepo trips.Repository,
	vehicles masterdata.VehicleRepository,
	settings trips.SettingsRepository,
	prices pricing.Repository,
	clock Clock,
	logger *log.Logger,
) (*TripService, error) {
	if tripRepo == nil {
		return nil, errors.New("trip service: nil trip repository")
	}
	if vehicles == nil {
		return nil, errors.New("trip service: nil vehicle repository")
	}
	if settings == nil {
		return nil, errors.New("trip service: nil settings repository")
	}
	if prices == nil {
		return nil, errors.New("trip service: nil price repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &TripService{
		trips:    tripRepo,
		vehicles: vehicles,
		settings: settings,
		prices:   prices,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Create validates and stores a new trip.
func (s *TripService) Create(ctx context.Context, trip trips.Trip) (*trips.Trip, error) {
	if trip.ID == "" {
		trip.ID = "trip-" + uuid.NewString()
	}
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	trip.IsSettled = false
	trip.SettlementID = ""
	now := s.clock.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	if err := s.trips.Save(ctx, &trip); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Printf("trip created: id=%s vehicle=%s distance=%.1fkm", trip.ID, trip.VehicleID, trip.DistanceKm)
	}
	return &trip, nil
}

// Update validates and stores changes to an existing trip. Trips claimed by
// a settlement are frozen.
func (s *TripService) Update(ctx context.Context, trip trips.Trip) (*trips.Trip, error) {
	current, err := s.trips.Get(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, trips.ErrTripNotFound
	}
	if current.IsSettled {
		return nil, trips.ErrTripSettled
	}
	if err := trip.Validate(); err != nil {
		return nil, err
	}

	trip.IsSettled = current.IsSettled
	trip.SettlementID = current.SettlementID
	trip.CreatedAt = current.CreatedAt
	trip.UpdatedAt = s.clock.Now()

	if err := s.trips.Save(ctx, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// Delete removes a trip. Trips claimed by a settlement are frozen.
func (s *TripService) Delete(ctx context.Context, id string) error {
	current, err := s.trips.Get(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return trips.ErrTripNotFound
	}
	if current.IsSettled {
		return trips.ErrTripSettled
	}
	return s.trips.Delete(ctx, id)
}

// Get loads a trip.
func (s *TripService) Get(ctx context.Context, id string) (*trips.Trip, error) {
	trip, err := s.trips.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, trips.ErrTripNotFound
	}
	return trip, nil
}

// List returns all trips, newest first.
func (s *TripService) List(ctx context.Context) ([]trips.Trip, error) {
	return s.trips.List(ctx)
}

// ListUnsettled returns trips available for settlement.
func (s *TripService) ListUnsettled(ctx context.Context) ([]trips.Trip, error) {
	return s.trips.ListUnsettled(ctx)
}

// Costs computes the reimbursement breakdown for a stored trip. A missing
// vehicle or price period is reported as a warning, never an error.
func (s *TripService) Costs(ctx context.Context, id string) (*CostReport, error) {
	trip, err := s.trips.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, trips.ErrTripNotFound
	}
	return s.report(ctx, *trip)
}

// Quote computes the breakdown for a trip that has not been stored, so the
// UI can preview costs while the trip is edited.
func (s *TripService) Quote(ctx context.Context, trip trips.Trip) (*CostReport, error) {
	return s.report(ctx, trip)
}

func (s *TripService) report(ctx context.Context, trip trips.Trip) (*CostReport, error) {
	vehicle, err := s.vehicles.Get(ctx, trip.VehicleID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.prices.List(ctx)
	if err != nil {
		return nil, err
	}

	return &CostReport{
		Calculation: trips.Calculate(trip, vehicle, settings, records),
		Warnings:    trips.Warnings(trip, vehicle, records),
	}, nil
}
