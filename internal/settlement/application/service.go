package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	settlement "travelorder-cloud/internal/settlement/domain"
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

// Report is a settlement together with its per-trip cost breakdowns,
// recomputed from the current masterdata and price records.
type Report struct {
	Settlement settlement.Settlement
	Trips      []trips.Trip
	Breakdowns []settlement.TripBreakdown
}

// Service coordinates the settlement lifecycle: batching unsettled trips,
// approval, reopening and teardown.
type Service struct {
	store    settlement.Store
	trips    trips.Repository
	vehicles masterdata.VehicleRepository
	settings trips.SettingsRepository
	prices   pricing.Repository
	clock    Clock
	logger   *log.Logger
}

// NewService constructs a Service.
func NewService(
	store settlement.Store,
	tripRepo trips.Repository,
	vehicles masterdata.VehicleRepository,
	settings trips.SettingsRepository,
	prices pricing.Repository,
	clock Clock,
	logger *log.Logger,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("settlement service: nil store")
	}
	if tripRepo == nil {
		return nil, errors.New("settlement service: nil trip repository")
	}
	if vehicles == nil {
		return nil, errors.New("settlement service: nil vehicle repository")
	}
	if settings == nil {
		return nil, errors.New("settlement service: nil settings repository")
	}
	if prices == nil {
		return nil, errors.New("settlement service: nil price repository")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		store:    store,
		trips:    tripRepo,
		vehicles: vehicles,
		settings: settings,
		prices:   prices,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Create batches the given trips into a new draft settlement. Every trip
// must exist and be unsettled; the cached total is the aggregation of the
// per-trip cost breakdowns at creation time.
func (s *Service) Create(ctx context.Context, name string, tripIDs []string) (*settlement.Settlement, error) {
	batch := settlement.Settlement{
		ID:        "stl-" + uuid.NewString(),
		Name:      name,
		Status:    settlement.StatusDraft,
		TripIDs:   tripIDs,
		CreatedAt: s.clock.Now(),
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	tripList := make([]trips.Trip, 0, len(tripIDs))
	for _, id := range tripIDs {
		trip, err := s.trips.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if trip == nil {
			return nil, trips.ErrTripNotFound
		}
		if trip.IsSettled {
			return nil, settlement.ErrTripAlreadySettled
		}
		tripList = append(tripList, *trip)
	}

	total, err := s.aggregate(ctx, tripList)
	if err != nil {
		return nil, err
	}
	batch.TotalAmount = total.TotalAmount

	if err := s.store.CreateWithTrips(ctx, &batch); err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Printf("settlement created: id=%s trips=%d total=%.2f", batch.ID, len(batch.TripIDs), batch.TotalAmount)
	}
	return &batch, nil
}

// Delete tears down a draft settlement and releases its trips. Approved
// settlements must be reopened first.
func (s *Service) Delete(ctx context.Context, id string) error {
	batch, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if batch.Status == settlement.StatusApproved {
		return settlement.ErrApproved
	}
	return s.store.DeleteWithTrips(ctx, id)
}

// Approve closes a draft settlement.
func (s *Service) Approve(ctx context.Context, id string) (*settlement.Settlement, error) {
	return s.setStatus(ctx, id, settlement.StatusApproved)
}

// Reopen reverts an approved settlement to draft.
func (s *Service) Reopen(ctx context.Context, id string) (*settlement.Settlement, error) {
	return s.setStatus(ctx, id, settlement.StatusDraft)
}

func (s *Service) setStatus(ctx context.Context, id, status string) (*settlement.Settlement, error) {
	batch, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch.Status == status {
		return batch, nil
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	batch.Status = status
	return batch, nil
}

// Get loads a settlement.
func (s *Service) Get(ctx context.Context, id string) (*settlement.Settlement, error) {
	return s.get(ctx, id)
}

// List returns all settlements.
func (s *Service) List(ctx context.Context) ([]settlement.Settlement, error) {
	return s.store.List(ctx)
}

// Report loads a settlement with its trips and recomputed breakdowns, used
// for detail views and exports.
func (s *Service) Report(ctx context.Context, id string) (*Report, error) {
	batch, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	tripList := make([]trips.Trip, 0, len(batch.TripIDs))
	for _, tripID := range batch.TripIDs {
		trip, err := s.trips.Get(ctx, tripID)
		if err != nil {
			return nil, err
		}
		if trip == nil {
			continue
		}
		tripList = append(tripList, *trip)
	}

	total, err := s.aggregate(ctx, tripList)
	if err != nil {
		return nil, err
	}
	return &Report{
		Settlement: *batch,
		Trips:      tripList,
		Breakdowns: total.Breakdowns,
	}, nil
}

func (s *Service) get(ctx context.Context, id string) (*settlement.Settlement, error) {
	batch, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, settlement.ErrNotFound
	}
	return batch, nil
}

func (s *Service) aggregate(ctx context.Context, tripList []trips.Trip) (settlement.BatchTotal, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return settlement.BatchTotal{}, err
	}
	records, err := s.prices.List(ctx)
	if err != nil {
		return settlement.BatchTotal{}, err
	}

	vehicles := make(map[string]*masterdata.Vehicle)
	for _, trip := range tripList {
		if _, ok := vehicles[trip.VehicleID]; ok {
			continue
		}
		vehicle, err := s.vehicles.Get(ctx, trip.VehicleID)
		if err != nil {
			return settlement.BatchTotal{}, err
		}
		if vehicle != nil {
			vehicles[trip.VehicleID] = vehicle
		}
	}

	return settlement.AggregateTrips(tripList, vehicles, settings, records), nil
}
