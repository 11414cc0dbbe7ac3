package memory

import (
	"context"
	"sort"
	"sync"

	trips "travelorder-cloud/internal/trips/domain"
)

// TripRepository is an in-memory repository for trips.
type TripRepository struct {
	mu   sync.RWMutex
	data map[string]*trips.Trip
}

// NewTripRepository constructs a repository.
func NewTripRepository() *TripRepository {
	return &TripRepository{data: make(map[string]*trips.Trip)}
}

// Get loads a trip by id.
func (r *TripRepository) Get(ctx context.Context, id string) (*trips.Trip, error) {
	_ = ctx
	r.mu.RLock()
	trip := r.data[id]
	r.mu.RUnlock()
	if trip == nil {
		return nil, nil
	}
	return cloneTrip(trip), nil
}

// List returns all trips, newest start date first.
func (r *TripRepository) List(ctx context.Context) ([]trips.Trip, error) {
	return r.list(ctx, false)
}

// ListUnsettled returns trips not yet claimed by a settlement.
func (r *TripRepository) ListUnsettled(ctx context.Context) ([]trips.Trip, error) {
	return r.list(ctx, true)
}

func (r *TripRepository) list(ctx context.Context, unsettledOnly bool) ([]trips.Trip, error) {
	_ = ctx
	r.mu.RLock()
	var result []trips.Trip
	for _, trip := range r.data {
		if unsettledOnly && trip.IsSettled {
			continue
		}
		result = append(result, *cloneTrip(trip))
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].DateStart.After(result[j].DateStart)
	})
	return result, nil
}

// Save persists a trip (overwrites existing).
func (r *TripRepository) Save(ctx context.Context, trip *trips.Trip) error {
	_ = ctx
	if trip == nil {
		return trips.ErrNilTrip
	}
	copy := cloneTrip(trip)
	r.mu.Lock()
	r.data[trip.ID] = copy
	r.mu.Unlock()
	return nil
}

// Delete removes a trip.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return trips.ErrTripNotFound
	}
	delete(r.data, id)
	return nil
}

func cloneTrip(trip *trips.Trip) *trips.Trip {
	copy := *trip
	if trip.Waypoints != nil {
		copy.Waypoints = append([]trips.Waypoint(nil), trip.Waypoints...)
	}
	if trip.Expenses != nil {
		copy.Expenses = append([]trips.Expense(nil), trip.Expenses...)
	}
	if trip.OdometerStart != nil {
		value := *trip.OdometerStart
		copy.OdometerStart = &value
	}
	if trip.OdometerEnd != nil {
		value := *trip.OdometerEnd
		copy.OdometerEnd = &value
	}
	return &copy
}
