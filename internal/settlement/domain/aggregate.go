package settlement

import (
	"sort"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	trips "travelorder-cloud/internal/trips/domain"
)

// TripBreakdown pairs a trip with its computed cost breakdown.
type TripBreakdown struct {
	TripID      string
	Calculation trips.Calculation
}

// BatchTotal is the aggregation of per-trip breakdowns across a batch.
type BatchTotal struct {
	TotalAmount float64
	Breakdowns  []TripBreakdown
}

// AggregateTrips folds per-trip cost calculations into a batch total.
//
// Vehicles are resolved through the lookup map; an absent entry means "no
// vehicle" and the affected trip contributes zero fuel and amortization. The
// caller is responsible for having upheld the one-settlement-per-trip
// invariant before summing.
func AggregateTrips(tripList []trips.Trip, vehicles map[string]*masterdata.Vehicle, settings trips.Settings, records []pricing.Record) BatchTotal {
	total := BatchTotal{Breakdowns: make([]TripBreakdown, 0, len(tripList))}
	for _, trip := range tripList {
		calc := trips.Calculate(trip, vehicles[trip.VehicleID], settings, records)
		total.Breakdowns = append(total.Breakdowns, TripBreakdown{TripID: trip.ID, Calculation: calc})
		total.TotalAmount += calc.TotalCost
	}
	return total
}

// GroupTotal is one bucket of a grouped cost report.
type GroupTotal struct {
	Key       string
	TotalCost float64
	TripCount int
}

// GroupTotals folds trips by an arbitrary key and sums total cost per key,
// sorted descending by sum for top-N reporting. Ties are broken by key so
// the order is deterministic.
func GroupTotals(tripList []trips.Trip, vehicles map[string]*masterdata.Vehicle, settings trips.Settings, records []pricing.Record, keyFn func(trips.Trip) string) []GroupTotal {
	if keyFn == nil {
		return nil
	}

	sums := make(map[string]*GroupTotal)
	for _, trip := range tripList {
		key := keyFn(trip)
		group := sums[key]
		if group == nil {
			group = &GroupTotal{Key: key}
			sums[key] = group
		}
		group.TotalCost += trips.Calculate(trip, vehicles[trip.VehicleID], settings, records).TotalCost
		group.TripCount++
	}

	groups := make([]GroupTotal, 0, len(sums))
	for _, group := range sums {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalCost != groups[j].TotalCost {
			return groups[i].TotalCost > groups[j].TotalCost
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
