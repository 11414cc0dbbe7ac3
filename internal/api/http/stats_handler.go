package apihttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	pricing "travelorder-cloud/internal/pricing/domain"
	settlement "travelorder-cloud/internal/settlement/domain"
	trips "travelorder-cloud/internal/trips/domain"
)

const timeLayout = time.RFC3339

// StatsHandler serves grouped cost reports over stored trips.
type StatsHandler struct {
	trips    trips.Repository
	vehicles masterdata.VehicleRepository
	settings trips.SettingsRepository
	prices   pricing.Repository
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(
	tripRepo trips.Repository,
	vehicles masterdata.VehicleRepository,
	settings trips.SettingsRepository,
	prices pricing.Repository,
) *StatsHandler {
	return &StatsHandler{trips: tripRepo, vehicles: vehicles, settings: settings, prices: prices}
}

// ServeHTTP handles GET /api/v1/stats?group_by=project|vehicle|employee.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.trips == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	keyFn, err := resolveGroupKey(r.URL.Query().Get("group_by"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	from, to, err := parseTimeRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var tripList []trips.Trip
	if r.URL.Query().Get("unsettled") == "true" {
		tripList, err = h.trips.ListUnsettled(r.Context())
	} else {
		tripList, err = h.trips.List(r.Context())
	}
	if err != nil {
		http.Error(w, "list trips error", http.StatusInternalServerError)
		return
	}
	tripList = filterByStart(tripList, from, to)

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		http.Error(w, "load settings error", http.StatusInternalServerError)
		return
	}
	records, err := h.prices.List(r.Context())
	if err != nil {
		http.Error(w, "list fuel prices error", http.StatusInternalServerError)
		return
	}

	vehicles := make(map[string]*masterdata.Vehicle)
	for _, trip := range tripList {
		if _, ok := vehicles[trip.VehicleID]; ok {
			continue
		}
		vehicle, err := h.vehicles.Get(r.Context(), trip.VehicleID)
		if err != nil {
			http.Error(w, "load vehicle error", http.StatusInternalServerError)
			return
		}
		if vehicle != nil {
			vehicles[trip.VehicleID] = vehicle
		}
	}

	groups := settlement.GroupTotals(tripList, vehicles, settings, records, keyFn)

	type groupPayload struct {
		Key       string  `json:"key"`
		TotalCost float64 `json:"total_cost"`
		TripCount int     `json:"trip_count"`
	}
	payload := make([]groupPayload, 0, len(groups))
	for _, group := range groups {
		payload = append(payload, groupPayload(group))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveGroupKey(groupBy string) (func(trips.Trip) string, error) {
	switch groupBy {
	case "", "project":
		return func(t trips.Trip) string { return t.ProjectID }, nil
	case "vehicle":
		return func(t trips.Trip) string { return t.VehicleID }, nil
	case "employee":
		return func(t trips.Trip) string { return t.EmployeeID }, nil
	default:
		return nil, fmt.Errorf("group_by must be project, vehicle or employee")
	}
}

func parseTimeRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if value := r.URL.Query().Get("from"); value != "" {
		from, err = time.Parse(timeLayout, value)
		if err != nil {
			return from, to, fmt.Errorf("from must be RFC3339")
		}
	}
	if value := r.URL.Query().Get("to"); value != "" {
		to, err = time.Parse(timeLayout, value)
		if err != nil {
			return from, to, fmt.Errorf("to must be RFC3339")
		}
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return from, to, fmt.Errorf("to must be after from")
	}
	return from, to, nil
}

func filterByStart(tripList []trips.Trip, from, to time.Time) []trips.Trip {
	if from.IsZero() && to.IsZero() {
		return tripList
	}
	filtered := tripList[:0]
	for _, trip := range tripList {
		if !from.IsZero() && trip.DateStart.Before(from) {
			continue
		}
		if !to.IsZero() && trip.DateStart.After(to) {
			continue
		}
		filtered = append(filtered, trip)
	}
	return filtered
}
