package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"travelorder-cloud/internal/audit"
	"travelorder-cloud/internal/observability/metrics"
	tripsapp "travelorder-cloud/internal/trips/application"
	trips "travelorder-cloud/internal/trips/domain"
)

// Handler provides trip HTTP endpoints under /api/v1/trips.
type Handler struct {
	service     *tripsapp.TripService
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *tripsapp.TripService, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("trips handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger}, nil
}

// ServeHTTP routes trip requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/trips"), "/")

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case rest == "quote":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleQuote(w, r)
	case strings.HasSuffix(rest, "/costs"):
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleCosts(w, r, strings.TrimSuffix(rest, "/costs"))
	case !strings.Contains(rest, "/"):
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, rest)
		case http.MethodPut:
			h.handleUpdate(w, r, rest)
		case http.MethodDelete:
			h.handleDelete(w, r, rest)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		list []trips.Trip
		err  error
	)
	if r.URL.Query().Get("unsettled") == "true" {
		list, err = h.service.ListUnsettled(r.Context())
	} else {
		list, err = h.service.List(r.Context())
	}
	if err != nil {
		http.Error(w, "list trips error", http.StatusInternalServerError)
		return
	}

	payload := make([]tripPayload, 0, len(list))
	for _, trip := range list {
		payload = append(payload, fromDomain(trip))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload tripPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.service.Create(r.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, fromDomain(*created))
	h.logAudit(r, "trip.create", created.ID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	trip, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fromDomain(*trip))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var payload tripPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	payload.ID = id

	updated, err := h.service.Update(r.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fromDomain(*updated))
	h.logAudit(r, "trip.update", id)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, "trip.delete", id)
}

func (h *Handler) handleCosts(w http.ResponseWriter, r *http.Request, id string) {
	started := time.Now()
	report, err := h.service.Costs(r.Context(), id)
	if err != nil {
		metrics.ObserveTripCost(metrics.ResultError, time.Since(started))
		respondServiceError(w, err)
		return
	}
	metrics.ObserveTripCost(metrics.ResultSuccess, time.Since(started))
	respondJSON(w, http.StatusOK, fromReport(report))
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var payload tripPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	report, err := h.service.Quote(r.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fromReport(report))
}

func (h *Handler) logAudit(r *http.Request, action, tripID string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Action:       action,
		ResourceType: "trip",
		ResourceID:   tripID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trips.ErrTripNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, trips.ErrTripSettled):
		http.Error(w, "trip belongs to a settlement", http.StatusConflict)
	case errors.Is(err, trips.ErrEmptyVehicleID),
		errors.Is(err, trips.ErrEmptyEmployeeID),
		errors.Is(err, trips.ErrMissingDates),
		errors.Is(err, trips.ErrEndNotAfterStart),
		errors.Is(err, trips.ErrNegativeDistance),
		errors.Is(err, trips.ErrUnknownExpenseCategory):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
