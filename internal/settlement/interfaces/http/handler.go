package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travelorder-cloud/internal/audit"
	"travelorder-cloud/internal/observability/metrics"
	settlementapp "travelorder-cloud/internal/settlement/application"
	settlement "travelorder-cloud/internal/settlement/domain"
	"travelorder-cloud/internal/settlement/interfaces"
	trips "travelorder-cloud/internal/trips/domain"
)

// Handler provides settlement HTTP endpoints under /api/v1/settlements.
type Handler struct {
	service     *settlementapp.Service
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *settlementapp.Service, auditLogger audit.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("settlement handler: nil service")
	}
	return &Handler{service: service, auditLogger: auditLogger}, nil
}

type settlementPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	TripIDs     []string  `json:"trip_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

func fromDomain(batch settlement.Settlement) settlementPayload {
	return settlementPayload{
		ID:          batch.ID,
		Name:        batch.Name,
		Status:      batch.Status,
		TotalAmount: batch.TotalAmount,
		TripIDs:     batch.TripIDs,
		CreatedAt:   batch.CreatedAt,
	}
}

// ServeHTTP routes settlement requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/settlements"), "/")

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
	case strings.HasSuffix(rest, "/approve"):
		h.handleStatus(w, r, strings.TrimSuffix(rest, "/approve"), true)
	case strings.HasSuffix(rest, "/reopen"):
		h.handleStatus(w, r, strings.TrimSuffix(rest, "/reopen"), false)
	case strings.HasSuffix(rest, "/export.xlsx"):
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleExport(w, r, strings.TrimSuffix(rest, "/export.xlsx"))
	case !strings.Contains(rest, "/"):
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, rest)
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
	list, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, "list settlements error", http.StatusInternalServerError)
		return
	}
	payload := make([]settlementPayload, 0, len(list))
	for _, batch := range list {
		payload = append(payload, fromDomain(batch))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string   `json:"name"`
		TripIDs []string `json:"trip_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	started := time.Now()
	batch, err := h.service.Create(r.Context(), req.Name, req.TripIDs)
	if err != nil {
		metrics.ObserveSettlementCreate(metrics.ResultError, time.Since(started))
		respondServiceError(w, err)
		return
	}
	metrics.ObserveSettlementCreate(metrics.ResultSuccess, time.Since(started))

	respondJSON(w, http.StatusCreated, fromDomain(*batch))
	h.logAudit(r, "settlement.create", batch.ID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	report, err := h.service.Report(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type breakdownPayload struct {
		TripID    string  `json:"trip_id"`
		TotalCost float64 `json:"total_cost"`
	}
	breakdowns := make([]breakdownPayload, 0, len(report.Breakdowns))
	for _, breakdown := range report.Breakdowns {
		breakdowns = append(breakdowns, breakdownPayload{
			TripID:    breakdown.TripID,
			TotalCost: breakdown.Calculation.TotalCost,
		})
	}
	respondJSON(w, http.StatusOK, struct {
		settlementPayload
		Breakdowns []breakdownPayload `json:"breakdowns"`
	}{fromDomain(report.Settlement), breakdowns})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, "settlement.delete", id)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request, id string, approve bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var (
		batch *settlement.Settlement
		err   error
	)
	if approve {
		batch, err = h.service.Approve(r.Context(), id)
	} else {
		batch, err = h.service.Reopen(r.Context(), id)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fromDomain(*batch))

	action := "settlement.reopen"
	if approve {
		action = "settlement.approve"
	}
	h.logAudit(r, action, id)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	started := time.Now()
	report, err := h.service.Report(r.Context(), id)
	if err != nil {
		metrics.ObserveSettlementExport("xlsx", metrics.ResultError, time.Since(started))
		respondServiceError(w, err)
		return
	}

	data, err := interfaces.BuildSettlementXLSX(report)
	if err != nil {
		metrics.ObserveSettlementExport("xlsx", metrics.ResultError, time.Since(started))
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveSettlementExport("xlsx", metrics.ResultSuccess, time.Since(started))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="settlement-%s.xlsx"`, id))
	_, _ = w.Write(data)
	h.logAudit(r, "settlement.export", id)
}

func (h *Handler) logAudit(r *http.Request, action, settlementID string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Action:       action,
		ResourceType: "settlement",
		ResourceID:   settlementID,
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
	case errors.Is(err, settlement.ErrNotFound), errors.Is(err, trips.ErrTripNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, settlement.ErrTripAlreadySettled), errors.Is(err, settlement.ErrApproved):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, settlement.ErrEmptyName), errors.Is(err, settlement.ErrNoTrips):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
