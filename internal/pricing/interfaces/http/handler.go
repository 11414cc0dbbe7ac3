package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelorder-cloud/internal/audit"
	"travelorder-cloud/internal/observability/metrics"
	pricingapp "travelorder-cloud/internal/pricing/application"
	pricing "travelorder-cloud/internal/pricing/domain"
)

// Handler provides fuel price HTTP endpoints under /api/v1/fuel-prices.
type Handler struct {
	repo          pricing.Repository
	importService *pricingapp.ImportService
	weeksBack     int
	auditLogger   audit.Logger
}

// NewHandler constructs a handler. The import service may be nil when the
// statistical office import is disabled.
func NewHandler(repo pricing.Repository, importService *pricingapp.ImportService, weeksBack int, auditLogger audit.Logger) (*Handler, error) {
	if repo == nil {
		return nil, errors.New("pricing handler: nil repository")
	}
	if weeksBack <= 0 {
		weeksBack = 8
	}
	return &Handler{repo: repo, importService: importService, weeksBack: weeksBack, auditLogger: auditLogger}, nil
}

type recordPayload struct {
	ID            string    `json:"id,omitempty"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	PriceDiesel   float64   `json:"price_diesel"`
	PriceBenzin   float64   `json:"price_benzin"`
	PriceLpg      float64   `json:"price_lpg"`
	PriceElectric float64   `json:"price_electric"`
	Note          string    `json:"note,omitempty"`
}

func (p recordPayload) toDomain() pricing.Record {
	return pricing.Record{
		ID:            p.ID,
		ValidFrom:     p.ValidFrom,
		ValidTo:       p.ValidTo,
		PriceDiesel:   p.PriceDiesel,
		PriceBenzin:   p.PriceBenzin,
		PriceLpg:      p.PriceLpg,
		PriceElectric: p.PriceElectric,
		Note:          p.Note,
	}
}

func fromDomain(record pricing.Record) recordPayload {
	return recordPayload{
		ID:            record.ID,
		ValidFrom:     record.ValidFrom,
		ValidTo:       record.ValidTo,
		PriceDiesel:   record.PriceDiesel,
		PriceBenzin:   record.PriceBenzin,
		PriceLpg:      record.PriceLpg,
		PriceElectric: record.PriceElectric,
		Note:          record.Note,
	}
}

// ServeHTTP routes fuel price requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/fuel-prices"), "/")

	switch {
	case rest == "":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleSave(w, r, "")
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case rest == "import":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleImport(w, r)
	case !strings.Contains(rest, "/"):
		switch r.Method {
		case http.MethodGet:
			h.handleGet(w, r, rest)
		case http.MethodPut:
			h.handleSave(w, r, rest)
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
	records, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, "list fuel prices error", http.StatusInternalServerError)
		return
	}
	payload := make([]recordPayload, 0, len(records))
	for _, record := range records {
		payload = append(payload, fromDomain(record))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	record, err := h.repo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "get fuel price error", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, fromDomain(*record))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request, id string) {
	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	record := payload.toDomain()
	if id != "" {
		record.ID = id
	}
	created := record.ID == ""
	if created {
		record.ID = "fp-" + uuid.NewString()
	}

	if err := h.repo.Save(r.Context(), &record); err != nil {
		switch {
		case errors.Is(err, pricing.ErrMissingPeriodBound), errors.Is(err, pricing.ErrPeriodInverted):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "save fuel price error", http.StatusInternalServerError)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, fromDomain(record))
	h.logAudit(r, "fuel_price.save", record.ID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pricing.ErrRecordNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "delete fuel price error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, "fuel_price.delete", id)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if h.importService == nil {
		http.Error(w, "import disabled", http.StatusServiceUnavailable)
		return
	}

	started := time.Now()
	result, err := h.importService.ImportLatest(r.Context(), time.Now().UTC(), h.weeksBack)
	if err != nil {
		metrics.ObservePriceImport(metrics.ResultError, time.Since(started))
		http.Error(w, "import error", http.StatusBadGateway)
		return
	}
	metrics.ObservePriceImport(metrics.ResultSuccess, time.Since(started))
	metrics.AddPriceImportRecords(metrics.ImportOutcomeCreated, result.Created)
	metrics.AddPriceImportRecords(metrics.ImportOutcomeUpdated, result.Updated)
	metrics.AddPriceImportRecords(metrics.ImportOutcomeSkipped, result.Skipped)

	respondJSON(w, http.StatusOK, map[string]int{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
	})
	h.logAudit(r, "fuel_price.import", "")
}

func (h *Handler) logAudit(r *http.Request, action, resourceID string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Action:       action,
		ResourceType: "fuel_price",
		ResourceID:   resourceID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
