package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"travelorder-cloud/internal/audit"
	trips "travelorder-cloud/internal/trips/domain"
)

// SettingsHandler serves the reimbursement rate settings.
type SettingsHandler struct {
	repo        trips.SettingsRepository
	auditLogger audit.Logger
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(repo trips.SettingsRepository, auditLogger audit.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, auditLogger: auditLogger}
}

type settingsPayload struct {
	MealRateLow      float64   `json:"meal_rate_low"`
	MealRateMid      float64   `json:"meal_rate_mid"`
	MealRateHigh     float64   `json:"meal_rate_high"`
	AmortizationRate float64   `json:"amortization_rate"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// ServeHTTP handles GET/PUT /api/v1/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.repo == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		settings, err := h.repo.Get(r.Context())
		if err != nil {
			http.Error(w, "load settings error", http.StatusInternalServerError)
			return
		}
		respond(w, settings)
	case http.MethodPut:
		var payload settingsPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		settings := trips.Settings{
			MealRateLow:      payload.MealRateLow,
			MealRateMid:      payload.MealRateMid,
			MealRateHigh:     payload.MealRateHigh,
			AmortizationRate: payload.AmortizationRate,
		}
		if err := h.repo.Save(r.Context(), settings); err != nil {
			if errors.Is(err, trips.ErrNegativeRate) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "save settings error", http.StatusInternalServerError)
			return
		}
		respond(w, settings)

		if h.auditLogger != nil {
			meta, _ := json.Marshal(payload)
			_ = h.auditLogger.Log(r.Context(), audit.Entry{
				Action:       "settings.update",
				ResourceType: "settings",
				Metadata:     meta,
				IP:           audit.ClientIP(r),
				UserAgent:    r.UserAgent(),
			})
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func respond(w http.ResponseWriter, settings trips.Settings) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settingsPayload{
		MealRateLow:      settings.MealRateLow,
		MealRateMid:      settings.MealRateMid,
		MealRateHigh:     settings.MealRateHigh,
		AmortizationRate: settings.AmortizationRate,
		UpdatedAt:        settings.UpdatedAt,
	})
}
