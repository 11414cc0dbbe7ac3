package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"travelorder-cloud/internal/audit"
	masterdata "travelorder-cloud/internal/masterdata/domain"
)

// Handler provides masterdata HTTP endpoints: vehicles, employees, projects
// and saved locations.
type Handler struct {
	vehicles    masterdata.VehicleRepository
	employees   masterdata.EmployeeRepository
	projects    masterdata.ProjectRepository
	locations   masterdata.LocationRepository
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(
	vehicles masterdata.VehicleRepository,
	employees masterdata.EmployeeRepository,
	projects masterdata.ProjectRepository,
	locations masterdata.LocationRepository,
	auditLogger audit.Logger,
) (*Handler, error) {
	if vehicles == nil || employees == nil || projects == nil || locations == nil {
		return nil, errors.New("masterdata handler: nil repository")
	}
	return &Handler{
		vehicles:    vehicles,
		employees:   employees,
		projects:    projects,
		locations:   locations,
		auditLogger: auditLogger,
	}, nil
}

// ServeHTTP routes masterdata requests by resource prefix.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	resource, id, _ := strings.Cut(path, "/")
	if strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch resource {
	case "vehicles":
		h.serveVehicles(w, r, id)
	case "employees":
		h.serveEmployees(w, r, id)
	case "projects":
		h.serveProjects(w, r, id)
	case "locations":
		h.serveLocations(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) serveVehicles(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		list, err := h.vehicles.List(r.Context())
		if err != nil {
			http.Error(w, "list vehicles error", http.StatusInternalServerError)
			return
		}
		payload := make([]vehiclePayload, 0, len(list))
		for _, vehicle := range list {
			payload = append(payload, fromVehicle(vehicle))
		}
		respondJSON(w, http.StatusOK, payload)
	case id == "" && r.Method == http.MethodPost, id != "" && r.Method == http.MethodPut:
		var payload vehiclePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		vehicle := payload.toDomain()
		if id != "" {
			vehicle.ID = id
		}
		created := vehicle.ID == ""
		if created {
			vehicle.ID = "veh-" + uuid.NewString()
		}
		if err := h.vehicles.Save(r.Context(), &vehicle); err != nil {
			respondSaveError(w, err)
			return
		}
		respondJSON(w, createdStatus(created), fromVehicle(vehicle))
		h.logAudit(r, "vehicle.save", vehicle.ID)
	case id != "" && r.Method == http.MethodGet:
		vehicle, err := h.vehicles.Get(r.Context(), id)
		if err != nil {
			http.Error(w, "get vehicle error", http.StatusInternalServerError)
			return
		}
		if vehicle == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, fromVehicle(*vehicle))
	case id != "" && r.Method == http.MethodDelete:
		h.respondDelete(w, r, "vehicle", id, h.vehicles.Delete(r.Context(), id))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveEmployees(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		list, err := h.employees.List(r.Context())
		if err != nil {
			http.Error(w, "list employees error", http.StatusInternalServerError)
			return
		}
		payload := make([]employeePayload, 0, len(list))
		for _, employee := range list {
			payload = append(payload, fromEmployee(employee))
		}
		respondJSON(w, http.StatusOK, payload)
	case id == "" && r.Method == http.MethodPost, id != "" && r.Method == http.MethodPut:
		var payload employeePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		employee := payload.toDomain()
		if id != "" {
			employee.ID = id
		}
		created := employee.ID == ""
		if created {
			employee.ID = "emp-" + uuid.NewString()
		}
		if err := h.employees.Save(r.Context(), &employee); err != nil {
			respondSaveError(w, err)
			return
		}
		respondJSON(w, createdStatus(created), fromEmployee(employee))
		h.logAudit(r, "employee.save", employee.ID)
	case id != "" && r.Method == http.MethodGet:
		employee, err := h.employees.Get(r.Context(), id)
		if err != nil {
			http.Error(w, "get employee error", http.StatusInternalServerError)
			return
		}
		if employee == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, fromEmployee(*employee))
	case id != "" && r.Method == http.MethodDelete:
		h.respondDelete(w, r, "employee", id, h.employees.Delete(r.Context(), id))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveProjects(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		list, err := h.projects.List(r.Context())
		if err != nil {
			http.Error(w, "list projects error", http.StatusInternalServerError)
			return
		}
		payload := make([]projectPayload, 0, len(list))
		for _, project := range list {
			payload = append(payload, fromProject(project))
		}
		respondJSON(w, http.StatusOK, payload)
	case id == "" && r.Method == http.MethodPost, id != "" && r.Method == http.MethodPut:
		var payload projectPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		project := payload.toDomain()
		if id != "" {
			project.ID = id
		}
		created := project.ID == ""
		if created {
			project.ID = "prj-" + uuid.NewString()
		}
		if err := h.projects.Save(r.Context(), &project); err != nil {
			respondSaveError(w, err)
			return
		}
		respondJSON(w, createdStatus(created), fromProject(project))
		h.logAudit(r, "project.save", project.ID)
	case id != "" && r.Method == http.MethodGet:
		project, err := h.projects.Get(r.Context(), id)
		if err != nil {
			http.Error(w, "get project error", http.StatusInternalServerError)
			return
		}
		if project == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, fromProject(*project))
	case id != "" && r.Method == http.MethodDelete:
		h.respondDelete(w, r, "project", id, h.projects.Delete(r.Context(), id))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) serveLocations(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		list, err := h.locations.List(r.Context())
		if err != nil {
			http.Error(w, "list locations error", http.StatusInternalServerError)
			return
		}
		payload := make([]locationPayload, 0, len(list))
		for _, location := range list {
			payload = append(payload, fromLocation(location))
		}
		respondJSON(w, http.StatusOK, payload)
	case id == "" && r.Method == http.MethodPost, id != "" && r.Method == http.MethodPut:
		var payload locationPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		location := payload.toDomain()
		if id != "" {
			location.ID = id
		}
		created := location.ID == ""
		if created {
			location.ID = "loc-" + uuid.NewString()
		}
		if err := h.locations.Save(r.Context(), &location); err != nil {
			respondSaveError(w, err)
			return
		}
		respondJSON(w, createdStatus(created), fromLocation(location))
		h.logAudit(r, "location.save", location.ID)
	case id != "" && r.Method == http.MethodGet:
		location, err := h.locations.Get(r.Context(), id)
		if err != nil {
			http.Error(w, "get location error", http.StatusInternalServerError)
			return
		}
		if location == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, fromLocation(*location))
	case id != "" && r.Method == http.MethodDelete:
		h.respondDelete(w, r, "location", id, h.locations.Delete(r.Context(), id))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) respondDelete(w http.ResponseWriter, r *http.Request, resourceType, id string, err error) {
	if err != nil {
		if errors.Is(err, masterdata.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "delete error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	h.logAudit(r, resourceType+".delete", id)
}

func (h *Handler) logAudit(r *http.Request, action, resourceID string) {
	if h.auditLogger == nil {
		return
	}
	resourceType, _, _ := strings.Cut(action, ".")
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, masterdata.ErrEmptyName),
		errors.Is(err, masterdata.ErrEmptyPlate),
		errors.Is(err, masterdata.ErrEmptyCode),
		errors.Is(err, masterdata.ErrNegativeConsumption),
		errors.Is(err, masterdata.ErrUnknownFuelType),
		errors.Is(err, masterdata.ErrUnknownOwnership):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "save error", http.StatusInternalServerError)
	}
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
