package http

import (
	"time"

	masterdata "travelorder-cloud/internal/masterdata/domain"
)

type vehiclePayload struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Plate       string    `json:"plate"`
	Consumption float64   `json:"consumption"`
	FuelType    string    `json:"fuel_type"`
	Ownership   string    `json:"ownership"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func (p vehiclePayload) toDomain() masterdata.Vehicle {
	return masterdata.Vehicle{
		ID:          p.ID,
		Name:        p.Name,
		Plate:       p.Plate,
		Consumption: p.Consumption,
		FuelType:    p.FuelType,
		Ownership:   p.Ownership,
		IsActive:    p.IsActive,
	}
}

func fromVehicle(vehicle masterdata.Vehicle) vehiclePayload {
	return vehiclePayload{
		ID:          vehicle.ID,
		Name:        vehicle.Name,
		Plate:       vehicle.Plate,
		Consumption: vehicle.Consumption,
		FuelType:    vehicle.FuelType,
		Ownership:   vehicle.Ownership,
		IsActive:    vehicle.IsActive,
		CreatedAt:   vehicle.CreatedAt,
		UpdatedAt:   vehicle.UpdatedAt,
	}
}

type employeePayload struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Role      string    `json:"role,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (p employeePayload) toDomain() masterdata.Employee {
	return masterdata.Employee{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		Role:     p.Role,
		IsActive: p.IsActive,
	}
}

func fromEmployee(employee masterdata.Employee) employeePayload {
	return employeePayload{
		ID:        employee.ID,
		Name:      employee.Name,
		Address:   employee.Address,
		Role:      employee.Role,
		IsActive:  employee.IsActive,
		CreatedAt: employee.CreatedAt,
		UpdatedAt: employee.UpdatedAt,
	}
}

type projectPayload struct {
	ID        string    `json:"id,omitempty"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (p projectPayload) toDomain() masterdata.Project {
	return masterdata.Project{
		ID:       p.ID,
		Code:     p.Code,
		Name:     p.Name,
		IsActive: p.IsActive,
	}
}

func fromProject(project masterdata.Project) projectPayload {
	return projectPayload{
		ID:        project.ID,
		Code:      project.Code,
		Name:      project.Name,
		IsActive:  project.IsActive,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

type locationPayload struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Street    string    `json:"street,omitempty"`
	City      string    `json:"city,omitempty"`
	Zip       string    `json:"zip,omitempty"`
	Country   string    `json:"country,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (p locationPayload) toDomain() masterdata.SavedLocation {
	return masterdata.SavedLocation{
		ID:      p.ID,
		Name:    p.Name,
		Street:  p.Street,
		City:    p.City,
		Zip:     p.Zip,
		Country: p.Country,
		Note:    p.Note,
	}
}

func fromLocation(location masterdata.SavedLocation) locationPayload {
	return locationPayload{
		ID:        location.ID,
		Name:      location.Name,
		Street:    location.Street,
		City:      location.City,
		Zip:       location.Zip,
		Country:   location.Country,
		Note:      location.Note,
		CreatedAt: location.CreatedAt,
		UpdatedAt: location.UpdatedAt,
	}
}
