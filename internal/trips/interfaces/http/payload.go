package http

import (
	"time"

	tripsapp "travelorder-cloud/internal/trips/application"
	trips "travelorder-cloud/internal/trips/domain"
)

type waypointPayload struct {
	Location string `json:"location"`
	Country  string `json:"country,omitempty"`
}

type expensePayload struct {
	ID       string  `json:"id,omitempty"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Note     string  `json:"note,omitempty"`
}

type tripPayload struct {
	ID                 string            `json:"id,omitempty"`
	VehicleID          string            `json:"vehicle_id"`
	EmployeeID         string            `json:"employee_id"`
	ProjectID          string            `json:"project_id,omitempty"`
	DateStart          time.Time         `json:"date_start"`
	DateEnd            time.Time         `json:"date_end"`
	Origin             string            `json:"origin"`
	OriginCountry      string            `json:"origin_country,omitempty"`
	Waypoints          []waypointPayload `json:"waypoints,omitempty"`
	Destination        string            `json:"destination"`
	DestinationCountry string            `json:"destination_country,omitempty"`
	OdometerStart      *float64          `json:"odometer_start,omitempty"`
	OdometerEnd        *float64          `json:"odometer_end,omitempty"`
	DistanceKm         float64           `json:"distance_km"`
	Purpose            string            `json:"purpose,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Expenses           []expensePayload  `json:"expenses,omitempty"`
	IsSettled          bool              `json:"is_settled"`
	SettlementID       string            `json:"settlement_id,omitempty"`
	CreatedAt          time.Time         `json:"created_at,omitempty"`
	UpdatedAt          time.Time         `json:"updated_at,omitempty"`
}

func (p tripPayload) toDomain() trips.Trip {
	trip := trips.Trip{
		ID:                 p.ID,
		VehicleID:          p.VehicleID,
		EmployeeID:         p.EmployeeID,
		ProjectID:          p.ProjectID,
		DateStart:          p.DateStart,
		DateEnd:            p.DateEnd,
		Origin:             p.Origin,
		OriginCountry:      p.OriginCountry,
		Destination:        p.Destination,
		DestinationCountry: p.DestinationCountry,
		OdometerStart:      p.OdometerStart,
		OdometerEnd:        p.OdometerEnd,
		DistanceKm:         p.DistanceKm,
		Purpose:            p.Purpose,
		Notes:              p.Notes,
	}
	for _, waypoint := range p.Waypoints {
		trip.Waypoints = append(trip.Waypoints, trips.Waypoint{
			Location: waypoint.Location,
			Country:  waypoint.Country,
		})
	}
	for _, expense := range p.Expenses {
		trip.Expenses = append(trip.Expenses, trips.Expense{
			ID:       expense.ID,
			Category: expense.Category,
			Amount:   expense.Amount,
			Note:     expense.Note,
		})
	}
	return trip
}

func fromDomain(trip trips.Trip) tripPayload {
	payload := tripPayload{
		ID:                 trip.ID,
		VehicleID:          trip.VehicleID,
		EmployeeID:         trip.EmployeeID,
		ProjectID:          trip.ProjectID,
		DateStart:          trip.DateStart,
		DateEnd:            trip.DateEnd,
		Origin:             trip.Origin,
		OriginCountry:      trip.OriginCountry,
		Destination:        trip.Destination,
		DestinationCountry: trip.DestinationCountry,
		OdometerStart:      trip.OdometerStart,
		OdometerEnd:        trip.OdometerEnd,
		DistanceKm:         trip.DistanceKm,
		Purpose:            trip.Purpose,
		Notes:              trip.Notes,
		IsSettled:          trip.IsSettled,
		SettlementID:       trip.SettlementID,
		CreatedAt:          trip.CreatedAt,
		UpdatedAt:          trip.UpdatedAt,
	}
	for _, waypoint := range trip.Waypoints {
		payload.Waypoints = append(payload.Waypoints, waypointPayload{
			Location: waypoint.Location,
			Country:  waypoint.Country,
		})
	}
	for _, expense := range trip.Expenses {
		payload.Expenses = append(payload.Expenses, expensePayload{
			ID:       expense.ID,
			Category: expense.Category,
			Amount:   expense.Amount,
			Note:     expense.Note,
		})
	}
	return payload
}

type costReportPayload struct {
	DurationHours     float64  `json:"duration_hours"`
	MealAllowance     float64  `json:"meal_allowance"`
	FuelCost          float64  `json:"fuel_cost"`
	AmortizationCost  float64  `json:"amortization_cost"`
	OtherExpensesCost float64  `json:"other_expenses_cost"`
	TotalCost         float64  `json:"total_cost"`
	Warnings          []string `json:"warnings,omitempty"`
}

func fromReport(report *tripsapp.CostReport) costReportPayload {
	calc := report.Calculation
	return costReportPayload{
		DurationHours:     calc.DurationHours,
		MealAllowance:     calc.MealAllowance,
		FuelCost:          calc.FuelCost,
		AmortizationCost:  calc.AmortizationCost,
		OtherExpensesCost: calc.OtherExpensesCost,
		TotalCost:         calc.TotalCost,
		Warnings:          report.Warnings,
	}
}
