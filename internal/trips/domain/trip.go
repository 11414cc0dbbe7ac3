package trips

import (
	"context"
	"time"
)

// Expense categories.
const (
	ExpenseParking       = "parking"
	ExpenseAccommodation = "accommodation"
	ExpenseToll          = "toll"
	ExpenseOther         = "other"
)

// Waypoint is an intermediate stop on a trip route.
type Waypoint struct {
	Location string
	Country  string
}

// Expense is an ancillary cost attached to a trip.
// Amounts should be non-negative; the calculator sums whatever is given.
type Expense struct {
	ID       string
	Category string
	Amount   float64
	Note     string
}

// Trip is a single business trip taken by an employee with a vehicle.
type Trip struct {
	ID         string
	VehicleID  string
	EmployeeID string
	ProjectID  string

	DateStart time.Time
	DateEnd   time.Time

	Origin             string
	OriginCountry      string
	Waypoints          []Waypoint
	Destination        string
	DestinationCountry string

	OdometerStart *float64
	OdometerEnd   *float64
	DistanceKm    float64

	Purpose string
	Notes   string

	Expenses []Expense

	IsSettled    bool
	SettlementID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the invariants the cost calculator deliberately does not:
// temporal ordering and a non-negative distance. It runs at the service
// boundary before a trip is stored, never inside Calculate.
func (t Trip) Validate() error {
	if t.VehicleID == "" {
		return ErrEmptyVehicleID
	}
	if t.EmployeeID == "" {
		return ErrEmptyEmployeeID
	}
	if t.DateStart.IsZero() || t.DateEnd.IsZero() {
		return ErrMissingDates
	}
	if !t.DateEnd.After(t.DateStart) {
		return ErrEndNotAfterStart
	}
	if t.DistanceKm < 0 {
		return ErrNegativeDistance
	}
	for _, expense := range t.Expenses {
		switch expense.Category {
		case ExpenseParking, ExpenseAccommodation, ExpenseToll, ExpenseOther:
		default:
			return ErrUnknownExpenseCategory
		}
	}
	return nil
}

// Repository manages trip persistence.
// List and ListUnsettled return trips ordered by start date, newest first.
type Repository interface {
	Get(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context) ([]Trip, error)
	ListUnsettled(ctx context.Context) ([]Trip, error)
	Save(ctx context.Context, trip *Trip) error
	Delete(ctx context.Context, id string) error
}
