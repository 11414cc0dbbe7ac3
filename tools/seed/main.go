// Command seed loads a small demo dataset: two vehicles, an employee, a
// project, one fuel price week and a pair of trips ready to settle.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	masterdata "travelorder-cloud/internal/masterdata/domain"
	masterdatarepo "travelorder-cloud/internal/masterdata/infrastructure/postgres"
	pricing "travelorder-cloud/internal/pricing/domain"
	pricingrepo "travelorder-cloud/internal/pricing/infrastructure/postgres"
	trips "travelorder-cloud/internal/trips/domain"
	tripsrepo "travelorder-cloud/internal/trips/infrastructure/postgres"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	dbURL := flag.String("db", os.Getenv("DATABASE_URL"), "postgres connection string")
	flag.Parse()

	if *dbURL == "" {
		logger.Fatal("seed: -db or DATABASE_URL required")
	}

	db, err := sql.Open("pgx", *dbURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	vehicles := masterdatarepo.NewVehicleRepository(db)
	employees := masterdatarepo.NewEmployeeRepository(db)
	projects := masterdatarepo.NewProjectRepository(db)
	prices := pricingrepo.NewRecordRepository(db)
	tripRepo := tripsrepo.NewTripRepository(db)

	for _, vehicle := range []masterdata.Vehicle{
		{
			ID:          "veh-demo-octavia",
			Name:        "Skoda Octavia",
			Plate:       "BA-111XX",
			Consumption: 6.5,
			FuelType:    pricing.FuelDiesel,
			Ownership:   masterdata.OwnershipPrivate,
			IsActive:    true,
		},
		{
			ID:          "veh-demo-kona",
			Name:        "Hyundai Kona",
			Plate:       "BA-222YY",
			Consumption: 15.0,
			FuelType:    pricing.FuelElectric,
			Ownership:   masterdata.OwnershipCompany,
			IsActive:    true,
		},
	} {
		if err := vehicles.Save(ctx, &vehicle); err != nil {
			logger.Fatalf("seed vehicle: %v", err)
		}
	}

	employee := masterdata.Employee{
		ID:       "emp-demo",
		Name:     "Jana Novakova",
		Address:  "Hlavna 1, Bratislava",
		Role:     "consultant",
		IsActive: true,
	}
	if err := employees.Save(ctx, &employee); err != nil {
		logger.Fatalf("seed employee: %v", err)
	}

	project := masterdata.Project{
		ID:       "prj-demo",
		Code:     "ACME-2024",
		Name:     "ACME rollout",
		IsActive: true,
	}
	if err := projects.Save(ctx, &project); err != nil {
		logger.Fatalf("seed project: %v", err)
	}

	record := pricing.Record{
		ID:          "fp-demo",
		ValidFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:     time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		PriceDiesel: 1.45,
		PriceBenzin: 1.62,
		PriceLpg:    0.78,
		Note:        "seed week",
	}
	if err := prices.Save(ctx, &record); err != nil {
		logger.Fatalf("seed fuel price: %v", err)
	}

	for i, id := range []string{"trip-demo-1", "trip-demo-2"} {
		start := time.Date(2024, 1, 3+i, 8, 0, 0, 0, time.UTC)
		trip := trips.Trip{
			ID:          id,
			VehicleID:   "veh-demo-octavia",
			EmployeeID:  "emp-demo",
			ProjectID:   "prj-demo",
			DateStart:   start,
			DateEnd:     start.Add(8 * time.Hour),
			Origin:      "Bratislava",
			Destination: "Trnava",
			DistanceKm:  120,
			Purpose:     "client visit",
			Expenses: []trips.Expense{
				{ID: id + "-exp-1", Category: trips.ExpenseParking, Amount: 4.50},
			},
		}
		if err := tripRepo.Save(ctx, &trip); err != nil {
			logger.Fatalf("seed trip: %v", err)
		}
	}

	logger.Println("seed: done")
}
