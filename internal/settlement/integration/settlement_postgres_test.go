package integration_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	settlement "travelorder-cloud/internal/settlement/domain"
	settlementrepo "travelorder-cloud/internal/settlement/infrastructure/postgres"
	trips "travelorder-cloud/internal/trips/domain"
	tripsrepo "travelorder-cloud/internal/trips/infrastructure/postgres"
	"travelorder-cloud/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func TestSettlement_ClaimReleaseTripsPostgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		t.Fatalf("migration provider: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	ctx := context.Background()
	_, _ = db.ExecContext(ctx, "DELETE FROM settlement_trips")
	_, _ = db.ExecContext(ctx, "UPDATE trips SET is_settled = FALSE, settlement_id = NULL")
	_, _ = db.ExecContext(ctx, "DELETE FROM settlements")
	_, _ = db.ExecContext(ctx, "DELETE FROM trips WHERE id LIKE 'trip-it-%'")

	tripRepo := tripsrepo.NewTripRepository(db)
	store := settlementrepo.NewStore(db)

	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for _, id := range []string{"trip-it-1", "trip-it-2"} {
		trip := trips.Trip{
			ID:         id,
			VehicleID:  "veh-it",
			EmployeeID: "emp-it",
			DateStart:  start,
			DateEnd:    start.Add(6 * time.Hour),
			DistanceKm: 120,
		}
		if err := tripRepo.Save(ctx, &trip); err != nil {
			t.Fatalf("seed trip %s: %v", id, err)
		}
		start = start.AddDate(0, 0, 1)
	}

	batch := settlement.Settlement{
		ID:          "stl-it-1",
		Name:        "March batch",
		Status:      settlement.StatusDraft,
		TotalAmount: 98.70,
		TripIDs:     []string{"trip-it-1", "trip-it-2"},
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateWithTrips(ctx, &batch); err != nil {
		t.Fatalf("create settlement: %v", err)
	}

	for _, id := range batch.TripIDs {
		trip, err := tripRepo.Get(ctx, id)
		if err != nil {
			t.Fatalf("load trip %s: %v", id, err)
		}
		if trip == nil || !trip.IsSettled || trip.SettlementID != batch.ID {
			t.Fatalf("trip %s not claimed by %s", id, batch.ID)
		}
	}

	loaded, err := store.Get(ctx, batch.ID)
	if err != nil {
		t.Fatalf("get settlement: %v", err)
	}
	if loaded == nil || len(loaded.TripIDs) != 2 || loaded.TripIDs[0] != "trip-it-1" {
		t.Fatalf("unexpected settlement load: %+v", loaded)
	}

	// A second batch over an already claimed trip must roll back entirely.
	conflict := settlement.Settlement{
		ID:        "stl-it-2",
		Name:      "Conflicting batch",
		Status:    settlement.StatusDraft,
		TripIDs:   []string{"trip-it-2"},
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateWithTrips(ctx, &conflict); !errors.Is(err, settlement.ErrTripAlreadySettled) {
		t.Fatalf("expected ErrTripAlreadySettled, got %v", err)
	}
	if ghost, err := store.Get(ctx, conflict.ID); err != nil || ghost != nil {
		t.Fatalf("conflicting settlement leaked: %+v err=%v", ghost, err)
	}

	if err := store.UpdateStatus(ctx, batch.ID, settlement.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	approved, err := store.Get(ctx, batch.ID)
	if err != nil || approved == nil || approved.Status != settlement.StatusApproved {
		t.Fatalf("status not updated: %+v err=%v", approved, err)
	}

	if err := store.DeleteWithTrips(ctx, batch.ID); err != nil {
		t.Fatalf("delete settlement: %v", err)
	}
	for _, id := range batch.TripIDs {
		trip, err := tripRepo.Get(ctx, id)
		if err != nil {
			t.Fatalf("load trip %s: %v", id, err)
		}
		if trip == nil || trip.IsSettled || trip.SettlementID != "" {
			t.Fatalf("trip %s not released", id)
		}
	}

	if err := store.DeleteWithTrips(ctx, batch.ID); !errors.Is(err, settlement.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
