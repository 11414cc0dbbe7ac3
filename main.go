package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "travelorder-cloud/internal/api/http"
	"travelorder-cloud/internal/audit"
	masterdatarepo "travelorder-cloud/internal/masterdata/infrastructure/postgres"
	masterdatahttp "travelorder-cloud/internal/masterdata/interfaces/http"
	"travelorder-cloud/internal/observability/metrics"
	pricingapp "travelorder-cloud/internal/pricing/application"
	pricingrepo "travelorder-cloud/internal/pricing/infrastructure/postgres"
	"travelorder-cloud/internal/pricing/infrastructure/statoffice"
	pricinghttp "travelorder-cloud/internal/pricing/interfaces/http"
	settlementapp "travelorder-cloud/internal/settlement/application"
	settlementrepo "travelorder-cloud/internal/settlement/infrastructure/postgres"
	settlementhttp "travelorder-cloud/internal/settlement/interfaces/http"
	tripsapp "travelorder-cloud/internal/trips/application"
	tripsrepo "travelorder-cloud/internal/trips/infrastructure/postgres"
	tripshttp "travelorder-cloud/internal/trips/interfaces/http"
	"travelorder-cloud/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		logger.Fatalf("migration provider error: %v", err)
	}
	if _, err := provider.Up(context.Background()); err != nil {
		logger.Fatalf("migration error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	vehicleRepo := masterdatarepo.NewVehicleRepository(db)
	employeeRepo := masterdatarepo.NewEmployeeRepository(db)
	projectRepo := masterdatarepo.NewProjectRepository(db)
	locationRepo := masterdatarepo.NewLocationRepository(db)
	priceRepo := pricingrepo.NewRecordRepository(db)
	tripRepo := tripsrepo.NewTripRepository(db)
	settingsRepo := tripsrepo.NewSettingsRepository(db)
	settlementStore := settlementrepo.NewStore(db)

	tripService, err := tripsapp.NewTripService(tripRepo, vehicleRepo, settingsRepo, priceRepo, tripsapp.SystemClock{}, logger)
	if err != nil {
		logger.Fatalf("trip service error: %v", err)
	}
	settlementService, err := settlementapp.NewService(settlementStore, tripRepo, vehicleRepo, settingsRepo, priceRepo, settlementapp.SystemClock{}, logger)
	if err != nil {
		logger.Fatalf("settlement service error: %v", err)
	}

	importCfg, err := pricingapp.LoadImportConfig()
	if err != nil {
		logger.Fatalf("import config error: %v", err)
	}
	var importService *pricingapp.ImportService
	if importCfg.Enabled {
		clientOpts := []statoffice.Option{}
		if importCfg.DatasetURL != "" {
			clientOpts = append(clientOpts, statoffice.WithBaseURL(importCfg.DatasetURL))
		}
		importService, err = pricingapp.NewImportService(statoffice.NewClient(clientOpts...), priceRepo, logger)
		if err != nil {
			logger.Fatalf("import service error: %v", err)
		}
		scheduler := pricingapp.NewScheduler(importService, importCfg.WeeksBack, importCfg.DailyAt, logger)
		go scheduler.Start(context.Background())
	}

	tripHandler, err := tripshttp.NewHandler(tripService, auditRepo)
	if err != nil {
		logger.Fatalf("trip handler error: %v", err)
	}
	masterdataHandler, err := masterdatahttp.NewHandler(vehicleRepo, employeeRepo, projectRepo, locationRepo, auditRepo)
	if err != nil {
		logger.Fatalf("masterdata handler error: %v", err)
	}
	pricingHandler, err := pricinghttp.NewHandler(priceRepo, importService, importCfg.WeeksBack, auditRepo)
	if err != nil {
		logger.Fatalf("pricing handler error: %v", err)
	}
	settlementHandler, err := settlementhttp.NewHandler(settlementService, auditRepo)
	if err != nil {
		logger.Fatalf("settlement handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/trips", tripHandler)
	mux.Handle("/api/v1/trips/", tripHandler)
	mux.Handle("/api/v1/vehicles", masterdataHandler)
	mux.Handle("/api/v1/vehicles/", masterdataHandler)
	mux.Handle("/api/v1/employees", masterdataHandler)
	mux.Handle("/api/v1/employees/", masterdataHandler)
	mux.Handle("/api/v1/projects", masterdataHandler)
	mux.Handle("/api/v1/projects/", masterdataHandler)
	mux.Handle("/api/v1/locations", masterdataHandler)
	mux.Handle("/api/v1/locations/", masterdataHandler)
	mux.Handle("/api/v1/fuel-prices", pricingHandler)
	mux.Handle("/api/v1/fuel-prices/", pricingHandler)
	mux.Handle("/api/v1/settlements", settlementHandler)
	mux.Handle("/api/v1/settlements/", settlementHandler)
	mux.Handle("/api/v1/settings", apihttp.NewSettingsHandler(settingsRepo, auditRepo))
	mux.Handle("/api/v1/stats", apihttp.NewStatsHandler(tripRepo, vehicleRepo, settingsRepo, priceRepo))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(mux, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
