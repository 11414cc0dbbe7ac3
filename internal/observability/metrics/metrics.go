package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "travelorder_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	tripCostTotal   *prometheus.CounterVec
	tripCostLatency *prometheus.HistogramVec

	priceImportTotal   *prometheus.CounterVec
	priceImportLatency *prometheus.HistogramVec
	priceImportRecords *prometheus.CounterVec

	settlementCreateTotal   *prometheus.CounterVec
	settlementCreateLatency *prometheus.HistogramVec
	settlementExportTotal   *prometheus.CounterVec
	settlementExportLatency *prometheus.HistogramVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		tripCostTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "trip_cost_requests_total",
				Help: "Total trip cost calculations by result",
			},
			[]string{"result"},
		)
		tripCostLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "trip_cost_latency_seconds",
				Help:    "Trip cost calculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		priceImportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fuel_price_import_total",
				Help: "Total fuel price import runs by result",
			},
			[]string{"result"},
		)
		priceImportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "fuel_price_import_latency_seconds",
				Help:    "Fuel price import latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		priceImportRecords = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fuel_price_import_records_total",
				Help: "Total imported fuel price records by outcome",
			},
			[]string{"outcome"},
		)

		settlementCreateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_create_total",
				Help: "Total settlement create operations by result",
			},
			[]string{"result"},
		)
		settlementCreateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_create_latency_seconds",
				Help:    "Settlement create latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		settlementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settlement_export_total",
				Help: "Total settlement export operations by format and result",
			},
			[]string{"format", "result"},
		)
		settlementExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "settlement_export_latency_seconds",
				Help:    "Settlement export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			tripCostTotal,
			tripCostLatency,
			priceImportTotal,
			priceImportLatency,
			priceImportRecords,
			settlementCreateTotal,
			settlementCreateLatency,
			settlementExportTotal,
			settlementExportLatency,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveTripCost records trip cost calculation latency and result.
func ObserveTripCost(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if tripCostTotal != nil {
		tripCostTotal.WithLabelValues(result).Inc()
	}
	if tripCostLatency != nil {
		tripCostLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObservePriceImport records import run latency and result.
func ObservePriceImport(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if priceImportTotal != nil {
		priceImportTotal.WithLabelValues(result).Inc()
	}
	if priceImportLatency != nil {
		priceImportLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddPriceImportRecords increments imported record counters by outcome.
func AddPriceImportRecords(outcome string, count int) {
	if count <= 0 {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	if priceImportRecords != nil {
		priceImportRecords.WithLabelValues(outcome).Add(float64(count))
	}
}

// ObserveSettlementCreate records settlement create latency and result.
func ObserveSettlementCreate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if settlementCreateTotal != nil {
		settlementCreateTotal.WithLabelValues(result).Inc()
	}
	if settlementCreateLatency != nil {
		settlementCreateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveSettlementExport records export latency and result.
func ObserveSettlementExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if settlementExportTotal != nil {
		settlementExportTotal.WithLabelValues(format, result).Inc()
	}
	if settlementExportLatency != nil {
		settlementExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	ImportOutcomeCreated = "created"
	ImportOutcomeUpdated = "updated"
	ImportOutcomeSkipped = "skipped"
)
