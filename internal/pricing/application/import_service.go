package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	pricing "travelorder-cloud/internal/pricing/domain"
)

// WeekPrices is one week of national average pump prices as published by
// the statistical office. The validity window is the closed Monday..Sunday
// range of the ISO week.
type WeekPrices struct {
	WeekCode  string
	ValidFrom time.Time
	ValidTo   time.Time
	Diesel    float64
	Benzin    float64
	LPG       float64
}

// PriceSource fetches published weekly prices. Weeks the office has not
// published yet are simply absent from the result.
type PriceSource interface {
	FetchLatest(ctx context.Context, now time.Time, weeks int) ([]WeekPrices, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// ImportService pulls weekly fuel prices from a source and reconciles them
// into the price record collection.
type ImportService struct {
	source PriceSource
	repo   pricing.Repository
	logger *log.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(source PriceSource, repo pricing.Repository, logger *log.Logger) (*ImportService, error) {
	if source == nil {
		return nil, fmt.Errorf("import service: nil source")
	}
	if repo == nil {
		return nil, fmt.Errorf("import service: nil repository")
	}
	return &ImportService{source: source, repo: repo, logger: logger}, nil
}

// ImportLatest fetches the last weeksBack weeks and upserts them. Records
// are matched on their ValidFrom day. Existing records keep their electric
// price; the office does not publish one.
func (s *ImportService) ImportLatest(ctx context.Context, now time.Time, weeksBack int) (ImportResult, error) {
	var result ImportResult

	published, err := s.source.FetchLatest(ctx, now, weeksBack)
	if err != nil {
		return result, err
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return result, err
	}
	byValidFrom := make(map[string]*pricing.Record, len(existing))
	for i := range existing {
		byValidFrom[dayKey(existing[i].ValidFrom)] = &existing[i]
	}

	for _, week := range published {
		current, ok := byValidFrom[dayKey(week.ValidFrom)]
		if ok {
			if current.PriceDiesel == week.Diesel &&
				current.PriceBenzin == week.Benzin &&
				current.PriceLpg == week.LPG {
				result.Skipped++
				continue
			}
			updated := *current
			updated.PriceDiesel = week.Diesel
			updated.PriceBenzin = week.Benzin
			updated.PriceLpg = week.LPG
			if err := s.repo.Save(ctx, &updated); err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		record := pricing.Record{
			ID:            "fp-" + uuid.NewString(),
			ValidFrom:     week.ValidFrom,
			ValidTo:       week.ValidTo,
			PriceDiesel:   week.Diesel,
			PriceBenzin:   week.Benzin,
			PriceLpg:      week.LPG,
			PriceElectric: 0,
			Note:          fmt.Sprintf("statistics.sk week %s", week.WeekCode),
		}
		if err := s.repo.Save(ctx, &record); err != nil {
			return result, err
		}
		result.Created++
	}

	if s.logger != nil {
		s.logger.Printf("fuel price import: created=%d updated=%d skipped=%d", result.Created, result.Updated, result.Skipped)
	}
	return result, nil
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
