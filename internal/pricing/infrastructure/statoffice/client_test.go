package statoffice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fixtureDataset(weekCode string) string {
	return fmt.Sprintf(`{
		"id": ["sp0207ts_tyz", "sp0207ts_ukaz"],
		"size": [1, 3],
		"dimension": {
			"sp0207ts_tyz": {"category": {"index": {"%s": 0}, "label": {"%s": "week"}}},
			"sp0207ts_ukaz": {"category": {
				"index": {"FR02011": 0, "FR02012": 1, "FR02016": 2},
				"label": {
					"FR02011": "Natural 95 oktánový benzín",
					"FR02012": "Motorová nafta",
					"FR02016": "LPG skvapalnený plyn"
				}
			}}
		},
		"value": [1.62, 1.45, 0.78]
	}`, weekCode, weekCode)
}

func TestFetchWeekParsesPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "202436") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, fixtureDataset("202436"))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	prices, err := client.FetchWeek(context.Background(), "202436")
	if err != nil {
		t.Fatalf("FetchWeek: %v", err)
	}

	if prices.Diesel != 1.45 {
		t.Fatalf("diesel = %v, want 1.45", prices.Diesel)
	}
	if prices.Benzin != 1.62 {
		t.Fatalf("benzin = %v, want 1.62", prices.Benzin)
	}
	if prices.LPG != 0.78 {
		t.Fatalf("lpg = %v, want 0.78", prices.LPG)
	}
	wantFrom := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	if !prices.ValidFrom.Equal(wantFrom) {
		t.Fatalf("valid from = %s, want %s", prices.ValidFrom, wantFrom)
	}
	if !prices.ValidTo.Equal(wantFrom.AddDate(0, 0, 6)) {
		t.Fatalf("valid to = %s", prices.ValidTo)
	}
}

func TestFetchWeekUnpublishedIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if _, err := client.FetchWeek(context.Background(), "203001"); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestFetchWeekNullValuesAreNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"id": ["sp0207ts_tyz", "sp0207ts_ukaz"],
			"size": [1, 3],
			"dimension": {
				"sp0207ts_tyz": {"category": {"index": {"202436": 0}, "label": {"202436": "week"}}},
				"sp0207ts_ukaz": {"category": {
					"index": {"FR02011": 0, "FR02012": 1, "FR02016": 2},
					"label": {"FR02011": "benzín 95", "FR02012": "nafta", "FR02016": "LPG"}
				}}
			},
			"value": [null, null, null]
		}`)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if _, err := client.FetchWeek(context.Background(), "202436"); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestFetchLatestSkipsUnpublishedWeeks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "202436") {
			fmt.Fprint(w, fixtureDataset("202436"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	now := time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC)
	published, err := client.FetchLatest(context.Background(), now, 4)
	if err != nil {
		t.Fatalf("FetchLatest: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("got %d weeks, want 1", len(published))
	}
	if published[0].WeekCode != "202436" {
		t.Fatalf("week = %s, want 202436", published[0].WeekCode)
	}
}
