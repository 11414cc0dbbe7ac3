package statoffice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travelorder-cloud/internal/pricing/application"
)

// DefaultDatasetURL is the weekly consumer fuel price dataset of the
// statistical office of the Slovak Republic.
const DefaultDatasetURL = "https://data.statistics.sk/api/v2/dataset/sp0207ts"

// Fallback indicator codes, used when label matching finds nothing.
const (
	indicatorBenzin = "FR02011"
	indicatorDiesel = "FR02012"
	indicatorLPG    = "FR02016"
)

// ErrNoData marks a week the office has not published.
var ErrNoData = errors.New("statoffice: no data for week")

// Client fetches weekly fuel prices from the statistical office JSON-stat
// API. It implements application.PriceSource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL overrides the dataset URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// NewClient constructs a client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultDatasetURL,
		userAgent:  "travelorder-cloud/1.0",
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// dataset is the subset of a JSON-stat v2 response the client reads.
type dataset struct {
	Dims      []string             `json:"id"`
	Size      []int                `json:"size"`
	Dimension map[string]dimension `json:"dimension"`
	Value     []*float64           `json:"value"`
}

type dimension struct {
	Category category `json:"category"`
}

type category struct {
	Index map[string]int    `json:"index"`
	Label map[string]string `json:"label"`
}

// FetchLatest fetches the last weeks ISO weeks ending with the week of now,
// oldest first. Unpublished weeks are left out of the result.
func (c *Client) FetchLatest(ctx context.Context, now time.Time, weeks int) ([]application.WeekPrices, error) {
	var result []application.WeekPrices
	for _, code := range LastWeekCodes(now, weeks) {
		prices, err := c.FetchWeek(ctx, code)
		if err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			return nil, err
		}
		result = append(result, prices)
	}
	return result, nil
}

// FetchWeek fetches one ISO week of prices.
func (c *Client) FetchWeek(ctx context.Context, weekCode string) (application.WeekPrices, error) {
	var prices application.WeekPrices

	year, week, err := ParseWeekCode(weekCode)
	if err != nil {
		return prices, err
	}

	url := fmt.Sprintf("%s/%s/all?lang=sk&type=json", c.baseURL, weekCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return prices, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return prices, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return prices, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return prices, fmt.Errorf("statoffice: unexpected status %d for week %s", resp.StatusCode, weekCode)
	}

	var ds dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return prices, fmt.Errorf("statoffice: decode week %s: %w", weekCode, err)
	}

	diesel, benzin, lpg, err := extractPrices(&ds, weekCode)
	if err != nil {
		return prices, err
	}

	from, to := WeekRange(year, week)
	prices = application.WeekPrices{
		WeekCode:  weekCode,
		ValidFrom: from,
		ValidTo:   to,
		Diesel:    diesel,
		Benzin:    benzin,
		LPG:       lpg,
	}
	return prices, nil
}

func extractPrices(ds *dataset, weekCode string) (diesel, benzin, lpg float64, err error) {
	if len(ds.Dims) == 0 || len(ds.Dims) != len(ds.Size) {
		return 0, 0, 0, fmt.Errorf("statoffice: malformed dataset for week %s", weekCode)
	}

	weekDim, indicatorDim := -1, -1
	for i, name := range ds.Dims {
		switch {
		case strings.Contains(name, "tyz"):
			weekDim = i
		case strings.Contains(name, "ukaz"):
			indicatorDim = i
		}
	}
	if indicatorDim < 0 {
		return 0, 0, 0, fmt.Errorf("statoffice: no indicator dimension for week %s", weekCode)
	}

	// Every dimension except week and indicator is held at its first
	// category; the dataset has no others that matter here.
	coords := make([]int, len(ds.Dims))
	if weekDim >= 0 {
		weekCat := ds.Dimension[ds.Dims[weekDim]].Category
		pos, ok := weekCat.Index[weekCode]
		if !ok {
			return 0, 0, 0, ErrNoData
		}
		coords[weekDim] = pos
	}

	indicators := ds.Dimension[ds.Dims[indicatorDim]].Category
	lookup := func(code string) (float64, bool) {
		pos, ok := indicators.Index[code]
		if !ok {
			return 0, false
		}
		coords[indicatorDim] = pos
		value := valueAt(ds, coords)
		if value == nil {
			return 0, false
		}
		return *value, true
	}

	dieselValue, dieselOK := lookup(findIndicator(indicators, indicatorDiesel, "nafta"))
	benzinValue, benzinOK := lookup(findIndicator(indicators, indicatorBenzin, "95"))
	lpgValue, lpgOK := lookup(findIndicator(indicators, indicatorLPG, "lpg", "skvapalnen"))
	if !dieselOK && !benzinOK && !lpgOK {
		return 0, 0, 0, ErrNoData
	}
	return dieselValue, benzinValue, lpgValue, nil
}

// findIndicator locates the indicator whose label mentions any of the given
// fragments, falling back to the published code when labels changed.
func findIndicator(indicators category, fallback string, fragments ...string) string {
	for code, label := range indicators.Label {
		lower := strings.ToLower(label)
		for _, fragment := range fragments {
			if strings.Contains(lower, fragment) {
				return code
			}
		}
	}
	return fallback
}

// valueAt resolves a flat row-major index from per-dimension coordinates.
func valueAt(ds *dataset, coords []int) *float64 {
	index := 0
	stride := 1
	for i := len(ds.Size) - 1; i >= 0; i-- {
		index += coords[i] * stride
		stride *= ds.Size[i]
	}
	if index < 0 || index >= len(ds.Value) {
		return nil
	}
	return ds.Value[index]
}
