package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultURL serves the latest rates for the base currency in %s.
const DefaultURL = "https://open.er-api.com/v6/latest/%s"

// Fetcher supplies a rate table for a home currency.
type Fetcher interface {
	FetchRates(ctx context.Context, home string) (*Table, error)
}

// Load fetches a table and degrades to the fallback table when the fetcher
// is missing or fails. It never returns nil.
func Load(ctx context.Context, f Fetcher, home string) *Table {
	if home == "" {
		home = DefaultHome
	}
	if f == nil {
		return Fallback(home)
	}

	t, err := f.FetchRates(ctx, home)
	if err != nil {
		slog.Warn("rate fetch failed, using fallback rates", "home", home, "error", err)
		return Fallback(home)
	}
	if t == nil || len(t.Rates) <= 1 {
		slog.Warn("rate source returned no rates, using fallback rates", "home", home)
		return Fallback(home)
	}

	slog.Info("loaded rate table", "home", t.Home, "source", t.Source, "currencies", len(t.Rates))
	return t
}

// HTTPFetcher reads an exchange-rate document of the form
// {"result":"success","base_code":"ILS","rates":{"USD":0.27,...}}.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher for url, or DefaultURL when empty.
func NewHTTPFetcher(url string) *HTTPFetcher {
	if url == "" {
		url = DefaultURL
	}
	return &HTTPFetcher{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type latestResponse struct {
	Result   string                     `json:"result"`
	BaseCode string                     `json:"base_code"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// FetchRates downloads rates quoted per unit of home and inverts them into
// multipliers to home.
func (f *HTTPFetcher) FetchRates(ctx context.Context, home string) (*Table, error) {
	url := f.URL
	if strings.Contains(url, "%s") {
		url = fmt.Sprintf(url, home)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	if body.Result != "" && body.Result != "success" {
		return nil, fmt.Errorf("rates endpoint reported %q", body.Result)
	}
	if body.BaseCode != "" && !strings.EqualFold(body.BaseCode, home) {
		return nil, fmt.Errorf("rates quoted in %s, want %s", body.BaseCode, home)
	}

	one := decimal.NewFromInt(1)
	multipliers := make(map[string]decimal.Decimal, len(body.Rates))
	for code, perHome := range body.Rates {
		if perHome.Sign() <= 0 {
			continue
		}
		multipliers[code] = one.Div(perHome)
	}
	return NewTable(home, multipliers, SourceLive), nil
}
