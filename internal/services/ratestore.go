package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/omriav/credit-analyzer/internal/rates"
	"github.com/shopspring/decimal"
)

// RateTableService stores currency rates in Azure Table Storage. Entities
// are partitioned by home currency and keyed by currency code.
type RateTableService struct {
	client *aztables.Client
	table  string
}

// NewRateTableService connects to the account in TABLE_SERVICE_URL and
// ensures the RATES_TABLE table (default "rates") exists.
func NewRateTableService(ctx context.Context) (*RateTableService, error) {
	ep, err := resolveEndpoint("TABLE_SERVICE_URL")
	if err != nil {
		return nil, err
	}

	table := os.Getenv("RATES_TABLE")
	if table == "" {
		table = "rates"
	}

	var serviceClient *aztables.ServiceClient
	if ep.sharedKey() {
		cred, err := aztables.NewSharedKeyCredential(ep.Account, ep.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		serviceClient, err = aztables.NewServiceClientWithSharedKey(ep.URL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := ep.tokenCredential()
		if err != nil {
			return nil, err
		}
		serviceClient, err = aztables.NewServiceClient(ep.URL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	if _, err := serviceClient.CreateTable(ctx, table, nil); err != nil && !isAzureErrorCode(err, "TableAlreadyExists") {
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	slog.Info("rate table service initialized successfully", "table_url", ep.URL, "rates_table", table)
	return &RateTableService{
		client: serviceClient.NewClient(table),
		table:  table,
	}, nil
}

type rateEntity struct {
	PartitionKey string
	RowKey       string
	Rate         float64
	UpdatedAt    string `json:",omitempty"`
}

// FetchRates reads the stored rates for home.
func (s *RateTableService) FetchRates(ctx context.Context, home string) (*rates.Table, error) {
	home, filter, err := partitionFilter(home)
	if err != nil {
		return nil, err
	}
	pager := s.client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	var entities [][]byte
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list rate entities: %w", err)
		}
		entities = append(entities, resp.Entities...)
	}

	return tableFromEntities(home, entities), nil
}

// SaveRates upserts every rate of t under its home currency.
func (s *RateTableService) SaveRates(ctx context.Context, t *rates.Table) error {
	if _, _, err := partitionFilter(t.Home); err != nil {
		return err
	}
	updated := t.FetchedAt.UTC().Format(time.RFC3339)
	for code, rate := range t.Rates {
		entity := rateEntity{
			PartitionKey: t.Home,
			RowKey:       code,
			Rate:         rate.InexactFloat64(),
			UpdatedAt:    updated,
		}
		body, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal rate %s: %w", code, err)
		}
		if _, err := s.client.UpsertEntity(ctx, body, nil); err != nil {
			return fmt.Errorf("failed to upsert rate %s/%s: %w", t.Home, code, err)
		}
	}

	slog.Info("saved rates", "table", s.table, "home", t.Home, "count", len(t.Rates))
	return nil
}

// partitionFilter accepts only a three-letter currency code, so the
// value interpolated into the OData filter cannot carry quotes or
// operators.
func partitionFilter(home string) (string, string, error) {
	code, ok := rates.CurrencyCode(home)
	if !ok || code != strings.ToUpper(strings.TrimSpace(home)) {
		return "", "", fmt.Errorf("invalid home currency %q", home)
	}
	return code, fmt.Sprintf("PartitionKey eq '%s'", code), nil
}

// tableFromEntities skips entities that do not decode or carry no rate.
func tableFromEntities(home string, entities [][]byte) *rates.Table {
	values := make(map[string]decimal.Decimal, len(entities))
	var fetched time.Time

	for _, raw := range entities {
		var e rateEntity
		if err := json.Unmarshal(raw, &e); err != nil {
			slog.Warn("skipping undecodable rate entity", "error", err)
			continue
		}
		if e.RowKey == "" || e.Rate <= 0 {
			continue
		}
		values[e.RowKey] = decimal.NewFromFloat(e.Rate)

		if ts, err := time.Parse(time.RFC3339, e.UpdatedAt); err == nil && ts.After(fetched) {
			fetched = ts
		}
	}

	t := rates.NewTable(home, values, rates.SourceTable)
	if !fetched.IsZero() {
		t.FetchedAt = fetched
	}
	return t
}
