package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockFetcher struct {
	FetchRatesFunc func(ctx context.Context, home string) (*Table, error)
}

func (m *MockFetcher) FetchRates(ctx context.Context, home string) (*Table, error) {
	if m.FetchRatesFunc != nil {
		return m.FetchRatesFunc(ctx, home)
	}
	return nil, nil
}

func TestHTTPFetcher_FetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/ILS", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","base_code":"ILS","rates":{"ILS":1,"USD":0.25,"EUR":0.2,"BAD":0}}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL + "/latest/%s")
	table, err := f.FetchRates(context.Background(), "ILS")
	require.NoError(t, err)

	assert.Equal(t, SourceLive, table.Source)
	assert.True(t, table.Convert(dec("10"), "USD").Equal(dec("40")))
	assert.True(t, table.Convert(dec("10"), "€").Equal(dec("50")))
	_, ok := table.Lookup("BAD")
	assert.False(t, ok)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"bad json", http.StatusOK, `{`},
		{"api error", http.StatusOK, `{"result":"error"}`},
		{"wrong base", http.StatusOK, `{"result":"success","base_code":"USD","rates":{"ILS":3.7}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPFetcher(srv.URL).FetchRates(context.Background(), "ILS")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("nil fetcher", func(t *testing.T) {
		table := Load(ctx, nil, "ILS")
		assert.Equal(t, SourceFallback, table.Source)
	})

	t.Run("fetch error degrades to fallback", func(t *testing.T) {
		f := &MockFetcher{FetchRatesFunc: func(ctx context.Context, home string) (*Table, error) {
			return nil, errors.New("network down")
		}}
		table := Load(ctx, f, "ILS")
		require.NotNil(t, table)
		assert.Equal(t, SourceFallback, table.Source)
		assert.True(t, table.Convert(dec("10"), "$").Equal(dec("37")))
	})

	t.Run("empty table degrades to fallback", func(t *testing.T) {
		f := &MockFetcher{FetchRatesFunc: func(ctx context.Context, home string) (*Table, error) {
			return NewTable(home, nil, SourceLive), nil
		}}
		assert.Equal(t, SourceFallback, Load(ctx, f, "ILS").Source)
	})

	t.Run("live table is used", func(t *testing.T) {
		live := NewTable("ILS", map[string]decimal.Decimal{"USD": dec("3.5")}, SourceLive)
		f := &MockFetcher{FetchRatesFunc: func(ctx context.Context, home string) (*Table, error) {
			assert.Equal(t, "ILS", home)
			return live, nil
		}}
		assert.Same(t, live, Load(ctx, f, ""))
	})
}
