package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		account     string
		key         string
		wantAccount string
		wantKey     string
	}{
		{
			name:        "emulator default account",
			url:         "http://127.0.0.1:10000/devstoreaccount1",
			wantAccount: emulatorAccountName,
			wantKey:     emulatorAccountKey,
		},
		{
			name:        "emulator account override",
			url:         "http://azurite:10002/acct",
			account:     "acct",
			key:         "secret",
			wantAccount: "acct",
			wantKey:     "secret",
		},
		{
			name: "cloud account",
			url:  "https://account.blob.core.windows.net",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SERVICE_URL", tt.url)
			t.Setenv("AZURITE_ACCOUNT_NAME", tt.account)
			t.Setenv("AZURITE_ACCOUNT_KEY", tt.key)

			ep, err := resolveEndpoint("TEST_SERVICE_URL")
			require.NoError(t, err)
			assert.Equal(t, tt.url, ep.URL)
			assert.Equal(t, tt.wantAccount, ep.Account)
			assert.Equal(t, tt.wantKey, ep.Key)
			assert.Equal(t, tt.wantAccount != "", ep.sharedKey())
		})
	}
}

func TestResolveEndpoint_Missing(t *testing.T) {
	t.Setenv("TEST_SERVICE_URL", "")

	_, err := resolveEndpoint("TEST_SERVICE_URL")
	assert.ErrorContains(t, err, "TEST_SERVICE_URL")
}
