package services

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Well-known Azurite development account
const (
	emulatorAccountName = "devstoreaccount1"
	emulatorAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// endpoint is a storage service URL plus how to authenticate to it. A
// plain http URL is the local emulator and uses a shared key; anything
// else uses the default Azure credential chain.
type endpoint struct {
	URL     string
	Account string
	Key     string
}

// resolveEndpoint reads the service URL from envVar.
func resolveEndpoint(envVar string) (endpoint, error) {
	url := os.Getenv(envVar)
	if url == "" {
		return endpoint{}, fmt.Errorf("%s environment variable is required", envVar)
	}

	e := endpoint{URL: url}
	if strings.HasPrefix(url, "http://") {
		e.Account, e.Key = os.Getenv("AZURITE_ACCOUNT_NAME"), os.Getenv("AZURITE_ACCOUNT_KEY")
		if e.Account == "" || e.Key == "" {
			e.Account, e.Key = emulatorAccountName, emulatorAccountKey
		}
	}
	return e, nil
}

func (e endpoint) sharedKey() bool {
	return e.Account != ""
}

func (e endpoint) tokenCredential() (azcore.TokenCredential, error) {
	slog.Info("using default Azure credentials", "url", e.URL)
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create default azure credential: %w", err)
	}
	return cred, nil
}
