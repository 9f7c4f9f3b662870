package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

// AzurePostgreSQLScope is the token scope of Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// AzureTokenProvider fetches Entra ID tokens from an azcore credential.
type AzureTokenProvider struct {
	credential azcore.TokenCredential
	name       string
}

// NewAzureTokenProvider wraps any credential, e.g. a test double.
func NewAzureTokenProvider(cred azcore.TokenCredential, name string) *AzureTokenProvider {
	return &AzureTokenProvider{credential: cred, name: name}
}

// newAzureTokenProvider uses a service principal when tenant, client and
// secret are all known and the default credential chain otherwise.
func newAzureTokenProvider(cfg *dexplore.ConnectionConfig) (*AzureTokenProvider, error) {
	if cfg.AzureTenantID != "" && cfg.AzureClientID != "" && cfg.AzureClientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(cfg.AzureTenantID, cfg.AzureClientID, cfg.AzureClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure service principal credential: %w", err)
		}
		return NewAzureTokenProvider(cred, fmt.Sprintf("azure-sp(tenant=%s, client=%s)", cfg.AzureTenantID, cfg.AzureClientID)), nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure default credential: %w", err)
	}
	return NewAzureTokenProvider(cred, "azure-default"), nil
}

func (p *AzureTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	tok, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{AzurePostgreSQLScope}})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("acquire Azure token: %w", err)
	}
	return tok.Token, tok.ExpiresOn, nil
}

func (p *AzureTokenProvider) String() string { return p.name }
