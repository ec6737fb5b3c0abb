package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// AzureEntraTokenProvider turns an azcore credential into database access
// tokens for Azure Database for MySQL. The server validates the token as the
// password of an Entra-mapped database user.
type AzureEntraTokenProvider struct {
	credential azcore.TokenCredential
	label      string
}

// NewAzureServicePrincipalProvider builds a provider backed by a service
// principal (client secret) credential. Suited to CI pipelines where the
// three values come from the environment.
func NewAzureServicePrincipalProvider(tenantID, clientID, clientSecret string) (*AzureEntraTokenProvider, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("azure service principal auth requires tenant ID, client ID and client secret")
	}

	credential, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return &AzureEntraTokenProvider{
		credential: credential,
		label:      fmt.Sprintf("AzureServicePrincipal(tenant=%s, client=%s)", tenantID, clientID),
	}, nil
}

// NewAzureDefaultCredentialProvider builds a provider backed by the
// DefaultAzureCredential chain (environment, workload identity, managed
// identity, then the local az CLI). Used when no explicit service principal
// was configured.
func NewAzureDefaultCredentialProvider() (*AzureEntraTokenProvider, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}

	return &AzureEntraTokenProvider{
		credential: credential,
		label:      "AzureDefaultCredential",
	}, nil
}

func (p *AzureEntraTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzureMySQLScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *AzureEntraTokenProvider) String() string {
	return p.label
}

var _ TokenProvider = (*AzureEntraTokenProvider)(nil)
