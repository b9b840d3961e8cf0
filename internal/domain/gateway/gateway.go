package gateway

import (
	"context"

	"merchant-connect.backend/internal/domain/entities"
)

// ConnectParams describes an authorization redirect
type ConnectParams struct {
	RedirectURI    string
	Scope          string
	State          string
	Prefill        map[string]string
	PaymentMethods []string
}

// OAuthClient is the gateway client scoped to this app's OAuth credentials
type OAuthClient interface {
	ConnectURL(params ConnectParams) string
	CreateTokenFromCode(ctx context.Context, code string) (*entities.OAuthCredentials, error)
}

// MerchantClient is the gateway client scoped to one merchant's access token
type MerchantClient interface {
	GenerateClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, req entities.SaleRequest) (*entities.SaleResult, error)
	SearchTransactions(ctx context.Context, limit int) ([]entities.Transaction, error)
}

// ClientFactory builds gateway clients per request
type ClientFactory interface {
	OAuth() OAuthClient
	ForMerchant(accessToken string) MerchantClient
}
