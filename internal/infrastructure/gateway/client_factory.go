package gateway

import (
	"errors"
	"net/http"
	"time"

	"merchant-connect.backend/internal/config"
	domaingateway "merchant-connect.backend/internal/domain/gateway"
)

const defaultTimeout = 60 * time.Second

// ClientFactory builds gateway clients. OAuth clients carry the app's client
// credentials, merchant clients carry one merchant's access token. Nothing is
// cached across merchants.
type ClientFactory struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClientFactory creates a new client factory from gateway configuration
func NewClientFactory(cfg config.GatewayConfig) (*ClientFactory, error) {
	baseURL, err := BaseURL(cfg.Environment, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("gateway client id and secret are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &ClientFactory{
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}, nil
}

// SetHTTPClient overrides the transport used by every client built afterwards
func (f *ClientFactory) SetHTTPClient(c *http.Client) {
	f.httpClient = c
}

// BaseURL returns the resolved API root
func (f *ClientFactory) BaseURL() string {
	return f.baseURL
}

// OAuth returns a client scoped to the application's OAuth credentials
func (f *ClientFactory) OAuth() domaingateway.OAuthClient {
	return newOAuthClient(f.baseURL, f.clientID, f.clientSecret, f.httpClient)
}

// ForMerchant returns a client scoped to a merchant's access token
func (f *ClientFactory) ForMerchant(accessToken string) domaingateway.MerchantClient {
	return newMerchantClient(f.baseURL, accessToken, f.httpClient)
}
