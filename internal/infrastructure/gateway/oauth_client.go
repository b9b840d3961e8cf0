package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	domaingateway "merchant-connect.backend/internal/domain/gateway"
	"merchant-connect.backend/pkg/logger"
	"merchant-connect.backend/pkg/metrics"
)

const (
	connectPath     = "/oauth/connect"
	accessTokenPath = "/oauth/access_tokens"

	// DefaultScope is requested when ConnectParams.Scope is empty
	DefaultScope = "read_write"
)

// DefaultPaymentMethods are offered on the connect page unless overridden
var DefaultPaymentMethods = []string{"credit_card", "paypal"}

// OAuthClient talks to the gateway's OAuth endpoints
type OAuthClient struct {
	config     oauth2.Config
	httpClient *http.Client
}

// basicAuthTransport sends the raw client id and secret. oauth2's header
// style URL-escapes both, and gateway credentials contain '$'.
type basicAuthTransport struct {
	clientID     string
	clientSecret string
	base         http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.clientID, t.clientSecret)
	return t.base.RoundTrip(r)
}

func newOAuthClient(baseURL, clientID, clientSecret string, httpClient *http.Client) *OAuthClient {
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	exchangeClient := *httpClient
	exchangeClient.Transport = &basicAuthTransport{
		clientID:     clientID,
		clientSecret: clientSecret,
		base:         base,
	}

	return &OAuthClient{
		// The secret stays out of the config so it never lands in the form body
		config: oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + connectPath,
				TokenURL:  baseURL + accessTokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &exchangeClient,
	}
}

var _ domaingateway.OAuthClient = (*OAuthClient)(nil)

// ConnectURL builds the authorization redirect for a merchant
func (c *OAuthClient) ConnectURL(params domaingateway.ConnectParams) string {
	cfg := c.config
	cfg.RedirectURL = params.RedirectURI

	scope := params.Scope
	if scope == "" {
		scope = DefaultScope
	}
	cfg.Scopes = []string{scope}

	keys := make([]string, 0, len(params.Prefill))
	for k := range params.Prefill {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]oauth2.AuthCodeOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, oauth2.SetAuthURLParam(k, params.Prefill[k]))
	}

	authURL := cfg.AuthCodeURL(params.State, opts...)

	methods := params.PaymentMethods
	if methods == nil {
		methods = DefaultPaymentMethods
	}
	if len(methods) == 0 {
		return authURL
	}

	// payment_methods[] repeats, which SetAuthURLParam cannot express
	u, err := url.Parse(authURL)
	if err != nil {
		return authURL
	}
	q := u.Query()
	for _, m := range methods {
		q.Add("payment_methods[]", m)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// CreateTokenFromCode exchanges an authorization code for merchant credentials
func (c *OAuthClient) CreateTokenFromCode(ctx context.Context, code string) (*entities.OAuthCredentials, error) {
	start := time.Now()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.config.Exchange(ctx, code)
	if err != nil {
		metrics.ObserveGatewayCall("oauth_exchange", metrics.OutcomeError, time.Since(start))
		logger.Warn(ctx, "Gateway code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: code exchange: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	metrics.ObserveGatewayCall("oauth_exchange", metrics.OutcomeOK, time.Since(start))

	creds := &entities.OAuthCredentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresAt:    tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		creds.Scope = scope
	}
	return creds, nil
}
