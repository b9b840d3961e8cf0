package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"merchant-connect.backend/internal/config"
)

func newTestFactory(t *testing.T, handler http.Handler) *ClientFactory {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f, err := NewClientFactory(config.GatewayConfig{
		Environment:  "sandbox",
		ClientID:     "client_id$sandbox$abc",
		ClientSecret: "client_secret$sandbox$xyz",
		BaseURL:      srv.URL,
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	return f
}
