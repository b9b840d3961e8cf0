package gateway

import (
	"fmt"
	"strings"
)

// Gateway environments and their API base URLs
var environments = map[string]string{
	"development": "http://localhost:3000",
	"sandbox":     "https://api.sandbox.braintreegateway.com",
	"production":  "https://api.braintreegateway.com",
}

// BaseURL resolves the API root for env. A non-empty override wins.
func BaseURL(env, override string) (string, error) {
	if override != "" {
		return strings.TrimRight(override, "/"), nil
	}
	base, ok := environments[strings.ToLower(env)]
	if !ok {
		return "", fmt.Errorf("unknown gateway environment %q", env)
	}
	return base, nil
}
