package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("go-protected-text")
//	resp, err := client.R().Get("https://example.com")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance identifying
// itself with userAgent and asking for JSON answers. Retries stay disabled:
// a rejected save must reach the caller as is.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(userAgent string) *HTTPClient {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &HTTPClient{Client: client}
}
