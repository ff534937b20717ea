package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// TokenSource provides bearer tokens for outgoing requests. It is
// implemented by managementapi.TokenFetcher.
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// TokenTransport is an http.RoundTripper that automatically adds bearer
// tokens to outgoing HTTP requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and
// injects the Authorization header before each request.
type TokenTransport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Source provides the access tokens.
	Source TokenSource
}

// RoundTrip implements http.RoundTripper interface.
// It fetches a valid token and adds it as "Authorization: Bearer <token>"
// to the request headers before delegating to the base transport.
// The token fetch respects the request context's cancellation and deadline.
func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return nil, fmt.Errorf("httpclient: Source is nil")
	}

	// Get a valid access token using the request context
	token, err := t.Source.GetToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("httpclient: failed to get token: %w", err)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())

	// Add Authorization header
	reqClone.Header.Set("Authorization", "Bearer "+token)

	// Use base transport or default
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

// NewTokenTransport creates a new TokenTransport with the given token source.
// The base transport defaults to http.DefaultTransport if not specified.
func NewTokenTransport(source TokenSource, base http.RoundTripper) *TokenTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &TokenTransport{
		Base:   base,
		Source: source,
	}
}
