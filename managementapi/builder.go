package managementapi

import (
	"net/http"

	"github.com/kpn-dsh/dsh-sdk-go/platform"
)

// Builder constructs a TokenFetcher for a platform, deriving the token
// endpoint and (optionally) the robot client ID from the platform and
// tenant name.
type Builder struct {
	platform     platform.Platform
	tenantName   string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	opts         []Option
}

// NewBuilder returns a builder targeting the given platform.
func NewBuilder(p platform.Platform) *Builder {
	return &Builder{platform: p}
}

// TenantName sets the tenant whose robot account will be used. The client
// ID is derived as "robot:{realm}:{tenant}" unless ClientID is also set.
func (b *Builder) TenantName(tenant string) *Builder {
	b.tenantName = tenant
	return b
}

// ClientID sets an explicit client ID. It takes precedence over the ID
// derived from TenantName.
func (b *Builder) ClientID(clientID string) *Builder {
	b.clientID = clientID
	return b
}

// ClientSecret sets the client secret. Required.
func (b *Builder) ClientSecret(secret string) *Builder {
	b.clientSecret = secret
	return b
}

// HTTPClient sets a custom HTTP client for token requests.
func (b *Builder) HTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// Options appends additional fetcher options, e.g. WithExpiryLeeway or
// WithLogger.
func (b *Builder) Options(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build validates the configuration and returns the fetcher.
//
// It returns ErrMissingClientSecret when no secret was set and
// ErrMissingClientID when neither ClientID nor TenantName was set.
func (b *Builder) Build() (*TokenFetcher, error) {
	if b.clientSecret == "" {
		return nil, ErrMissingClientSecret
	}

	clientID := b.clientID
	if clientID == "" && b.tenantName != "" {
		clientID = b.platform.ClientID(b.tenantName)
	}
	if clientID == "" {
		return nil, ErrMissingClientID
	}

	opts := b.opts
	if b.httpClient != nil {
		opts = append(opts, WithHTTPClient(b.httpClient))
	}

	return NewTokenFetcher(clientID, b.clientSecret, b.platform.EndpointManagementAPIToken(), opts...), nil
}
