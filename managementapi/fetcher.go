package managementapi

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultExpiryLeeway is the safety margin before expiry after which a
// cached token is treated as stale and refreshed on the next call.
const DefaultExpiryLeeway = 30 * time.Second

// Logger is an interface for optional logging in TokenFetcher.
// Implementations can log token refresh events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// TokenFetcher obtains and caches access tokens for the DSH management API
// using the client-credentials flow. It is safe for concurrent access.
type TokenFetcher struct {
	config       *clientcredentials.Config
	httpClient   *http.Client // optional, overrides the oauth2 default client
	token        *oauth2.Token
	mu           sync.RWMutex
	expiryLeeway time.Duration
	logger       Logger // optional logger
}

// Option is a functional option for configuring TokenFetcher.
type Option func(*TokenFetcher)

// WithLogger sets a custom logger for token refresh events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(f *TokenFetcher) {
		f.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(f *TokenFetcher) {
		f.logger = log.Default()
	}
}

// WithExpiryLeeway overrides the safety margin used to decide when a
// cached token is stale. Defaults to DefaultExpiryLeeway.
func WithExpiryLeeway(leeway time.Duration) Option {
	return func(f *TokenFetcher) {
		f.expiryLeeway = leeway
	}
}

// WithHTTPClient sets the HTTP client used for token requests. Useful for
// custom proxies, timeouts, or TLS settings.
func WithHTTPClient(client *http.Client) Option {
	return func(f *TokenFetcher) {
		f.httpClient = client
	}
}

// NewTokenFetcher creates a token fetcher for one client identity.
//
// Parameters:
//   - clientID: the robot client ID, e.g. "robot:dev-lz-dsh:my-tenant"
//   - clientSecret: the client secret issued by the platform
//   - tokenURL: the management API token endpoint (see
//     platform.EndpointManagementAPIToken)
//
// Use Builder to derive the client ID and endpoint from a Platform.
func NewTokenFetcher(clientID, clientSecret, tokenURL string, opts ...Option) *TokenFetcher {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		// The platform expects the credentials in the form body, not in a
		// Basic auth header.
		AuthStyle: oauth2.AuthStyleInParams,
	}

	f := &TokenFetcher{
		config:       config,
		expiryLeeway: DefaultExpiryLeeway,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// GetToken returns a valid access token, fetching or refreshing if necessary.
// The returned string is the raw bearer token.
func (f *TokenFetcher) GetToken(ctx context.Context) (string, error) {
	token, err := f.Token(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// Token returns a valid token including its type and expiry, fetching or
// refreshing if necessary. The token is shared with the cache and must not
// be mutated; refreshes replace the cached value.
//
// This method is thread-safe and uses double-checked locking so that
// concurrent callers share a single refresh instead of issuing duplicate
// requests. Fetch failures are returned to the caller and never cached.
func (f *TokenFetcher) Token(ctx context.Context) (*oauth2.Token, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Fast path: check for a valid token without the write lock.
	f.mu.RLock()
	if f.tokenValid() {
		token := f.token
		f.mu.RUnlock()
		return token, nil
	}
	f.mu.RUnlock()

	// Token is stale or missing, fetch a new one.
	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check after acquiring the write lock (another goroutine might
	// have refreshed while we waited).
	if f.tokenValid() {
		return f.token, nil
	}

	token, err := f.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	f.token = token

	if f.logger != nil {
		f.logger.Printf("managementapi: obtained new access token (expires: %s)", token.Expiry.Format(time.RFC3339))
	}

	return token, nil
}

// AuthorizationValue returns the token formatted for an Authorization
// header, i.e. "{token_type} {access_token}".
func (f *TokenFetcher) AuthorizationValue(ctx context.Context) (string, error) {
	token, err := f.Token(ctx)
	if err != nil {
		return "", err
	}
	return token.Type() + " " + token.AccessToken, nil
}

// fetchToken performs the client-credentials exchange against the token
// endpoint and maps failures onto the package error taxonomy.
func (f *TokenFetcher) fetchToken(ctx context.Context) (*oauth2.Token, error) {
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}

	token, err := f.config.Token(ctx)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	return token, nil
}

// tokenValid reports whether the cached token is still usable with the
// configured safety window.
func (f *TokenFetcher) tokenValid() bool {
	if f.token == nil {
		return false
	}
	// If expiry is known, consider the leeway window.
	if !f.token.Expiry.IsZero() {
		if time.Until(f.token.Expiry) <= f.expiryLeeway {
			return false
		}
	}
	return f.token.Valid()
}

// String implements fmt.Stringer with the client secret redacted.
func (f *TokenFetcher) String() string {
	return "TokenFetcher{clientID: " + f.config.ClientID + ", clientSecret: xxxxxx, tokenURL: " + f.config.TokenURL + "}"
}
