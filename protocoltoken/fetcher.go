package protocoltoken

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/singleflight"

	"github.com/kpn-dsh/dsh-sdk-go/platform"
)

// Logger is an interface for optional logging in Fetcher.
type Logger interface {
	Printf(format string, args ...any)
}

// Fetcher obtains RestTokens and DataAccessTokens from the DSH platform on
// behalf of an API client authentication service, caching them per distinct
// request. It is safe for concurrent access.
//
// Never ship a Fetcher inside a device or other external client; it holds
// the tenant's API key.
type Fetcher struct {
	apiKey  string
	authURL string
	client  *http.Client
	logger  Logger

	restMu     sync.RWMutex
	restTokens map[string]*RestToken
	restGroup  singleflight.Group

	dataMu     sync.RWMutex
	dataTokens map[uint64]*DataAccessToken
	dataGroup  singleflight.Group
}

// FetcherOption is a functional option for configuring Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for token requests. Defaults to
// a pooled client with sane transport settings.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets a custom logger for token fetch events.
// If not set, no logging will occur.
func WithLogger(logger Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
func WithLoggingEnabled() FetcherOption {
	return func(f *Fetcher) {
		f.logger = log.Default()
	}
}

// WithTokenEndpoint overrides the RestToken endpoint derived from the
// platform. Mainly useful in tests.
func WithTokenEndpoint(url string) FetcherOption {
	return func(f *Fetcher) {
		f.authURL = url
	}
}

// NewFetcher creates a fetcher that authenticates to the platform with the
// given API key.
func NewFetcher(apiKey string, p platform.Platform, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		apiKey:     apiKey,
		authURL:    p.EndpointProtocolRestToken(),
		client:     cleanhttp.DefaultPooledClient(),
		restTokens: make(map[string]*RestToken),
		dataTokens: make(map[uint64]*DataAccessToken),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchRestToken requests a new RestToken from the platform, bypassing the
// cache. The result is not stored.
func (f *Fetcher) FetchRestToken(ctx context.Context, request RequestRestToken) (*RestToken, error) {
	body, err := f.postToken(ctx, f.authURL, request, map[string]string{"apikey": f.apiKey})
	if err != nil {
		return nil, err
	}

	token, err := ParseRestToken(body)
	if err != nil {
		return nil, err
	}

	if f.logger != nil {
		f.logger.Printf("protocoltoken: fetched RestToken for tenant %q client %q (exp: %d)",
			request.Tenant, request.ClientID(), token.Exp)
	}

	return token, nil
}

// GetOrFetchRestToken returns a cached RestToken for the request when one
// is present and still valid, and fetches a new one otherwise.
//
// At most one fetch per cache key is in flight at a time; concurrent
// callers for the same key share its outcome. A caller whose context ends
// while waiting gets its context error, the fetch itself continues for the
// remaining callers. Failed fetches are never cached.
func (f *Fetcher) GetOrFetchRestToken(ctx context.Context, request RequestRestToken) (*RestToken, error) {
	key := request.cacheKey()

	f.restMu.RLock()
	if token, ok := f.restTokens[key]; ok && token.Valid() {
		f.restMu.RUnlock()
		return token, nil
	}
	f.restMu.RUnlock()

	ch := f.restGroup.DoChan(key, func() (any, error) {
		// Another caller may have stored a token between our cache miss and
		// winning the flight.
		f.restMu.RLock()
		token, ok := f.restTokens[key]
		f.restMu.RUnlock()
		if ok && token.Valid() {
			return token, nil
		}

		// Detach from the caller's context so that one impatient waiter
		// cannot cancel the fetch for everyone sharing it.
		token, err := f.FetchRestToken(context.WithoutCancel(ctx), request)
		if err != nil {
			return nil, err
		}

		f.restMu.Lock()
		f.restTokens[key] = token
		f.restMu.Unlock()

		return token, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*RestToken), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FetchDataAccessToken requests a new DataAccessToken from the platform,
// bypassing the data access token cache. The RestToken needed for the
// request does come from the cache when a valid one is present.
func (f *Fetcher) FetchDataAccessToken(ctx context.Context, request RequestDataAccessToken) (*DataAccessToken, error) {
	if err := ValidateClientID(request.ID); err != nil {
		return nil, err
	}

	restToken, err := f.GetOrFetchRestToken(ctx, NewRequestRestToken(request.Tenant))
	if err != nil {
		return nil, err
	}

	url := ensureHTTPSPrefix(restToken.Endpoint) + "/datastreams/v0/mqtt/token"
	body, err := f.postToken(ctx, url, request, map[string]string{
		"Authorization": "Bearer " + restToken.Raw(),
	})
	if err != nil {
		return nil, err
	}

	token, err := ParseDataAccessToken(body)
	if err != nil {
		return nil, err
	}

	if f.logger != nil {
		f.logger.Printf("protocoltoken: fetched DataAccessToken for tenant %q client %q (exp: %d)",
			request.Tenant, request.ID, token.Exp)
	}

	return token, nil
}

// GetOrFetchDataAccessToken returns a cached DataAccessToken for the
// request when one is present and still valid, and fetches a new one
// otherwise. The same sharing and caching rules as GetOrFetchRestToken
// apply.
func (f *Fetcher) GetOrFetchDataAccessToken(ctx context.Context, request RequestDataAccessToken) (*DataAccessToken, error) {
	if err := ValidateClientID(request.ID); err != nil {
		return nil, err
	}

	key := request.cacheKey()

	f.dataMu.RLock()
	if token, ok := f.dataTokens[key]; ok && token.Valid() {
		f.dataMu.RUnlock()
		return token, nil
	}
	f.dataMu.RUnlock()

	ch := f.dataGroup.DoChan(strconv.FormatUint(key, 10), func() (any, error) {
		f.dataMu.RLock()
		token, ok := f.dataTokens[key]
		f.dataMu.RUnlock()
		if ok && token.Valid() {
			return token, nil
		}

		token, err := f.FetchDataAccessToken(context.WithoutCancel(ctx), request)
		if err != nil {
			return nil, err
		}

		f.dataMu.Lock()
		f.dataTokens[key] = token
		f.dataMu.Unlock()

		return token, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*DataAccessToken), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ClearCacheRestTokens drops all cached RestTokens.
func (f *Fetcher) ClearCacheRestTokens() {
	f.restMu.Lock()
	f.restTokens = make(map[string]*RestToken)
	f.restMu.Unlock()
}

// ClearCacheDataAccessTokens drops all cached DataAccessTokens.
func (f *Fetcher) ClearCacheDataAccessTokens() {
	f.dataMu.Lock()
	f.dataTokens = make(map[uint64]*DataAccessToken)
	f.dataMu.Unlock()
}

// ClearCache drops all cached tokens.
func (f *Fetcher) ClearCache() {
	f.ClearCacheRestTokens()
	f.ClearCacheDataAccessTokens()
}

// String implements fmt.Stringer with the API key redacted.
func (f *Fetcher) String() string {
	return "Fetcher{apiKey: xxxxxx, authURL: " + f.authURL + "}"
}

// postToken POSTs the request as JSON and returns the response body, which
// the platform serves as a raw JWT string.
func (f *Fetcher) postToken(ctx context.Context, url string, request any, headers map[string]string) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", &MalformedTokenError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &NetworkError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &PlatformError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return string(body), nil
}

// ensureHTTPSPrefix prepends https:// to endpoints the platform returns
// without a scheme.
func ensureHTTPSPrefix(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}
