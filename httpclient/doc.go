// Package httpclient offers HTTP client construction helpers with bearer token authentication and TLS/mTLS options.
//
// It provides a fluent Builder that can create an http.Client with automatic Bearer token injection from any
// TokenSource (typically a managementapi.TokenFetcher), configurable TLS (custom CA, mTLS, insecure for tests),
// timeouts, retries, base transports, and redirect handling. TokenTransport can wrap any RoundTripper.
//
// # Features
//
//   - Fluent builder for http.Client with optional bearer token injection
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Automatic retries with exponential backoff for transient failures
//   - Custom timeouts, base transport override, and redirect disabling
//   - Reusable TokenTransport for manual composition
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithManagementAPI(platform.NpLz, "my-tenant", "client-secret").
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://api.dsh-dev.dsh.np.aws.kpn.com/resources/v0/allocation/my-tenant/task")
//
// # Manual Transport Wrapping
//
//	transport := httpclient.NewTokenTransport(fetcher, nil)
//	client := &http.Client{Transport: transport}
//
// All components are safe for concurrent use if the provided TokenSource is.
package httpclient
