// Package testutil provides shared test helpers for the SDK packages.
//
// It includes utilities to spin up IPv4-only local HTTP servers (avoiding IPv6 in sandboxes),
// mock OAuth2 token endpoints without real sockets, generate self-signed certificates for
// TLS/mTLS tests, and mint signed protocol adapter tokens with customizable claims.
//
// # Utilities
//
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1
//   - MockOAuth2Server, StaticJSONResponse, StaticResponse: stub token endpoints and capture requests
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - WriteTestCACert / WriteTestCertAndKey: generate temporary CA and leaf certificates for tests
//   - NewRestTokenClaims / NewDataAccessTokenClaims: mint signed protocol tokens
//
// These helpers are designed for tests and may mutate http.DefaultClient/Transport; they restore previous values via tb.Cleanup.
package testutil
