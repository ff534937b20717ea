// Package protocoltoken fetches and caches the tokens used by the DSH
// protocol adapters (the MQTT and HTTP brokers).
//
// Two token kinds are involved. A RestToken is obtained with the tenant's
// API key and authorizes requests to the token endpoint itself. A
// DataAccessToken is obtained with a RestToken and authenticates a single
// client (device) to the brokers, optionally restricted to a set of topic
// permissions.
//
// A Fetcher keeps a cache per distinct request: tokens for the same tenant,
// client and claims are shared, tokens for different claims are not. When a
// cached token is missing or no longer valid, exactly one fetch per cache
// key is in flight at a time; concurrent callers wait for its result.
// Failed fetches are never cached.
//
// # Note
//
// Never ship a Fetcher (or the API key it holds) inside a device or other
// external client. It belongs in the service that hands out tokens to those
// clients.
//
// # Quick Start
//
//	fetcher := protocoltoken.NewFetcher(os.Getenv("API_KEY"), platform.NpLz)
//
//	request := protocoltoken.NewRequestDataAccessToken("my-tenant", "External-client-id")
//	token, err := fetcher.GetOrFetchDataAccessToken(ctx, request)
package protocoltoken
