// Package managementapi provides a cached client-credentials token fetcher
// for the DSH management (REST) API.
//
// A TokenFetcher holds one client identity, caches the access token it
// obtains from the platform's token endpoint, and refreshes it shortly
// before expiry. It is safe for concurrent use: callers asking for a token
// while a refresh is in flight wait for that refresh instead of issuing a
// second request.
//
// # Quick Start
//
//	fetcher, err := managementapi.NewBuilder(platform.NpLz).
//	    TenantName("my-tenant").
//	    ClientSecret(os.Getenv("CLIENT_SECRET")).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := fetcher.GetToken(ctx)
//
// # Notes
//
//   - Fetch failures are returned to the caller and never cached; the fetcher
//     does not retry internally.
//   - Use httpclient.TokenTransport to inject tokens into management API
//     requests automatically.
package managementapi
