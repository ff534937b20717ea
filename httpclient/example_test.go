package httpclient_test

import (
	"fmt"
	"log"
	"time"

	"github.com/kpn-dsh/dsh-sdk-go/httpclient"
	"github.com/kpn-dsh/dsh-sdk-go/managementapi"
	"github.com/kpn-dsh/dsh-sdk-go/platform"
)

// Example demonstrates basic HTTP client usage with bearer token authentication.
func Example() {
	// Create token fetcher for the management API
	fetcher := managementapi.NewTokenFetcher(
		"robot:dev-lz-dsh:my-tenant",
		"client-secret",
		platform.NpLz.EndpointManagementAPIToken(),
	)

	// Create HTTP client
	client := httpclient.NewHTTPClient(fetcher)

	fmt.Printf("HTTP client created with timeout: %v\n", client.Timeout)
	// Output: HTTP client created with timeout: 30s
}

// ExampleNewHTTPClient demonstrates the simple way to create an HTTP client.
func ExampleNewHTTPClient() {
	fetcher := managementapi.NewTokenFetcher(
		"robot:dev-lz-dsh:my-tenant",
		"client-secret",
		platform.NpLz.EndpointManagementAPIToken(),
	)

	client := httpclient.NewHTTPClient(fetcher)

	fmt.Printf("Client timeout: %v\n", client.Timeout)
	// Output: Client timeout: 30s
}

// ExampleNewBuilder demonstrates using the builder pattern for HTTP clients.
func ExampleNewBuilder() {
	client, err := httpclient.NewBuilder().
		WithManagementAPI(platform.NpLz, "my-tenant", "client-secret").
		WithTimeout(60 * time.Second).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Client configured with timeout: %v\n", client.Timeout)
	// Output: Client configured with timeout: 1m0s
}

// ExampleBuilder_WithManagementAPI demonstrates management API authentication.
func ExampleBuilder_WithManagementAPI() {
	client, err := httpclient.NewBuilder().
		WithManagementAPI(platform.NpLz, "my-tenant", "client-secret").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Management API authentication configured")
	_ = client
	// Output: Management API authentication configured
}

// ExampleBuilder_WithTLS demonstrates TLS configuration.
func ExampleBuilder_WithTLS() {
	client, err := httpclient.NewBuilder().
		WithManagementAPI(platform.NpLz, "my-tenant", "client-secret").
		WithTLS(
			"/path/to/ca.crt",     // CA certificate
			"/path/to/client.crt", // Client certificate (optional)
			"/path/to/client.key", // Client key (optional)
		).
		Build()
	if err != nil {
		// In this example, files don't exist, so we expect an error
		fmt.Println("TLS configuration attempted")
		return
	}

	fmt.Println("TLS configured")
	_ = client
	// Output: TLS configuration attempted
}

// ExampleBuilder_WithRetryMax demonstrates retry configuration.
func ExampleBuilder_WithRetryMax() {
	client, err := httpclient.NewBuilder().
		WithManagementAPI(platform.NpLz, "my-tenant", "client-secret").
		WithRetryMax(3).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Retries enabled")
	_ = client
	// Output: Retries enabled
}

// ExampleBuilder_WithoutRedirects demonstrates disabling redirect following.
func ExampleBuilder_WithoutRedirects() {
	client, err := httpclient.NewBuilder().
		WithManagementAPI(platform.NpLz, "my-tenant", "client-secret").
		WithoutRedirects().
		Build()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Redirects disabled")
	_ = client
	// Output: Redirects disabled
}

// ExampleNewTokenTransport demonstrates creating a custom transport.
func ExampleNewTokenTransport() {
	fetcher := managementapi.NewTokenFetcher(
		"robot:dev-lz-dsh:my-tenant",
		"client-secret",
		platform.NpLz.EndpointManagementAPIToken(),
	)

	transport := httpclient.NewTokenTransport(fetcher, nil)

	fmt.Printf("Transport type: TokenTransport\n")
	_ = transport
	// Output: Transport type: TokenTransport
}
