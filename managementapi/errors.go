package managementapi

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
)

// Builder errors.
var (
	// ErrMissingClientID is returned by Builder.Build when neither a client ID
	// nor a tenant name was provided.
	ErrMissingClientID = errors.New("managementapi: client ID not set")

	// ErrMissingClientSecret is returned by Builder.Build when no client
	// secret was provided.
	ErrMissingClientSecret = errors.New("managementapi: client secret not set")
)

// StatusError reports a non-success response from the token endpoint.
// A 4xx status means the platform rejected the client credentials.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("managementapi: token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// InvalidCredentials reports whether the token endpoint rejected the
// credentials (4xx) as opposed to failing on its own (5xx).
func (e *StatusError) InvalidCredentials() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// NetworkError wraps a transport-level failure (DNS, TLS, connection)
// while reaching the token endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "managementapi: token request failed: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError reports a success response whose body could not
// be interpreted as a token.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "managementapi: malformed token response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// classifyTokenError maps errors out of the oauth2 token exchange onto the
// fetcher's error taxonomy.
func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		statusCode := 0
		if retrieveErr.Response != nil {
			statusCode = retrieveErr.Response.StatusCode
		}
		return &StatusError{StatusCode: statusCode, Body: string(retrieveErr.Body)}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &NetworkError{Err: err}
	}

	return &MalformedResponseError{Err: err}
}
