package protocoltoken

import "fmt"

// PlatformError reports a non-success response from a DSH token endpoint.
type PlatformError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("protocoltoken: calling %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// NetworkError wraps a transport-level failure while reaching a token
// endpoint.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "protocoltoken: token request failed: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedTokenError reports a token string that could not be parsed.
type MalformedTokenError struct {
	Err error
}

func (e *MalformedTokenError) Error() string {
	return "protocoltoken: malformed token: " + e.Err.Error()
}

func (e *MalformedTokenError) Unwrap() error { return e.Err }

// ClientIDError reports a client ID rejected by ValidateClientID.
type ClientIDError struct {
	ID     string
	Reason string
}

func (e *ClientIDError) Error() string {
	return fmt.Sprintf("protocoltoken: invalid client ID %q: %s", e.ID, e.Reason)
}
