package protocoltoken

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// maxClientIDLength is the longest client ID the platform accepts.
const maxClientIDLength = 64

// RequestRestToken describes the RestToken to ask the platform for. A
// request without claims yields a token with full access for the tenant.
type RequestRestToken struct {
	// Tenant is the tenant name or API client name.
	Tenant string `json:"tenant"`
	// Exp is the requested expiration time in seconds since the UNIX epoch.
	Exp int64 `json:"exp,omitempty"`
	// Claims restricts what the token may be used for.
	Claims *Claims `json:"claims,omitempty"`
}

// NewRequestRestToken returns a full-access request for the tenant.
func NewRequestRestToken(tenant string) RequestRestToken {
	return RequestRestToken{Tenant: tenant}
}

// ClientID returns the external client ID the request is restricted to,
// or the tenant name when unrestricted.
func (r RequestRestToken) ClientID() string {
	if r.Claims != nil && r.Claims.MQTTTokenClaim.ID != "" {
		return r.Claims.MQTTTokenClaim.ID
	}
	return r.Tenant
}

// cacheKey identifies the cache slot for this request. The requested
// expiration time deliberately does not participate: asking for a
// different lifetime must still hit the same cached token.
func (r RequestRestToken) cacheKey() string {
	return r.Tenant + "\x00" + r.ClientID()
}

// RequestDataAccessToken describes the DataAccessToken to ask the platform
// for on behalf of one external client.
type RequestDataAccessToken struct {
	// Tenant is the tenant name.
	Tenant string `json:"tenant"`
	// ID is the client ID the external client must use when connecting to
	// the broker. See ValidateClientID for the accepted format.
	ID string `json:"id"`
	// Exp is the requested expiration time in seconds since the UNIX epoch.
	Exp int64 `json:"exp,omitempty"`
	// Claims lists the topic permissions the token should grant. Nil means
	// all permissions of the issuing RestToken.
	Claims []TopicPermission `json:"claims,omitempty"`
	// DSHCLC carries free-form DSH client claims, for communicating between
	// external clients and the authentication service.
	DSHCLC any `json:"dshclc,omitempty"`
}

// NewRequestDataAccessToken returns a request for the tenant and client ID.
func NewRequestDataAccessToken(tenant, clientID string) RequestDataAccessToken {
	return RequestDataAccessToken{Tenant: tenant, ID: clientID}
}

// cacheKey hashes everything that distinguishes one token from another:
// tenant, client ID, claims and dshclc. The requested expiration time is
// excluded, like with RequestRestToken.
func (r RequestDataAccessToken) cacheKey() uint64 {
	identity := struct {
		Tenant string            `json:"tenant"`
		ID     string            `json:"id"`
		Claims []TopicPermission `json:"claims"`
		DSHCLC any               `json:"dshclc"`
	}{r.Tenant, r.ID, r.Claims, r.DSHCLC}

	// json.Marshal is deterministic for structs and sorts map keys, so the
	// encoding is stable across calls.
	encoded, err := json.Marshal(identity)
	if err != nil {
		encoded = []byte(r.Tenant + "\x00" + r.ID)
	}

	h := fnv.New64a()
	h.Write(encoded)
	return h.Sum64()
}

// ValidateClientID checks whether a string is usable as a broker client ID.
//
// The platform accepts at most 64 characters, drawn from the ASCII
// alphanumerics plus '@', '-', '_', '.' and ':'.
func ValidateClientID(id string) error {
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '@', c == '-', c == '_', c == '.', c == ':':
		default:
			return &ClientIDError{
				ID:     id,
				Reason: fmt.Sprintf("character %q not allowed, only alphanumerics and @ - _ . :", c),
			}
		}
	}
	if len(id) > maxClientIDLength {
		return &ClientIDError{
			ID:     id,
			Reason: fmt.Sprintf("exceeds the maximum of %d characters", maxClientIDLength),
		}
	}
	return nil
}
