package protocoltoken

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// restTokenValidityMargin is the number of seconds a token must still live
// for Valid to report true.
const restTokenValidityMargin = 5

// RestToken authorizes requests for a DataAccessToken. It is the decoded
// payload of the JWT issued by the token endpoint; the signature is not
// verified, verification is the platform's job.
type RestToken struct {
	Gen      int64  `json:"gen"`
	Endpoint string `json:"endpoint"`
	Iss      string `json:"iss"`
	Claims   Claims `json:"claims"`
	Exp      int64  `json:"exp"`
	TenantID string `json:"tenant-id"`

	raw string
}

// ParseRestToken decodes the payload of a raw JWT into a RestToken.
func ParseRestToken(rawToken string) (*RestToken, error) {
	payload, err := decodeJWTPayload(rawToken)
	if err != nil {
		return nil, err
	}

	var token RestToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return nil, &MalformedTokenError{Err: err}
	}
	token.raw = rawToken

	return &token, nil
}

// ClientID returns the external client ID the token is restricted to, or
// the empty string when unrestricted.
func (t *RestToken) ClientID() string {
	return t.Claims.MQTTTokenClaim.ID
}

// Raw returns the raw JWT as received from the platform.
func (t *RestToken) Raw() string {
	return t.raw
}

// Valid reports whether the token can still be used, with a small margin
// before the actual expiry.
func (t *RestToken) Valid() bool {
	return t.raw != "" && t.Exp >= time.Now().Unix()+restTokenValidityMargin
}

// String implements fmt.Stringer with the signature part of the raw token
// omitted.
func (t *RestToken) String() string {
	return fmt.Sprintf("RestToken{tenant: %s, endpoint: %s, exp: %d, raw: %s}",
		t.TenantID, t.Endpoint, t.Exp, stripSignature(t.raw))
}

// decodeJWTPayload splits a compact JWT and base64-decodes its payload
// segment without verifying the signature.
func decodeJWTPayload(rawToken string) ([]byte, error) {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return nil, &MalformedTokenError{Err: fmt.Errorf("expected 3 JWT segments, got %d", len(parts))}
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, &MalformedTokenError{Err: err}
	}

	return payload, nil
}

// stripSignature drops the signature segment so tokens can be logged
// without becoming replayable.
func stripSignature(rawToken string) string {
	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		return rawToken
	}
	return parts[0] + "." + parts[1]
}
