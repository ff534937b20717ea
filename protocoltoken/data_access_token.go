package protocoltoken

import (
	"encoding/json"
	"fmt"
	"time"
)

// Default broker ports, used when the token does not carry any.
const (
	defaultPortMQTT = 8883
	defaultPortWSS  = 443
)

// DataAccessToken authenticates a single client to the DSH MQTT and HTTP
// brokers. Like RestToken it is the decoded, unverified JWT payload.
type DataAccessToken struct {
	Gen      int64             `json:"gen"`
	Endpoint string            `json:"endpoint"`
	Ports    Ports             `json:"ports"`
	Iss      string            `json:"iss"`
	Claims   []TopicPermission `json:"claims"`
	Exp      int64             `json:"exp"`
	ClientID string            `json:"client-id"`
	Iat      int64             `json:"iat"`
	TenantID string            `json:"tenant-id"`

	raw string
}

// Ports lists the broker ports the client may connect to, per protocol.
type Ports struct {
	MQTTS   []int `json:"mqtts"`
	MQTTWSS []int `json:"mqttwss"`
}

// ParseDataAccessToken decodes the payload of a raw JWT into a
// DataAccessToken.
func ParseDataAccessToken(rawToken string) (*DataAccessToken, error) {
	payload, err := decodeJWTPayload(rawToken)
	if err != nil {
		return nil, err
	}

	var token DataAccessToken
	if err := json.Unmarshal(payload, &token); err != nil {
		return nil, &MalformedTokenError{Err: err}
	}
	token.raw = rawToken

	return &token, nil
}

// EndpointWSS returns the websocket URL for the broker endpoint.
func (t *DataAccessToken) EndpointWSS() string {
	return "wss://" + t.Endpoint + "/mqtt"
}

// PortMQTT returns the broker port for the mqtt protocol.
func (t *DataAccessToken) PortMQTT() int {
	if len(t.Ports.MQTTS) == 0 {
		return defaultPortMQTT
	}
	return t.Ports.MQTTS[0]
}

// PortWSS returns the broker port for the websocket protocol.
func (t *DataAccessToken) PortWSS() int {
	if len(t.Ports.MQTTWSS) == 0 {
		return defaultPortWSS
	}
	return t.Ports.MQTTWSS[0]
}

// Raw returns the raw JWT as received from the platform.
func (t *DataAccessToken) Raw() string {
	return t.raw
}

// Valid reports whether the token can still be used, with a small margin
// before the actual expiry.
func (t *DataAccessToken) Valid() bool {
	return t.raw != "" && t.Exp >= time.Now().Unix()+restTokenValidityMargin
}

// String implements fmt.Stringer with the signature part of the raw token
// omitted.
func (t *DataAccessToken) String() string {
	return fmt.Sprintf("DataAccessToken{tenant: %s, client: %s, endpoint: %s, exp: %d, raw: %s}",
		t.TenantID, t.ClientID, t.Endpoint, t.Exp, stripSignature(t.raw))
}
