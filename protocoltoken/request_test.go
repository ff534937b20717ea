package protocoltoken

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateClientID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "client-12345"},
		{name: "all allowed specials", id: "ABCDEFasbcdef1234567890@-_.:"},
		{name: "empty", id: ""},
		{name: "exactly 64 characters", id: strings.Repeat("a", 64)},
		{name: "space", id: "client A", wantErr: true},
		{name: "newline", id: "client\nA", wantErr: true},
		{name: "punctuation", id: "!", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClientID(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValidateClientID(%q) expected error, got nil", tt.id)
				}
				var clientIDErr *ClientIDError
				if !errors.As(err, &clientIDErr) {
					t.Errorf("expected ClientIDError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateClientID(%q) failed: %v", tt.id, err)
			}
		})
	}
}

func TestRequestRestToken_ClientID(t *testing.T) {
	request := NewRequestRestToken("my-tenant")
	if request.ClientID() != "my-tenant" {
		t.Errorf("unrestricted request should fall back to the tenant, got %q", request.ClientID())
	}

	request.Claims = &Claims{MQTTTokenClaim: DatastreamsMqttTokenClaim{ID: "device-1"}}
	if request.ClientID() != "device-1" {
		t.Errorf("expected claim ID to win, got %q", request.ClientID())
	}
}

func TestRequestRestToken_CacheKey(t *testing.T) {
	a := NewRequestRestToken("my-tenant")
	b := NewRequestRestToken("my-tenant")
	if a.cacheKey() != b.cacheKey() {
		t.Error("identical requests should share a cache key")
	}

	// The requested expiration time never influences the key.
	b.Exp = 12345
	if a.cacheKey() != b.cacheKey() {
		t.Error("exp should not influence the cache key")
	}

	c := NewRequestRestToken("other-tenant")
	if a.cacheKey() == c.cacheKey() {
		t.Error("different tenants should not share a cache key")
	}

	d := NewRequestRestToken("my-tenant")
	d.Claims = &Claims{MQTTTokenClaim: DatastreamsMqttTokenClaim{ID: "device-1"}}
	if a.cacheKey() == d.cacheKey() {
		t.Error("a restricted request should not share the unrestricted key")
	}
}

func TestRequestDataAccessToken_CacheKey(t *testing.T) {
	a := NewRequestDataAccessToken("my-tenant", "device-1")
	b := NewRequestDataAccessToken("my-tenant", "device-1")
	if a.cacheKey() != b.cacheKey() {
		t.Error("identical requests should share a cache key")
	}

	b.Exp = 12345
	if a.cacheKey() != b.cacheKey() {
		t.Error("exp should not influence the cache key")
	}

	c := NewRequestDataAccessToken("my-tenant", "device-2")
	if a.cacheKey() == c.cacheKey() {
		t.Error("different client IDs should not share a cache key")
	}

	d := NewRequestDataAccessToken("my-tenant", "device-1")
	d.Claims = []TopicPermission{NewTopicPermission(ActionSubscribe, "test", "/tt", "#")}
	if a.cacheKey() == d.cacheKey() {
		t.Error("different claims should not share a cache key")
	}

	e := NewRequestDataAccessToken("my-tenant", "device-1")
	e.DSHCLC = map[string]any{"purpose": "demo"}
	if a.cacheKey() == e.cacheKey() {
		t.Error("different dshclc values should not share a cache key")
	}
}
