// Package platform enumerates the available DSH deployments and the
// endpoints and realms that belong to them.
//
// A Platform value is the entry point for everything that needs to know
// where to authenticate: token fetchers derive their endpoint URLs and
// robot client IDs from it.
package platform

import "fmt"

// Platform identifies a DSH deployment.
type Platform string

const (
	// Prod is the production platform (kpn-dsh.com).
	Prod Platform = "prod"
	// ProdAz is the production platform on Azure (az.kpn-dsh.com).
	ProdAz Platform = "prod-az"
	// ProdLz is the production landing zone on AWS (dsh-prod.dsh.prod.aws.kpn.com).
	ProdLz Platform = "prod-lz"
	// NpLz is the non-production (dev) landing zone on AWS (dsh-dev.dsh.np.aws.kpn.com).
	NpLz Platform = "np-lz"
	// Poc is the proof-of-concept platform (poc.kpn-dsh.com).
	Poc Platform = "poc"
)

// Parse converts a configuration string such as "np-lz" into a Platform.
func Parse(s string) (Platform, error) {
	switch Platform(s) {
	case Prod, ProdAz, ProdLz, NpLz, Poc:
		return Platform(s), nil
	}
	return "", fmt.Errorf("platform: unknown platform %q", s)
}

// Realm returns the authentication realm for the platform.
func (p Platform) Realm() string {
	switch p {
	case Prod:
		return "tt-dsh"
	case ProdAz:
		return "prod-azure-dsh"
	case ProdLz:
		return "prod-lz-dsh"
	case NpLz:
		return "dev-lz-dsh"
	case Poc:
		return "poc-dsh"
	}
	return ""
}

// ClientID returns the robot client ID for a tenant on this platform,
// formatted as "robot:{realm}:{tenant}".
func (p Platform) ClientID(tenant string) string {
	return fmt.Sprintf("robot:%s:%s", p.Realm(), tenant)
}

// EndpointRestAPI returns the base URL of the management (REST) API.
func (p Platform) EndpointRestAPI() string {
	switch p {
	case Prod:
		return "https://api.kpn-dsh.com/resources/v0"
	case ProdAz:
		return "https://api.az.kpn-dsh.com/resources/v0"
	case ProdLz:
		return "https://api.dsh-prod.dsh.prod.aws.kpn.com/resources/v0"
	case NpLz:
		return "https://api.dsh-dev.dsh.np.aws.kpn.com/resources/v0"
	case Poc:
		return "https://api.poc.kpn-dsh.com/resources/v0"
	}
	return ""
}

// EndpointManagementAPIToken returns the endpoint that issues management
// API access tokens via the client-credentials grant.
func (p Platform) EndpointManagementAPIToken() string {
	switch p {
	case Prod:
		return "https://api.kpn-dsh.com/auth/v0/token"
	case ProdAz:
		return "https://api.az.kpn-dsh.com/auth/v0/token"
	case ProdLz:
		return "https://api.dsh-prod.dsh.prod.aws.kpn.com/auth/v0/token"
	case NpLz:
		return "https://api.dsh-dev.dsh.np.aws.kpn.com/auth/v0/token"
	case Poc:
		return "https://api.poc.kpn-dsh.com/auth/v0/token"
	}
	return ""
}

// EndpointProtocolRestToken returns the endpoint that issues REST tokens
// for the protocol adapters. The auth service serves both management and
// protocol REST tokens on the same path.
func (p Platform) EndpointProtocolRestToken() string {
	return p.EndpointManagementAPIToken()
}

// EndpointProtocolToken returns the endpoint that issues data access
// tokens for the protocol adapters (MQTT and HTTP brokers).
func (p Platform) EndpointProtocolToken() string {
	switch p {
	case Prod:
		return "https://api.kpn-dsh.com/datastreams/v0/mqtt/token"
	case ProdAz:
		return "https://api.az.kpn-dsh.com/datastreams/v0/mqtt/token"
	case ProdLz:
		return "https://api.dsh-prod.dsh.prod.aws.kpn.com/datastreams/v0/mqtt/token"
	case NpLz:
		return "https://api.dsh-dev.dsh.np.aws.kpn.com/datastreams/v0/mqtt/token"
	case Poc:
		return "https://api.poc.kpn-dsh.com/datastreams/v0/mqtt/token"
	}
	return ""
}

// EndpointAccessToken returns the OpenID Connect token endpoint of the
// platform's authentication realm.
func (p Platform) EndpointAccessToken() string {
	switch p {
	case Prod:
		return "https://auth.prod.cp.kpn-dsh.com/auth/realms/tt-dsh/protocol/openid-connect/token"
	case ProdAz:
		return "https://auth.prod.cp.kpn-dsh.com/auth/realms/prod-azure-dsh/protocol/openid-connect/token"
	case ProdLz:
		return "https://auth.prod.cp-prod.dsh.prod.aws.kpn.com/auth/realms/prod-lz-dsh/protocol/openid-connect/token"
	case NpLz:
		return "https://auth.prod.cp-prod.dsh.prod.aws.kpn.com/auth/realms/dev-lz-dsh/protocol/openid-connect/token"
	case Poc:
		return "https://auth.prod.cp.kpn-dsh.com/auth/realms/poc-dsh/protocol/openid-connect/token"
	}
	return ""
}
