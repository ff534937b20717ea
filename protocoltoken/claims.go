package protocoltoken

// Claims carries the endpoint restrictions of a RestToken. An empty claim
// set grants full access to all endpoints for the tenant.
type Claims struct {
	MQTTTokenClaim DatastreamsMqttTokenClaim `json:"datastreams/v0/mqtt/token"`
}

// DatastreamsMqttTokenClaim restricts what the "datastreams/v0/mqtt/token"
// endpoint may issue with the RestToken carrying it.
type DatastreamsMqttTokenClaim struct {
	// ID is the external client ID the token is restricted to.
	ID string `json:"id,omitempty"`
	// Tenant is the tenant name.
	Tenant string `json:"tenant,omitempty"`
	// RelExp is the maximum lifetime in seconds for data access tokens
	// requested with the RestToken, relative to the moment of that request.
	RelExp int64 `json:"relexp,omitempty"`
	// Exp is the requested expiration time in seconds since the UNIX epoch.
	Exp int64 `json:"exp,omitempty"`
}

// Action is the permission side of a TopicPermission.
type Action string

const (
	ActionPublish   Action = "publish"
	ActionSubscribe Action = "subscribe"
)

// TopicPermission grants a single publish or subscribe permission on a
// topic pattern within a data stream.
type TopicPermission struct {
	Action   Action   `json:"action"`
	Resource Resource `json:"resource"`
}

// Resource identifies the data stream and topic pattern a TopicPermission
// applies to. Type is always "topic".
type Resource struct {
	Type   string `json:"type"`
	Stream string `json:"stream"`
	Prefix string `json:"prefix"`
	Topic  string `json:"topic"`
}

// NewTopicPermission builds a TopicPermission for a topic resource.
//
// Arguments: the action (publish or subscribe), the data stream name
// (e.g. "weather"), the topic prefix (e.g. "/tt") and the topic pattern
// (e.g. "+/+/+/something/#").
func NewTopicPermission(action Action, stream, prefix, topicPattern string) TopicPermission {
	return TopicPermission{
		Action: action,
		Resource: Resource{
			Type:   "topic",
			Stream: stream,
			Prefix: prefix,
			Topic:  topicPattern,
		},
	}
}

// FullQualifiedTopicName returns "{prefix}/{stream}/{topic}".
func (p TopicPermission) FullQualifiedTopicName() string {
	return p.Resource.Prefix + "/" + p.Resource.Stream + "/" + p.Resource.Topic
}
