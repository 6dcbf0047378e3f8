package rest

import "github.com/aretw0/introspection"

// ClientState exposes internal state for observability.
type ClientState struct {
	BaseURL  string `json:"base_url"`
	Bound    bool   `json:"credential_source_bound"`
	Requests int    `json:"requests"`
	Failures int    `json:"failures"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return ClientState{
		BaseURL:  c.baseURL,
		Bound:    c.credentials != nil,
		Requests: c.requests,
		Failures: c.failures,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "transport"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
