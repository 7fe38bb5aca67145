package pipeline

import "net/http"

// UserAgentPolicy injects a User-Agent header into every outgoing request
// unless the caller already supplied one.
type UserAgentPolicy struct {
	id    string
	agent string
}

// NewUserAgentPolicy creates a user-agent policy for the given agent string.
func NewUserAgentPolicy(agent string) *UserAgentPolicy {
	return &UserAgentPolicy{
		id:    newPolicyID("user-agent"),
		agent: agent,
	}
}

// ID returns the policy id.
func (p *UserAgentPolicy) ID() string { return p.id }

// Do sets the User-Agent header if absent. The lookup is case-insensitive
// since http.Header canonicalizes field names.
func (p *UserAgentPolicy) Do(req *http.Request, next Next) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", p.agent)
	}
	return next(req)
}
