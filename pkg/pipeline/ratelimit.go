package pipeline

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimitPolicy throttles outbound requests per destination host so a
// burst of tool calls cannot exceed the provider's usage policy. Each host
// gets its own token bucket, created on first use.
type RateLimitPolicy struct {
	id    string
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimitPolicy creates a rate-limit policy allowing rps requests per
// second with the given burst per host.
func NewRateLimitPolicy(rps float64, burst int) *RateLimitPolicy {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitPolicy{
		id:       newPolicyID("rate-limit"),
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// ID returns the policy id.
func (p *RateLimitPolicy) ID() string { return p.id }

// Do blocks until the host's limiter allows the request or the context is
// canceled, then invokes the rest of the chain.
func (p *RateLimitPolicy) Do(req *http.Request, next Next) (*http.Response, error) {
	if err := p.limiterFor(req.URL.Host).Wait(req.Context()); err != nil {
		return nil, err
	}
	return next(req)
}

func (p *RateLimitPolicy) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[host]
	if !ok {
		l = rate.NewLimiter(p.rps, p.burst)
		p.limiters[host] = l
	}
	return l
}
