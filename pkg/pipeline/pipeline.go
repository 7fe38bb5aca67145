// Package pipeline implements the HTTP request pipeline used for every
// outbound API call. A pipeline is an ordered chain of policies wrapping a
// terminal transport; each policy may inspect or rewrite the request, wrap
// the rest of the chain in a retry loop, or short-circuit entirely.
package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Next invokes the remainder of the chain, terminating in the transport.
type Next func(req *http.Request) (*http.Response, error)

// Policy is a named unit of request-processing behavior. A policy must be
// safe for concurrent use: it may hold configuration but no per-request
// state between Do calls.
type Policy interface {
	// ID returns the policy's identifier, unique within a pipeline.
	ID() string

	// Do processes the request. It may call next zero or more times.
	Do(req *http.Request, next Next) (*http.Response, error)
}

// Transport is the underlying primitive that performs a network request.
type Transport func(req *http.Request) (*http.Response, error)

// DefaultTransport returns a Transport backed by a pooled HTTP client.
func DefaultTransport() Transport {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return client.Do
}

// Pipeline is an ordered sequence of policies plus a terminal transport.
// Each API client owns its own instance; there is no process-wide pipeline.
// The policy list is the only pipeline-wide mutable state and is guarded by
// a mutex, so concurrent Execute calls are safe.
type Pipeline struct {
	mu        sync.RWMutex
	policies  []Policy
	transport Transport
}

// New creates a pipeline with the given transport and initial policies.
// A nil transport defaults to DefaultTransport.
func New(transport Transport, policies ...Policy) *Pipeline {
	if transport == nil {
		transport = DefaultTransport()
	}
	p := &Pipeline{transport: transport}
	for _, pol := range policies {
		p.AddPolicy(pol)
	}
	return p
}

// AddPolicy appends a policy to the end of the execution order.
func (p *Pipeline) AddPolicy(pol Policy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.policies = append(p.policies, pol)
}

// RemovePolicy removes the first policy whose id matches.
// It reports whether a policy was removed; an unknown id is a no-op.
func (p *Pipeline) RemovePolicy(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, pol := range p.policies {
		if pol.ID() == id {
			p.policies = append(p.policies[:i], p.policies[i+1:]...)
			return true
		}
	}
	return false
}

// RemovePolicyInstance removes the first policy matching by identity.
// It reports whether a policy was removed.
func (p *Pipeline) RemovePolicyInstance(pol Policy) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.policies {
		if existing == pol {
			p.policies = append(p.policies[:i], p.policies[i+1:]...)
			return true
		}
	}
	return false
}

// Policies returns a snapshot of the current policy list in execution order.
// Mutating the returned slice does not affect the pipeline.
func (p *Pipeline) Policies() []Policy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Policy, len(p.policies))
	copy(out, p.policies)
	return out
}

// PolicyByID returns the policy with the given id, or nil if absent.
func (p *Pipeline) PolicyByID(id string) Policy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, pol := range p.policies {
		if pol.ID() == id {
			return pol
		}
	}
	return nil
}

// Execute runs the full chain for a single request and returns the final
// response. The first-added policy is the outermost wrapper: it sees the
// request first and the response last. The policy set for a given call is
// the one registered at the moment Execute is invoked.
func (p *Pipeline) Execute(ctx context.Context, url string, opts Options) (*http.Response, error) {
	req, err := newRequest(ctx, url, opts)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	chain := make([]Policy, len(p.policies))
	copy(chain, p.policies)
	transport := p.transport
	p.mu.RUnlock()

	next := Next(transport)
	for i := len(chain) - 1; i >= 0; i-- {
		pol := chain[i]
		inner := next
		next = func(r *http.Request) (*http.Response, error) {
			return pol.Do(r, inner)
		}
	}
	return next(req)
}

// policyCounter feeds auto-generated policy ids.
var policyCounter atomic.Uint64

// newPolicyID generates a unique policy id from a monotonic counter plus a
// random suffix, so ids stay unique even across concurrent construction.
func newPolicyID(kind string) string {
	var suffix [4]byte
	// crypto/rand.Read never fails on supported platforms
	rand.Read(suffix[:])
	return fmt.Sprintf("%s-%d-%s", kind, policyCounter.Add(1), hex.EncodeToString(suffix[:]))
}

// policyFunc adapts a plain function into a Policy.
type policyFunc struct {
	id string
	fn func(req *http.Request, next Next) (*http.Response, error)
}

// NewPolicyFunc wraps fn as a Policy. An empty id is auto-generated.
func NewPolicyFunc(id string, fn func(req *http.Request, next Next) (*http.Response, error)) Policy {
	if id == "" {
		id = newPolicyID("policy")
	}
	return &policyFunc{id: id, fn: fn}
}

func (p *policyFunc) ID() string { return p.id }

func (p *policyFunc) Do(req *http.Request, next Next) (*http.Response, error) {
	return p.fn(req, next)
}
