package pipeline

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

// stubTransport returns canned responses in sequence and records each
// request it receives.
type stubTransport struct {
	mu       sync.Mutex
	statuses []int
	errs     []error
	calls    int
	requests []*http.Request
}

func (s *stubTransport) do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	s.requests = append(s.requests, req)

	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	status := http.StatusOK
	if i < len(s.statuses) {
		status = s.statuses[i]
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("body")),
		Request:    req,
	}, nil
}

func (s *stubTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestExecuteOrdering(t *testing.T) {
	stub := &stubTransport{}
	p := New(stub.do)

	var mu sync.Mutex
	var events []string
	record := func(name string) Policy {
		return NewPolicyFunc(name, func(req *http.Request, next Next) (*http.Response, error) {
			mu.Lock()
			events = append(events, name+":in")
			mu.Unlock()
			resp, err := next(req)
			mu.Lock()
			events = append(events, name+":out")
			mu.Unlock()
			return resp, err
		})
	}

	p.AddPolicy(record("first"))
	p.AddPolicy(record("second"))
	p.AddPolicy(record("third"))

	resp, err := p.Execute(context.Background(), "http://example.test/", Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	resp.Body.Close()

	want := []string{"first:in", "second:in", "third:in", "third:out", "second:out", "first:out"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(want), events)
	}
	for i, e := range want {
		if events[i] != e {
			t.Errorf("event %d = %q, want %q", i, events[i], e)
		}
	}
}

func TestPolicyManagement(t *testing.T) {
	p := New((&stubTransport{}).do)

	a := NewPolicyFunc("a", passthrough)
	b := NewPolicyFunc("b", passthrough)
	c := NewPolicyFunc("c", passthrough)
	p.AddPolicy(a)
	p.AddPolicy(b)
	p.AddPolicy(c)

	if got := p.Policies(); len(got) != 3 || got[2].ID() != "c" {
		t.Fatalf("Policies() = %v, want [a b c]", ids(got))
	}

	// Mutating the snapshot must not affect the pipeline.
	snapshot := p.Policies()
	snapshot[0] = c
	if p.Policies()[0].ID() != "a" {
		t.Error("mutating snapshot changed pipeline order")
	}

	if got := p.PolicyByID("b"); got != b {
		t.Errorf("PolicyByID(b) = %v, want b", got)
	}
	if got := p.PolicyByID("missing"); got != nil {
		t.Errorf("PolicyByID(missing) = %v, want nil", got)
	}

	if !p.RemovePolicy("b") {
		t.Error("RemovePolicy(b) = false, want true")
	}
	if got := ids(p.Policies()); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("after remove, policies = %v, want [a c]", got)
	}
	if p.RemovePolicy("b") {
		t.Error("RemovePolicy on absent id should be a no-op returning false")
	}

	if !p.RemovePolicyInstance(a) {
		t.Error("RemovePolicyInstance(a) = false, want true")
	}
	if got := ids(p.Policies()); len(got) != 1 || got[0] != "c" {
		t.Errorf("after instance remove, policies = %v, want [c]", got)
	}
}

func TestAutoIDUniqueness(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		pol := NewPolicyFunc("", passthrough)
		if seen[pol.ID()] {
			t.Fatalf("duplicate auto-generated id %q at iteration %d", pol.ID(), i)
		}
		seen[pol.ID()] = true
	}
}

func TestExecuteDefaultsToGet(t *testing.T) {
	stub := &stubTransport{}
	p := New(stub.do)

	resp, err := p.Execute(context.Background(), "http://example.test/", Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	resp.Body.Close()

	if got := stub.requests[0].Method; got != http.MethodGet {
		t.Errorf("default method = %q, want GET", got)
	}
}

func TestExecuteConcurrent(t *testing.T) {
	stub := &stubTransport{}
	p := New(stub.do, NewUserAgentPolicy("Agent/1.0"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := p.Execute(context.Background(), "http://example.test/", Options{})
			if err != nil {
				t.Errorf("Execute() error = %v", err)
				return
			}
			resp.Body.Close()
		}()
	}
	wg.Wait()

	if got := stub.callCount(); got != 16 {
		t.Errorf("transport calls = %d, want 16", got)
	}
}

func passthrough(req *http.Request, next Next) (*http.Response, error) {
	return next(req)
}

func ids(policies []Policy) []string {
	out := make([]string, len(policies))
	for i, p := range policies {
		out[i] = p.ID()
	}
	return out
}
