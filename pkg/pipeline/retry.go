package pipeline

import (
	"io"
	"math/rand/v2"
	"net/http"
	"time"
)

const (
	// DefaultMaxRetries is the default attempt budget beyond the first call.
	DefaultMaxRetries = 3

	// DefaultInitialDelay is the default first backoff delay.
	DefaultInitialDelay = 250 * time.Millisecond

	// DefaultMaxDelay is the default backoff cap.
	DefaultMaxDelay = 5 * time.Second
)

// RetryPolicy retries transient failures with exponential backoff.
//
// Retryable outcomes are HTTP 429, any 5xx status, and transport-level
// errors. Other 4xx statuses are caller errors and are returned after a
// single call. When the attempt budget is exhausted the last response (or
// the last transport error) is returned as-is; no synthetic error wraps it,
// so callers must inspect the status themselves.
type RetryPolicy struct {
	id string

	// MaxRetries is the number of attempts beyond the first call.
	MaxRetries int

	// InitialDelay is the backoff before the first retry. It doubles on
	// each subsequent retry, capped at MaxDelay.
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
}

// NewRetryPolicy creates a retry policy. Non-positive parameters fall back
// to the package defaults.
func NewRetryPolicy(maxRetries int, initialDelay, maxDelay time.Duration) *RetryPolicy {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	if maxDelay < initialDelay {
		maxDelay = DefaultMaxDelay
	}
	return &RetryPolicy{
		id:           newPolicyID("retry"),
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
	}
}

// ID returns the policy id.
func (p *RetryPolicy) ID() string { return p.id }

// Do runs the rest of the chain up to 1+MaxRetries times.
func (p *RetryPolicy) Do(req *http.Request, next Next) (*http.Response, error) {
	delay := p.InitialDelay
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if sleepErr := sleepContext(req, jittered(delay, p.MaxDelay)); sleepErr != nil {
				return nil, sleepErr
			}
			delay = min(delay*2, p.MaxDelay)

			var rewindErr error
			req, rewindErr = rewind(req)
			if rewindErr != nil {
				return nil, rewindErr
			}
		}

		r, e := next(req)
		if e != nil {
			// Transport-level failure, retryable up to the budget.
			resp, err = nil, e
			continue
		}
		if !retryableStatus(r.StatusCode) {
			return r, nil
		}
		resp, err = r, nil
		if attempt < p.MaxRetries {
			// Free the connection before the next attempt; the final
			// retryable response is handed back unread.
			drain(r)
		}
	}
	return resp, err
}

// retryableStatus reports whether a status is transient: rate limiting or
// any server-side error. Other 4xx are caller errors.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// jittered adds up to 25% random jitter to avoid synchronized retry storms
// across concurrent callers, keeping the result under the cap.
func jittered(d, limit time.Duration) time.Duration {
	d += time.Duration(rand.Int64N(int64(d)/4 + 1))
	return min(d, limit)
}

// sleepContext sleeps for d or until the request context is canceled.
func sleepContext(req *http.Request, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-req.Context().Done():
		return req.Context().Err()
	}
}

// rewind resets the request body before a retry. Requests built by the
// pipeline carry GetBody, so bodies are always replayable.
func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.GetBody == nil {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return req, err
	}
	req.Body = body
	return req, nil
}

// drain discards and closes a response body so the underlying connection
// can be reused.
func drain(resp *http.Response) {
	if resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
