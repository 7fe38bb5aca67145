package pipeline

import (
	"bytes"
	"context"
	"net/http"
)

// Options describes an outbound request. All fields are optional; the
// zero value is a GET with no headers and no body.
//
// Headers may be supplied either as a plain string map or as a native
// http.Header; both are folded into one canonical representation before
// any policy runs, so policies only ever see http.Header.
type Options struct {
	Method  string
	Headers map[string]string
	Header  http.Header
	Body    []byte
}

// normalizeHeaders folds the two header representations into a single
// canonical http.Header. Values from the native collection win over the
// plain map when both name the same header.
func normalizeHeaders(opts Options) http.Header {
	h := make(http.Header, len(opts.Header)+len(opts.Headers))
	for k, vs := range opts.Header {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	for k, v := range opts.Headers {
		if h.Get(k) == "" {
			h.Set(k, v)
		}
	}
	return h
}

// newRequest builds the initial *http.Request for a pipeline run. Bodies
// are provided as byte slices so retry policies can replay them via GetBody.
func newRequest(ctx context.Context, url string, opts Options) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var req *http.Request
	var err error
	if len(opts.Body) > 0 {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(opts.Body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, err
	}

	for k, vs := range normalizeHeaders(opts) {
		req.Header[k] = vs
	}
	return req, nil
}
