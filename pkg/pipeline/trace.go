package pipeline

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracePolicy records an OpenTelemetry client span around each request:
// method, URL, status and duration, plus a per-call correlation id. It emits
// telemetry only and never alters request or response content, so it is
// typically registered as the outermost policy to observe the full retry
// loop as one span.
type TracePolicy struct {
	id     string
	tracer trace.Tracer
}

// NewTracePolicy creates a tracing policy using the global tracer provider.
func NewTracePolicy() *TracePolicy {
	return &TracePolicy{
		id:     newPolicyID("trace"),
		tracer: otel.Tracer("github.com/mapgrid/mapmcp/pkg/pipeline"),
	}
}

// ID returns the policy id.
func (p *TracePolicy) ID() string { return p.id }

// Do wraps the rest of the chain in a span.
func (p *TracePolicy) Do(req *http.Request, next Next) (*http.Response, error) {
	ctx, span := p.tracer.Start(req.Context(), "pipeline.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
			attribute.String("request.correlation_id", uuid.NewString()),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := next(req.WithContext(ctx))
	span.SetAttributes(attribute.Int64("duration_ms", time.Since(start).Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}
