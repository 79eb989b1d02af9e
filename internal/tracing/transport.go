package tracing

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Transport is an http.RoundTripper that records a client span per request
// and stamps the request id header.
type Transport struct {
	base   http.RoundTripper
	tracer trace.Tracer
}

// NewTransport wraps base. A nil base uses http.DefaultTransport; a nil
// tracer only stamps the request id.
func NewTransport(base http.RoundTripper, tracer trace.Tracer) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, tracer: tracer}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	id := RequestIDFromContext(ctx)
	if id == "" {
		id = NewRequestID()
	}

	req = req.Clone(ctx)
	req.Header.Set(RequestIDHeader, id)

	if t.tracer == nil {
		return t.base.RoundTrip(req)
	}

	ctx, span := t.tracer.Start(ctx, SpanHTTPClient,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHTTPMethod, req.Method),
			attribute.String(AttrURLPath, req.URL.Path),
			attribute.String(AttrRequestID, id),
		),
	)
	defer span.End()

	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(AttrStatusCode, resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}
	return resp, nil
}
