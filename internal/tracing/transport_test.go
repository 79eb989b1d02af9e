package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder, tp
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTransport_StampsRequestIDAndRecordsSpan(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	recorder, tp := recordingTracer(t)
	client := &http.Client{Transport: NewTransport(nil, tp.Tracer("test"))}

	ctx := ContextWithRequestID(context.Background(), "req-42")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/training/stats", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "req-42", gotID)
	require.Empty(t, req.Header.Get(RequestIDHeader), "caller's request must not be mutated")

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, SpanHTTPClient, span.Name())
	require.Equal(t, codes.Error, span.Status().Code)

	status, ok := attrValue(span.Attributes(), AttrStatusCode)
	require.True(t, ok)
	require.Equal(t, int64(500), status.AsInt64())
	path, _ := attrValue(span.Attributes(), AttrURLPath)
	require.Equal(t, "/api/training/stats", path.AsString())
}

func TestTransport_GeneratesRequestIDWithoutTracer(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewTransport(nil, nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, gotID, 36)
}

func TestTransport_RecordsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	recorder, tp := recordingTracer(t)
	client := &http.Client{Transport: NewTransport(nil, tp.Tracer("test"))}

	_, err := client.Get(url)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
