package tracing

// Span attribute keys for registration service calls.
const (
	AttrOperation    = "registration.operation"
	AttrRequestID    = "http.request_id"
	AttrHTTPMethod   = "http.request.method"
	AttrURLPath      = "url.path"
	AttrStatusCode   = "http.response.status_code"
	AttrUserExists   = "registration.user_exists"
	AttrRetryable    = "registration.retryable"
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanPrefixAPI  = "api."
	SpanHTTPClient = "http.client"
)

// Event names for span events.
const (
	EventResponseDecoded = "response.decoded"
	EventTimedOut        = "request.timed_out"
)
