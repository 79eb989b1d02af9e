package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// Endpoint paths served by the fake registration service.
const (
	PathRegister  = "/api/training/register"
	PathCheckUser = "/api/training/check-user"
	PathStats     = "/api/training/stats"
)

// RegisterMessage is the message of a successful register reply.
const RegisterMessage = "Registration successful"

// Failure makes an endpoint answer with status and an optional message.
type Failure struct {
	Status  int
	Message string
	// Envelope answers 200 with success=false instead of Status.
	Envelope bool
}

// Server is an in-memory stand-in for the remote registration service.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	existing   map[string]bool
	failures   map[string]Failure
	delay      time.Duration
	stats      map[string]any
	tracks     any
	calls      map[string]int
	registered []map[string]any
	headers    []http.Header
	regMessage string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithExistingEmails seeds registered emails.
func WithExistingEmails(emails ...string) ServerOption {
	return func(s *Server) {
		for _, e := range emails {
			s.existing[strings.ToLower(e)] = true
		}
	}
}

// WithFailure makes path fail.
func WithFailure(path string, f Failure) ServerOption {
	return func(s *Server) { s.failures[path] = f }
}

// WithRegisterMessage sets the message of a successful register reply.
// An empty message is omitted from the body.
func WithRegisterMessage(msg string) ServerOption {
	return func(s *Server) { s.regMessage = msg }
}

// WithDelay delays every response.
func WithDelay(d time.Duration) ServerOption {
	return func(s *Server) { s.delay = d }
}

// WithStats sets the stats payload.
func WithStats(general map[string]any, tracks any) ServerOption {
	return func(s *Server) {
		s.stats = general
		s.tracks = tracks
	}
}

// NewServer starts a fake service that is closed when the test ends.
func NewServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	s := &Server{
		existing:   make(map[string]bool),
		failures:   make(map[string]Failure),
		calls:      make(map[string]int),
		regMessage: RegisterMessage,
		stats:      map[string]any{"total_registrations": 0},
		tracks:     []any{},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathRegister, s.handleRegister)
	mux.HandleFunc("POST "+PathCheckUser, s.handleCheckUser)
	mux.HandleFunc("GET "+PathStats, s.handleStats)

	s.Server = httptest.NewServer(s.wrap(mux))
	t.Cleanup(s.Close)
	return s
}

// Calls returns how many requests hit path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Registered returns the decoded register bodies received so far.
func (s *Server) Registered() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.registered))
	copy(out, s.registered)
	return out
}

// Headers returns the headers of every request received so far.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]http.Header, len(s.headers))
	copy(out, s.headers)
	return out
}

func (s *Server) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		s.headers = append(s.headers, r.Header.Clone())
		failure, failing := s.failures[r.URL.Path]
		delay := s.delay
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			if failure.Envelope {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": failure.Message})
				return
			}
			body := map[string]any{"success": false}
			if failure.Message != "" {
				body["message"] = failure.Message
			}
			writeJSON(w, failure.Status, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid JSON body"})
		return
	}
	email, _ := body["email"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existing[strings.ToLower(email)] {
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "User already registered"})
		return
	}
	s.existing[strings.ToLower(email)] = true
	s.registered = append(s.registered, body)

	resp := map[string]any{
		"success": true,
		"registration": map[string]any{
			"id":         len(s.registered),
			"email":      email,
			"first_name": body["first_name"],
			"last_name":  body["last_name"],
		},
	}
	if s.regMessage != "" {
		resp["message"] = s.regMessage
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCheckUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid JSON body"})
		return
	}

	s.mu.Lock()
	exists := s.existing[strings.ToLower(body.Email)]
	s.mu.Unlock()

	resp := map[string]any{"success": true, "exists": exists}
	if exists {
		resp["user"] = map[string]any{"email": body.Email}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"stats":           s.stats,
		"training_tracks": s.tracks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
