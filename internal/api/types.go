package api

import (
	"fmt"
	"sort"
)

// Endpoint paths on the registration service.
const (
	PathRegister  = "/api/training/register"
	PathCheckUser = "/api/training/check-user"
	PathStats     = "/api/training/stats"
)

// Operation names a remote call.
type Operation string

const (
	OpRegister  Operation = "register"
	OpCheckUser Operation = "check_user"
	OpStats     Operation = "stats"
)

// Fallback returns the message shown when the service gives none.
func (op Operation) Fallback() string {
	switch op {
	case OpRegister:
		return "Registration failed"
	case OpCheckUser:
		return "Failed to check user existence"
	case OpStats:
		return "Failed to fetch registration statistics"
	default:
		return "Request failed"
	}
}

// Envelope is the common response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (e Envelope) ok() bool        { return e.Success }
func (e Envelope) message() string { return e.Message }

// Record is a server-shaped object whose fields the client does not own.
type Record map[string]any

// String returns the value under key formatted for display.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

// Keys returns the record's keys sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegisterResponse is the body of a register call.
type RegisterResponse struct {
	Envelope
	Registration Record `json:"registration,omitempty"`
}

// CheckUserResponse is the body of a duplicate check.
type CheckUserResponse struct {
	Envelope
	Exists bool   `json:"exists"`
	User   Record `json:"user,omitempty"`
}

// StatsResponse is the body of a stats call.
type StatsResponse struct {
	Envelope
	Stats          Record `json:"stats,omitempty"`
	TrainingTracks any    `json:"training_tracks,omitempty"`
}

// Stats is the aggregate registration data kept by the client.
type Stats struct {
	General        Record
	TrainingTracks any
}

type checkUserRequest struct {
	Email string `json:"email"`
}
