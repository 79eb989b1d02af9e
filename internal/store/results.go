package store

import "github.com/kachijames/intake/internal/api"

// CheckResult is the outcome of CheckUserExists.
type CheckResult struct {
	Success   bool
	Exists    bool
	User      api.Record
	Err       string
	Retryable bool
}

// RegisterResult is the outcome of RegisterTrainee.
type RegisterResult struct {
	Success   bool
	Message   string
	Data      api.Record
	Err       string
	Retryable bool
}

// StatsResult is the outcome of GetRegistrationStats.
type StatsResult struct {
	Success   bool
	Data      *api.Stats
	Err       string
	Retryable bool
}
