// Package submission runs one registration attempt: validate the draft,
// check the email is not already registered, then submit. Each stage
// short-circuits the rest on failure.
package submission

import (
	"context"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/store"
)

// Stage is where an attempt stopped.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageCheckingDuplicate
	StageSubmitting
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageCheckingDuplicate:
		return "checking_duplicate"
	case StageSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Outcome is how an attempt ended.
type Outcome int

const (
	OutcomeSubmitted Outcome = iota
	OutcomeInvalid
	OutcomeDuplicate
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MsgDuplicateEmail annotates the email field when it is already registered.
const MsgDuplicateEmail = "A user with this email already exists"

// Actions are the store operations an attempt needs.
type Actions interface {
	Validate(d registration.Draft) registration.Result
	CheckUserExists(ctx context.Context, email string) store.CheckResult
	RegisterTrainee(ctx context.Context, d registration.Draft) store.RegisterResult
}

var _ Actions = (*store.Store)(nil)

// Result describes one finished attempt.
type Result struct {
	Stage        Stage
	Outcome      Outcome
	Message      string
	FieldErrors  registration.FieldErrors
	Registration api.Record
	Retryable    bool
}

// Succeeded reports whether the draft was registered.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSubmitted
}

// Run validates d, checks for a duplicate and submits. Validation failures
// never reach the network; a duplicate or a failed check never submits.
func Run(ctx context.Context, a Actions, d registration.Draft) Result {
	log.Debug(log.CatForm, "submission started", "stage", StageValidating)

	v := a.Validate(d)
	if !v.Valid {
		log.Debug(log.CatForm, "submission invalid", "reason", v.Reason, "message", v.Message)
		return Result{
			Stage:       StageValidating,
			Outcome:     OutcomeInvalid,
			Message:     v.Message,
			FieldErrors: v.Errors.With(registration.FieldGeneral, v.Message),
		}
	}

	check := a.CheckUserExists(ctx, d.Email)
	if !check.Success {
		log.Warn(log.CatForm, "duplicate check failed", "error", check.Err, "retryable", check.Retryable)
		return Result{
			Stage:       StageCheckingDuplicate,
			Outcome:     OutcomeFailed,
			Message:     check.Err,
			FieldErrors: registration.FieldErrors{registration.FieldGeneral: check.Err},
			Retryable:   check.Retryable,
		}
	}
	if check.Exists {
		log.Debug(log.CatForm, "duplicate email", "email", d.Email)
		return Result{
			Stage:       StageCheckingDuplicate,
			Outcome:     OutcomeDuplicate,
			Message:     MsgDuplicateEmail,
			FieldErrors: registration.FieldErrors{registration.FieldEmail: MsgDuplicateEmail},
		}
	}

	reg := a.RegisterTrainee(ctx, d)
	if !reg.Success {
		log.Warn(log.CatForm, "registration failed", "error", reg.Err, "retryable", reg.Retryable)
		return Result{
			Stage:       StageSubmitting,
			Outcome:     OutcomeFailed,
			Message:     reg.Err,
			FieldErrors: registration.FieldErrors{registration.FieldGeneral: reg.Err},
			Retryable:   reg.Retryable,
		}
	}

	log.Info(log.CatForm, "submission complete", "email", d.Email)
	return Result{
		Stage:        StageSubmitting,
		Outcome:      OutcomeSubmitted,
		Message:      reg.Message,
		Registration: reg.Data,
	}
}
