package submission

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/kachijames/intake/internal/registration"
)

// ErrInFlight is returned by Submit while another attempt is running.
var ErrInFlight = errors.New("submission already in progress")

// Runner serialises attempts: at most one runs at a time.
type Runner struct {
	actions Actions
	running atomic.Bool
}

// NewRunner creates a Runner over a.
func NewRunner(a Actions) *Runner {
	return &Runner{actions: a}
}

// Submit runs one attempt, or returns ErrInFlight without touching the
// network when an attempt is already running.
func (r *Runner) Submit(ctx context.Context, d registration.Draft) (Result, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer r.running.Store(false)
	return Run(ctx, r.actions, d), nil
}

// InFlight reports whether an attempt is running.
func (r *Runner) InFlight() bool {
	return r.running.Load()
}
