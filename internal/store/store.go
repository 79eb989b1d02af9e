// Package store holds the registration form state for one session: the
// draft being edited, request status, and the results of the last remote
// calls. It is safe for concurrent use.
package store

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/cachemanager"
	"github.com/kachijames/intake/internal/log"
	"github.com/kachijames/intake/internal/pubsub"
	"github.com/kachijames/intake/internal/registration"
)

// Service is the remote registration service.
type Service interface {
	Register(ctx context.Context, draft registration.Draft) (*api.RegisterResponse, error)
	CheckUser(ctx context.Context, email string) (*api.CheckUserResponse, error)
	Stats(ctx context.Context) (*api.Stats, error)
}

// State is a point-in-time copy of the store.
type State struct {
	Draft        registration.Draft
	Loading      bool
	Err          string
	Registration api.Record
	UserExists   bool
	Stats        *api.Stats
}

type statsKey string

const allStats statsKey = "stats:all"

// DefaultStatsTTL is how long fetched statistics are reused.
const DefaultStatsTTL = 30 * time.Second

// Store is the form state container.
type Store struct {
	mu       sync.RWMutex
	state    State
	inflight int

	svc      Service
	stats    *cachemanager.ReadThroughCache[statsKey, *api.Stats, struct{}]
	statsTTL time.Duration
	broker   *pubsub.Broker[Notification]
	notify   func(Notification)
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier registers a callback run synchronously for every
// notification, after the state has been updated.
func WithNotifier(fn func(Notification)) Option {
	return func(s *Store) { s.notify = fn }
}

// WithStatsTTL sets how long statistics are cached. Zero disables caching.
func WithStatsTTL(d time.Duration) Option {
	return func(s *Store) { s.statsTTL = d }
}

// New creates an empty store backed by svc.
func New(svc Service, opts ...Option) *Store {
	s := &Store{
		svc:      svc,
		statsTTL: DefaultStatsTTL,
		broker:   pubsub.NewBroker[Notification](),
	}
	for _, opt := range opts {
		opt(s)
	}

	cache := cachemanager.NewInMemoryCacheManager[statsKey, *api.Stats]("registration-stats", s.statsTTL, cachemanager.DefaultCleanupInterval)
	s.stats = cachemanager.NewReadThroughCache[statsKey, *api.Stats, struct{}](
		cache,
		func(ctx context.Context, _ struct{}) (*api.Stats, error) {
			return s.svc.Stats(ctx)
		},
		s.statsTTL <= 0,
	)
	return s
}

// Broker returns the notification broker. The TUI subscribes to it.
func (s *Store) Broker() *pubsub.Broker[Notification] {
	return s.broker
}

// Close shuts down the notification broker.
func (s *Store) Close() {
	s.broker.Close()
}

// ============================================================================
// Draft
// ============================================================================

// SetFields merges p into the draft without validating it. Keys that are
// not draft fields are ignored, a nil value clears its field, and a value
// that cannot be decoded leaves only its own field unchanged.
func (s *Store) SetFields(p registration.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unused, err := s.state.Draft.Merge(p)
	if err != nil {
		log.ErrorErr(log.CatStore, "patch values rejected", err, "keys", len(p))
	}
	if len(unused) > 0 {
		log.Warn(log.CatStore, "ignored unknown fields", "fields", unused)
	}
}

// ToggleSkill adds or removes value from the skill set under f.
func (s *Store) ToggleSkill(f registration.Field, value string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Draft.ToggleSkill(f, value, checked)
}

// ResetFields replaces the draft with the empty draft.
func (s *Store) ResetFields() {
	s.mu.Lock()
	s.state.Draft = registration.Draft{}
	s.mu.Unlock()
	log.Debug(log.CatStore, "draft reset")
}

// Reset clears every piece of state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = State{Loading: s.inflight > 0}
	s.mu.Unlock()

	log.Debug(log.CatStore, "store reset")
	s.broker.Publish(pubsub.ResetEvent, Notification{Level: LevelInfo, Message: MsgCleared})
}

// ClearError forgets the last recorded error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Err = ""
	s.mu.Unlock()
}

// Validate checks d for submission.
func (s *Store) Validate(d registration.Draft) registration.Result {
	return registration.Validate(d)
}

// ============================================================================
// Reads
// ============================================================================

// Snapshot returns a deep copy of the state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Draft = s.state.Draft.Clone()
	out.Registration = maps.Clone(s.state.Registration)
	return out
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() registration.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Draft.Clone()
}

// Loading reports whether a remote call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Err returns the last recorded error message.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err
}

// ============================================================================
// Remote operations
// ============================================================================

// CheckUserExists asks the service whether email is already registered.
// A duplicate is reported as an error notification; a free email is not
// announced.
func (s *Store) CheckUserExists(ctx context.Context, email string) CheckResult {
	s.begin()
	resp, err := s.svc.CheckUser(ctx, email)
	if err != nil {
		msg := api.Message(err, api.OpCheckUser)
		s.finish(msg)
		s.emit(pubsub.FailedEvent, Notification{Level: LevelError, Op: api.OpCheckUser, Message: msg})
		return CheckResult{Err: msg, Retryable: api.IsRetryable(err)}
	}

	s.mu.Lock()
	s.state.UserExists = resp.Exists
	s.mu.Unlock()
	s.finish("")

	log.Debug(log.CatStore, "duplicate check", "exists", resp.Exists)
	if resp.Exists {
		s.emit(pubsub.FailedEvent, Notification{Level: LevelError, Op: api.OpCheckUser, Message: DuplicateMessage(email)})
	}
	return CheckResult{Success: true, Exists: resp.Exists, User: resp.User}
}

// RegisterTrainee submits d. On success the draft is reset and cached
// statistics are dropped; on failure the draft is left untouched.
func (s *Store) RegisterTrainee(ctx context.Context, d registration.Draft) RegisterResult {
	s.begin()
	resp, err := s.svc.Register(ctx, d)
	if err != nil {
		msg := api.Message(err, api.OpRegister)
		s.finish(msg)
		s.emit(pubsub.FailedEvent, Notification{Level: LevelError, Op: api.OpRegister, Message: msg})
		return RegisterResult{Err: msg, Retryable: api.IsRetryable(err)}
	}

	s.mu.Lock()
	s.state.Registration = maps.Clone(resp.Registration)
	s.state.Draft = registration.Draft{}
	s.state.UserExists = false
	s.mu.Unlock()
	s.finish("")

	if err := s.stats.Invalidate(ctx, allStats); err != nil {
		log.ErrorErr(log.CatCache, "stats invalidation failed", err)
	}

	msg := resp.Message
	if msg == "" {
		msg = MsgRegistered
	}
	log.Info(log.CatStore, "trainee registered", "email", d.Email)
	s.emit(pubsub.SucceededEvent, Notification{Level: LevelSuccess, Op: api.OpRegister, Message: msg})
	return RegisterResult{Success: true, Message: msg, Data: maps.Clone(resp.Registration)}
}

// GetRegistrationStats returns registration statistics, reusing a recent
// result when one is cached.
func (s *Store) GetRegistrationStats(ctx context.Context) StatsResult {
	s.begin()
	stats, err := s.stats.Get(ctx, allStats, struct{}{}, s.statsTTL)
	if err != nil {
		msg := api.Message(err, api.OpStats)
		s.finish(msg)
		s.emit(pubsub.FailedEvent, Notification{Level: LevelError, Op: api.OpStats, Message: msg})
		return StatsResult{Err: msg, Retryable: api.IsRetryable(err)}
	}

	s.mu.Lock()
	s.state.Stats = stats
	s.mu.Unlock()
	s.finish("")
	return StatsResult{Success: true, Data: stats}
}

// begin marks a call in flight and clears the previous error.
func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.state.Loading = true
	s.state.Err = ""
}

// finish marks a call done and records errMsg when non-empty.
func (s *Store) finish(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}
	s.state.Loading = s.inflight > 0
	if errMsg != "" {
		s.state.Err = errMsg
	}
}

func (s *Store) emit(t pubsub.EventType, n Notification) {
	if s.notify != nil {
		s.notify(n)
	}
	s.broker.Publish(t, n)
}
