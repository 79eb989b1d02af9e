package store

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/pubsub"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/testutil"
)

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) record(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

func newStore(t *testing.T, srv *testutil.Server, opts ...Option) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithNotifier(rec.record)}, opts...)
	s := New(api.NewClient(srv.URL, api.WithTimeout(2*time.Second)), opts...)
	t.Cleanup(s.Close)
	return s, rec
}

// ============================================================================
// Draft mutations
// ============================================================================

func TestStore_StartsEmpty(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))

	snap := s.Snapshot()
	require.True(t, snap.Draft.IsEmpty())
	require.False(t, snap.Loading)
	require.Empty(t, snap.Err)
	require.Nil(t, snap.Registration)
	require.Nil(t, snap.Stats)
}

func TestStore_SetFields_Merges(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))

	s.SetFields(registration.Patch{"first_name": "Ada"})
	s.SetFields(registration.Patch{"last_name": "Obi", "graduation_year": 2019})
	s.SetFields(registration.Patch{"not_a_field": "x"})

	d := s.Draft()
	require.Equal(t, "Ada", d.FirstName)
	require.Equal(t, "Obi", d.LastName)
	require.Equal(t, "2019", d.GraduationYear)
}

func TestStore_SetFields_BadValueLeavesDraft(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))
	s.SetFields(registration.Patch{"first_name": "Ada"})

	s.SetFields(registration.Patch{"first_name": map[string]any{"nested": true}})

	require.Equal(t, "Ada", s.Draft().FirstName)
}

func TestStore_SetFields_BadValueKeepsOtherKeys(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))
	s.SetFields(registration.Patch{"email": "ada@example.com"})

	s.SetFields(registration.Patch{
		"email":     map[string]any{"nested": true},
		"last_name": "Obi",
	})

	d := s.Draft()
	require.Equal(t, "ada@example.com", d.Email)
	require.Equal(t, "Obi", d.LastName)
}

func TestStore_SetFields_NilClears(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))
	s.SetFields(registration.Patch{"email": "ada@example.com", "frameworks": []string{"React"}})

	s.SetFields(registration.Patch{"email": nil, "frameworks": nil})

	d := s.Draft()
	require.Empty(t, d.Email)
	require.Empty(t, d.Frameworks)
}

func TestStore_SetFields_NoValidation(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))

	s.SetFields(registration.Patch{"email": "not-an-email"})

	require.Equal(t, "not-an-email", s.Draft().Email)
	require.Empty(t, s.Err())
}

func TestStore_ResetFields(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))
	s.SetFields(registration.Patch{"first_name": "Ada", "programming_languages": []string{"Go"}})

	s.ResetFields()

	require.True(t, s.Draft().IsEmpty())
}

func TestStore_ToggleSkill(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))

	require.NoError(t, s.ToggleSkill(registration.FieldProgrammingLanguages, "Go", true))
	require.NoError(t, s.ToggleSkill(registration.FieldProgrammingLanguages, "Go", true))
	require.Equal(t, registration.SkillSet{"Go"}, s.Draft().ProgrammingLanguages)

	require.NoError(t, s.ToggleSkill(registration.FieldProgrammingLanguages, "Go", false))
	require.Empty(t, s.Draft().ProgrammingLanguages)

	require.ErrorIs(t, s.ToggleSkill(registration.FieldEmail, "x", true), registration.ErrNotSkillField)
}

func TestStore_ToggleSkill_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		defer s.Close()

		catalog := registration.Catalog(registration.FieldFrameworks)
		values := make([]string, len(catalog))
		for i, o := range catalog {
			values[i] = o.Value
		}

		initial := rapid.SliceOfDistinct(rapid.SampledFrom(values), func(v string) string { return v }).Draw(t, "initial")
		s.SetFields(registration.Patch{"frameworks_and_technologies": initial})
		before := s.Draft().Frameworks

		v := rapid.SampledFrom(values).Draw(t, "value")
		if before.Has(v) {
			t.Skip("value already selected")
		}

		_ = s.ToggleSkill(registration.FieldFrameworks, v, true)
		_ = s.ToggleSkill(registration.FieldFrameworks, v, true)
		_ = s.ToggleSkill(registration.FieldFrameworks, v, false)

		require.Equal(t, before.String(), s.Draft().Frameworks.String())
	})
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))
	s.SetFields(registration.Patch{"programming_languages": []string{"Go"}})

	snap := s.Snapshot()
	snap.Draft.ProgrammingLanguages[0] = "Rust"

	require.Equal(t, registration.SkillSet{"Go"}, s.Draft().ProgrammingLanguages)
}

func TestStore_Validate(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))

	require.True(t, s.Validate(testutil.ValidDraft()).Valid)

	res := s.Validate(testutil.ValidDraft(testutil.Email("nope")))
	require.False(t, res.Valid)
	require.Equal(t, registration.MsgInvalidEmail, res.Message)
}

// ============================================================================
// CheckUserExists
// ============================================================================

func TestStore_CheckUserExists_Duplicate(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithExistingEmails("ada@example.com"))
	s, rec := newStore(t, srv)

	res := s.CheckUserExists(context.Background(), "ada@example.com")

	require.True(t, res.Success)
	require.True(t, res.Exists)
	require.True(t, s.Snapshot().UserExists)
	require.False(t, s.Loading())
	require.Equal(t, []Notification{{
		Level:   LevelError,
		Op:      api.OpCheckUser,
		Message: "User with email ada@example.com already exists!",
	}}, rec.all())
}

func TestStore_CheckUserExists_FreeEmailIsSilent(t *testing.T) {
	s, rec := newStore(t, testutil.NewServer(t))

	res := s.CheckUserExists(context.Background(), "new@example.com")

	require.True(t, res.Success)
	require.False(t, res.Exists)
	require.Empty(t, rec.all())
}

func TestStore_CheckUserExists_Failure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathCheckUser, testutil.Failure{Status: http.StatusInternalServerError}))
	s, rec := newStore(t, srv)

	res := s.CheckUserExists(context.Background(), "ada@example.com")

	require.False(t, res.Success)
	require.Equal(t, "Failed to check user existence", res.Err)
	require.True(t, res.Retryable)
	require.Equal(t, "Failed to check user existence", s.Err())
	require.Len(t, rec.all(), 1)
}

func TestStore_LoadingDuringCall(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithDelay(150*time.Millisecond))
	s, _ := newStore(t, srv)

	done := make(chan CheckResult, 1)
	go func() { done <- s.CheckUserExists(context.Background(), "ada@example.com") }()

	require.Eventually(t, s.Loading, time.Second, 5*time.Millisecond)
	res := <-done
	require.True(t, res.Success)
	require.False(t, s.Loading())
}

func TestStore_TimeoutIsRetryable(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithDelay(500*time.Millisecond))
	s := New(api.NewClient(srv.URL, api.WithTimeout(30*time.Millisecond)))
	defer s.Close()

	res := s.CheckUserExists(context.Background(), "ada@example.com")

	require.False(t, res.Success)
	require.True(t, res.Retryable)
	require.Equal(t, "request timed out after 30ms, please try again", res.Err)
	require.False(t, s.Loading())
}

// ============================================================================
// RegisterTrainee
// ============================================================================

func TestStore_RegisterTrainee_Success(t *testing.T) {
	srv := testutil.NewServer(t)
	s, rec := newStore(t, srv)

	draft := testutil.ValidDraft()
	s.SetFields(registration.Patch{"first_name": draft.FirstName, "email": draft.Email})

	res := s.RegisterTrainee(context.Background(), draft)

	require.True(t, res.Success)
	require.Equal(t, "Registration successful", res.Message)
	require.Equal(t, "ada@example.com", res.Data.String("email"))

	snap := s.Snapshot()
	require.True(t, snap.Draft.IsEmpty(), "draft should reset after a successful registration")
	require.Equal(t, "ada@example.com", snap.Registration.String("email"))
	require.Empty(t, snap.Err)
	require.False(t, snap.Loading)

	require.Equal(t, []Notification{{Level: LevelSuccess, Op: api.OpRegister, Message: "Registration successful"}}, rec.all())
	require.Len(t, srv.Registered(), 1)
}

func TestStore_RegisterTrainee_DefaultMessage(t *testing.T) {
	s, rec := newStore(t, testutil.NewServer(t, testutil.WithRegisterMessage("")))

	res := s.RegisterTrainee(context.Background(), testutil.ValidDraft())

	require.True(t, res.Success)
	require.Equal(t, MsgRegistered, res.Message)
	require.Equal(t, []Notification{{Level: LevelSuccess, Op: api.OpRegister, Message: MsgRegistered}}, rec.all())
}

func TestStore_RegisterTrainee_Failure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithExistingEmails("ada@example.com"))
	s, rec := newStore(t, srv)
	s.SetFields(registration.Patch{"first_name": "Ada"})

	res := s.RegisterTrainee(context.Background(), testutil.ValidDraft())

	require.False(t, res.Success)
	require.Equal(t, "User already registered", res.Err)
	require.False(t, res.Retryable)
	require.Equal(t, "Ada", s.Draft().FirstName, "draft must survive a failed registration")
	require.Equal(t, "User already registered", s.Err())
	require.Equal(t, LevelError, rec.all()[0].Level)
}

func TestStore_RegisterTrainee_Property(t *testing.T) {
	srv := testutil.NewServer(t)
	client := api.NewClient(srv.URL)
	n := 0

	rapid.Check(t, func(t *rapid.T) {
		s := New(client)
		defer s.Close()

		n++
		name := rapid.StringMatching(`[a-z]{3,8}`).Draw(t, "name")
		draft := testutil.ValidDraft(testutil.Email(fmt.Sprintf("%s%d@example.com", name, n)))
		s.SetFields(registration.Patch{"email": draft.Email, "first_name": draft.FirstName})

		res := s.RegisterTrainee(context.Background(), draft)

		require.True(t, res.Success, res.Err)
		require.True(t, s.Draft().IsEmpty())
	})
}

// ============================================================================
// Stats
// ============================================================================

func TestStore_GetRegistrationStats_Cached(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithStats(map[string]any{"total_registrations": 4}, []any{}))
	s, _ := newStore(t, srv, WithStatsTTL(time.Minute))

	first := s.GetRegistrationStats(context.Background())
	second := s.GetRegistrationStats(context.Background())

	require.True(t, first.Success)
	require.True(t, second.Success)
	require.Equal(t, "4", second.Data.General.String("total_registrations"))
	require.Equal(t, 1, srv.Calls(testutil.PathStats))
	require.Same(t, first.Data, s.Snapshot().Stats)
}

func TestStore_GetRegistrationStats_InvalidatedByRegistration(t *testing.T) {
	srv := testutil.NewServer(t)
	s, _ := newStore(t, srv, WithStatsTTL(time.Minute))

	s.GetRegistrationStats(context.Background())
	s.RegisterTrainee(context.Background(), testutil.ValidDraft())
	s.GetRegistrationStats(context.Background())

	require.Equal(t, 2, srv.Calls(testutil.PathStats))
}

func TestStore_GetRegistrationStats_NoCache(t *testing.T) {
	srv := testutil.NewServer(t)
	s, _ := newStore(t, srv, WithStatsTTL(0))

	s.GetRegistrationStats(context.Background())
	s.GetRegistrationStats(context.Background())

	require.Equal(t, 2, srv.Calls(testutil.PathStats))
}

func TestStore_GetRegistrationStats_Failure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathStats, testutil.Failure{Status: http.StatusServiceUnavailable}))
	s, rec := newStore(t, srv)

	res := s.GetRegistrationStats(context.Background())

	require.False(t, res.Success)
	require.Equal(t, "Failed to fetch registration statistics", res.Err)
	require.True(t, res.Retryable)
	require.Equal(t, []Notification{{Level: LevelError, Op: api.OpStats, Message: "Failed to fetch registration statistics"}}, rec.all())
}

// ============================================================================
// Reset, errors and broker
// ============================================================================

func TestStore_ClearError(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathStats, testutil.Failure{Status: http.StatusBadGateway}))
	s, _ := newStore(t, srv)
	s.GetRegistrationStats(context.Background())
	require.NotEmpty(t, s.Err())

	s.ClearError()

	require.Empty(t, s.Err())
}

func TestStore_Reset(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithExistingEmails("ada@example.com"))
	s, _ := newStore(t, srv)
	s.SetFields(registration.Patch{"first_name": "Ada"})
	s.CheckUserExists(context.Background(), "ada@example.com")
	s.GetRegistrationStats(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Broker().Subscribe(ctx)

	s.Reset()

	snap := s.Snapshot()
	require.True(t, snap.Draft.IsEmpty())
	require.False(t, snap.UserExists)
	require.Nil(t, snap.Stats)

	select {
	case ev := <-events:
		require.Equal(t, pubsub.ResetEvent, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected reset event")
	}
}

func TestStore_BrokerCarriesNotifications(t *testing.T) {
	s, _ := newStore(t, testutil.NewServer(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Broker().Subscribe(ctx)

	s.RegisterTrainee(context.Background(), testutil.ValidDraft())

	select {
	case ev := <-events:
		require.Equal(t, pubsub.SucceededEvent, ev.Type)
		require.Equal(t, LevelSuccess, ev.Payload.Level)
	case <-time.After(time.Second):
		t.Fatal("expected notification event")
	}
}
