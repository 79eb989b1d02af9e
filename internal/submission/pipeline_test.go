package submission

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kachijames/intake/internal/api"
	"github.com/kachijames/intake/internal/registration"
	"github.com/kachijames/intake/internal/store"
	"github.com/kachijames/intake/internal/testutil"
)

func newStore(t *testing.T, srv *testutil.Server) *store.Store {
	t.Helper()
	s := store.New(api.NewClient(srv.URL, api.WithTimeout(2*time.Second)))
	t.Cleanup(s.Close)
	return s
}

func TestRun_Submitted(t *testing.T) {
	srv := testutil.NewServer(t)
	s := newStore(t, srv)
	s.SetFields(registration.Patch{"first_name": "Ada"})

	res := Run(context.Background(), s, testutil.ValidDraft())

	require.True(t, res.Succeeded())
	require.Equal(t, StageSubmitting, res.Stage)
	require.Equal(t, "Registration successful", res.Message)
	require.Equal(t, "ada@example.com", res.Registration.String("email"))
	require.Empty(t, res.FieldErrors)
	require.True(t, s.Draft().IsEmpty())
	require.Equal(t, 1, srv.Calls(testutil.PathCheckUser))
	require.Equal(t, 1, srv.Calls(testutil.PathRegister))
}

func TestRun_InvalidNeverReachesNetwork(t *testing.T) {
	tests := []struct {
		name    string
		draft   registration.Draft
		message string
		field   registration.Field
	}{
		{
			name:    "missing fields",
			draft:   testutil.ValidDraft(testutil.Without(registration.FieldAddress, registration.FieldTrainingMode)),
			message: "The following required fields are missing: address, training mode",
			field:   registration.FieldAddress,
		},
		{
			name:    "bad email",
			draft:   testutil.ValidDraft(testutil.Email("ada.example.com")),
			message: registration.MsgInvalidEmail,
			field:   registration.FieldEmail,
		},
		{
			name:    "bad phone",
			draft:   testutil.ValidDraft(testutil.Phone("abc")),
			message: registration.MsgInvalidPhone,
			field:   registration.FieldPhoneNumber,
		},
		{
			name:    "bad graduation year",
			draft:   testutil.ValidDraft(testutil.With(registration.FieldGraduationYear, "1890")),
			message: "Please provide a valid graduation year (1950-2030)",
			field:   registration.FieldGraduationYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewServer(t)
			s := newStore(t, srv)

			res := Run(context.Background(), s, tt.draft)

			require.Equal(t, OutcomeInvalid, res.Outcome)
			require.Equal(t, StageValidating, res.Stage)
			require.Equal(t, tt.message, res.Message)
			require.True(t, res.FieldErrors.Has(tt.field))
			require.Equal(t, tt.message, res.FieldErrors.Get(registration.FieldGeneral))
			require.Zero(t, srv.Calls(testutil.PathCheckUser))
			require.Zero(t, srv.Calls(testutil.PathRegister))
		})
	}
}

func TestRun_DuplicateDoesNotSubmit(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithExistingEmails("ada@example.com"))
	s := newStore(t, srv)
	s.SetFields(registration.Patch{"first_name": "Ada"})

	res := Run(context.Background(), s, testutil.ValidDraft())

	require.Equal(t, OutcomeDuplicate, res.Outcome)
	require.Equal(t, StageCheckingDuplicate, res.Stage)
	require.Equal(t, MsgDuplicateEmail, res.FieldErrors.Get(registration.FieldEmail))
	require.Equal(t, 1, srv.Calls(testutil.PathCheckUser))
	require.Zero(t, srv.Calls(testutil.PathRegister))
	require.Equal(t, "Ada", s.Draft().FirstName)
}

func TestRun_FailedCheckDoesNotSubmit(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathCheckUser, testutil.Failure{Status: http.StatusBadGateway}))
	s := newStore(t, srv)

	res := Run(context.Background(), s, testutil.ValidDraft())

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Equal(t, StageCheckingDuplicate, res.Stage)
	require.Equal(t, "Failed to check user existence", res.Message)
	require.True(t, res.Retryable)
	require.Zero(t, srv.Calls(testutil.PathRegister))
}

func TestRun_RegisterFailure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathRegister, testutil.Failure{Status: http.StatusUnprocessableEntity, Message: "Training track is closed"}))
	s := newStore(t, srv)

	res := Run(context.Background(), s, testutil.ValidDraft())

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Equal(t, StageSubmitting, res.Stage)
	require.Equal(t, "Training track is closed", res.Message)
	require.Equal(t, "Training track is closed", res.FieldErrors.Get(registration.FieldGeneral))
	require.False(t, res.Retryable)
}

func TestStageAndOutcomeNames(t *testing.T) {
	require.Equal(t, "checking_duplicate", StageCheckingDuplicate.String())
	require.Equal(t, "unknown", Stage(42).String())
	require.Equal(t, "duplicate", OutcomeDuplicate.String())
	require.Equal(t, "unknown", Outcome(42).String())
}
