package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/kachijames/intake/internal/config"
	"github.com/kachijames/intake/internal/testutil"
)

// writeConfig creates a config file pointing at baseURL.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	require.NoError(t, config.SaveValue(path, "api.base_url", baseURL))
	require.NoError(t, config.SaveValue(path, "api.timeout", "2s"))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--no-color"))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
		statsMarkdown = false
		validateFile, submitFile = "", ""
	})

	err := rootCmd.ExecuteContext(context.Background())
	runCleanups()
	return stdout.String(), stderr.String(), err
}

const validDraftYAML = `
first_name: Ada
last_name: Obi
email: ada@example.com
phone_number: "+1 (234) 567-8901"
country_of_origin: nigeria
state_of_origin: Lagos
local_government_area: Ikeja
address: 12 Allen Avenue
highest_level_of_education: bachelor
graduation_year: 2020
employment_status: employed
preferred_training_track: web-development
training_mode: online
programming_languages: [Go, Python, Go]
`

// ============================================================================
// Config loading
// ============================================================================

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "http://localhost:5000")

	got, used, err := loadConfig(viper.New(), path)

	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, "http://localhost:5000", got.API.BaseURL)
	require.Equal(t, 2*time.Second, got.API.Timeout)
	require.Equal(t, config.Defaults().UI, got.UI)
	require.NoError(t, got.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "http://localhost:5000")
	t.Setenv("INTAKE_API_BASE_URL", "https://staging.example.com")
	t.Setenv("INTAKE_API_STATS_CACHE_TTL", "1m")
	t.Setenv("INTAKE_DEBUG", "1")

	got, _, err := loadConfig(viper.New(), path)

	require.NoError(t, err)
	require.Equal(t, "https://staging.example.com", got.API.BaseURL)
	require.Equal(t, time.Minute, got.API.StatsCacheTTL)
	require.True(t, got.Log.Enabled)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, _, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "reading config")
}

func TestLoadConfig_InvalidRejectedAtStartup(t *testing.T) {
	path := writeConfig(t, "ftp://files.example.com")

	_, _, err := execute(t, "validate", "-f", writeFile(t, "d.yaml", validDraftYAML), "--config", path)

	require.ErrorContains(t, err, "invalid configuration")
}

func TestUserAgent(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "1.4.0 (commit: abc, built: today)"
	require.Equal(t, "intake/1.4.0", userAgent())

	version = ""
	require.Equal(t, "intake", userAgent())
}

// ============================================================================
// validate
// ============================================================================

func TestValidate_ValidDraft(t *testing.T) {
	path := writeConfig(t, "http://localhost:5000")
	draft := writeFile(t, "draft.yaml", validDraftYAML)

	out, _, err := execute(t, "validate", "-f", draft, "--config", path)

	require.NoError(t, err)
	require.Contains(t, out, "draft is valid")
}

func TestValidate_JSONDraft(t *testing.T) {
	path := writeConfig(t, "http://localhost:5000")
	draft := writeFile(t, "draft.json", `{"first_name": "Ada", "email": "nope", "nickname": "A"}`)

	_, errOut, err := execute(t, "validate", "-f", draft, "--config", path)

	require.ErrorIs(t, err, errInvalidDraft)
	require.Contains(t, errOut, "ignoring unknown fields: nickname")
	require.Contains(t, errOut, "The following required fields are missing: last name, phone number")
	require.Contains(t, errOut, "This field is required")
}

func TestValidate_BadFormat(t *testing.T) {
	path := writeConfig(t, "http://localhost:5000")
	draft := writeFile(t, "draft.yaml", validDraftYAML+"gender: robot\n")

	_, errOut, err := execute(t, "validate", "-f", draft, "--config", path)

	require.ErrorIs(t, err, errInvalidDraft)
	require.Contains(t, errOut, "gender:")
}

// ============================================================================
// check
// ============================================================================

func TestCheck(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithExistingEmails("taken@example.com"))
	path := writeConfig(t, srv.URL)

	out, _, err := execute(t, "check", "free@example.com", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "free@example.com is available")

	out, errOut, err := execute(t, "check", "taken@example.com", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "taken@example.com is already registered")
	require.Contains(t, errOut, "User with email taken@example.com already exists!")
}

func TestCheck_ServiceFailure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathCheckUser, testutil.Failure{Status: 503}))
	path := writeConfig(t, srv.URL)

	_, _, err := execute(t, "check", "ada@example.com", "--config", path)

	require.EqualError(t, err, "Failed to check user existence")
}

func TestCheck_RejectsBadEmail(t *testing.T) {
	srv := testutil.NewServer(t)
	path := writeConfig(t, srv.URL)

	_, _, err := execute(t, "check", "not-an-email", "--config", path)

	require.EqualError(t, err, "Please provide a valid email address")
	require.Zero(t, srv.Calls(testutil.PathCheckUser))
}

// ============================================================================
// submit
// ============================================================================

func TestSubmit_Registers(t *testing.T) {
	srv := testutil.NewServer(t)
	path := writeConfig(t, srv.URL)
	draft := writeFile(t, "draft.yaml", validDraftYAML)

	out, errOut, err := execute(t, "submit", "-f", draft, "--config", path)

	require.NoError(t, err)
	require.Contains(t, errOut, "Registration successful")
	require.Contains(t, out, "email: ada@example.com")
	require.Contains(t, out, "id: 1")

	registered := srv.Registered()
	require.Len(t, registered, 1)
	require.Equal(t, "2020", registered[0]["graduation_year"])
	require.Equal(t, []any{"Go", "Python"}, registered[0]["programming_languages"])
}

func TestSubmit_Duplicate(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithExistingEmails("ada@example.com"))
	path := writeConfig(t, srv.URL)
	draft := writeFile(t, "draft.yaml", validDraftYAML)

	_, errOut, err := execute(t, "submit", "-f", draft, "--config", path)

	require.EqualError(t, err, "A user with this email already exists")
	require.Contains(t, errOut, "User with email ada@example.com already exists!")
	require.Zero(t, srv.Calls(testutil.PathRegister))
}

func TestSubmit_RetryableFailure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithFailure(testutil.PathRegister, testutil.Failure{Status: 502, Message: "Upstream unavailable"}))
	path := writeConfig(t, srv.URL)
	draft := writeFile(t, "draft.yaml", validDraftYAML)

	_, _, err := execute(t, "submit", "-f", draft, "--config", path)

	require.EqualError(t, err, "Upstream unavailable (retryable)")
}

// ============================================================================
// stats
// ============================================================================

func TestStats_Markdown(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithStats(
		map[string]any{"total_registrations": 12},
		[]any{map[string]any{"preferred_training_track": "devops", "count": 2}},
	))
	path := writeConfig(t, srv.URL)

	out, _, err := execute(t, "stats", "--markdown", "--config", path)

	require.NoError(t, err)
	require.Contains(t, out, "| Total registrations | 12 |")
	require.Contains(t, out, "| DevOps & Infrastructure | 2 |")
}

func TestStats_Rendered(t *testing.T) {
	srv := testutil.NewServer(t, testutil.WithStats(map[string]any{"total_registrations": 12}, nil))
	path := writeConfig(t, srv.URL)

	out, _, err := execute(t, "stats", "--config", path)

	require.NoError(t, err)
	require.Contains(t, out, "Total registrations")
	require.NotContains(t, out, "| Total registrations |")
}

// ============================================================================
// config
// ============================================================================

func TestConfigSet(t *testing.T) {
	path := writeConfig(t, "http://localhost:5000")

	out, _, err := execute(t, "config", "set", "ui.theme.preset", "high-contrast", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, "ui.theme.preset = high-contrast")

	got, _, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, "high-contrast", got.UI.Theme.Preset)
	require.Equal(t, "http://localhost:5000", got.API.BaseURL, "other keys kept")
}

func TestConfigSet_RepairsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "ftp://files.example.com")

	_, _, err := execute(t, "config", "set", "api.base_url", "https://ok.example.com", "--config", path)
	require.NoError(t, err)

	got, _, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
}
