//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	translateplus "github.com/translateplus/translateplus-go"
)

var (
	apiKey  string
	baseURL string
)

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	apiKey = os.Getenv("TRANSLATEPLUS_API_KEY")
	baseURL = os.Getenv("TRANSLATEPLUS_BASE_URL")

	if apiKey == "" {
		os.Stderr.WriteString("Skipping integration tests: TRANSLATEPLUS_API_KEY not set\n")
		os.Exit(0)
	}

	os.Stderr.WriteString("Running integration tests...\n")
	if baseURL != "" {
		os.Stderr.WriteString("API URL: " + baseURL + "\n")
	}

	os.Exit(m.Run())
}

func newClient(t *testing.T, opts ...translateplus.Option) *translateplus.Client {
	t.Helper()

	base := []translateplus.Option{translateplus.WithTimeout(30 * time.Second)}
	if baseURL != "" {
		base = append(base, translateplus.WithBaseURL(baseURL))
	}

	client, err := translateplus.New(apiKey, append(base, opts...)...)
	require.NoError(t, err)
	return client
}

func TestIntegration_Translate(t *testing.T) {
	client := newClient(t)

	res, err := client.Translate(context.Background(), "Hello", "en", "fr")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Map("translations").String("translation"))
}

func TestIntegration_TranslateBatch(t *testing.T) {
	client := newClient(t)

	res, err := client.TranslateBatch(context.Background(), []string{"Hello", "Goodbye"}, "en", "es")
	require.NoError(t, err)

	items, _ := res["translations"].([]any)
	assert.Len(t, items, 2)
}

func TestIntegration_DetectLanguage(t *testing.T) {
	client := newClient(t)

	res, err := client.DetectLanguage(context.Background(), "Bonjour tout le monde")
	require.NoError(t, err)
	assert.Equal(t, "fr", res.Map("language_detection").String("language"))
}

func TestIntegration_SupportedLanguages(t *testing.T) {
	client := newClient(t)

	res, err := client.SupportedLanguages(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Map("supported_languages"))
}

func TestIntegration_AccountSummary(t *testing.T) {
	client := newClient(t)

	res, err := client.AccountSummary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, res, "credits_remaining")
}

func TestIntegration_InvalidAPIKey(t *testing.T) {
	opts := []translateplus.Option{}
	if baseURL != "" {
		opts = append(opts, translateplus.WithBaseURL(baseURL))
	}
	client, err := translateplus.New("invalid-key", opts...)
	require.NoError(t, err)

	_, err = client.AccountSummary(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, translateplus.ErrAuthentication), "got %v", err)
}

func TestIntegration_I18nJob(t *testing.T) {
	if os.Getenv("TRANSLATEPLUS_RUN_I18N") == "" {
		t.Skip("set TRANSLATEPLUS_RUN_I18N to run i18n jobs; they consume credits")
	}
	client := newClient(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "en.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"greeting":"Hello"}`), 0o600))

	job, err := client.CreateI18nJob(ctx, path, []string{"fr"}, translateplus.WithSourceLanguage("en"))
	require.NoError(t, err)
	jobID := job.String("job_id")
	require.NotEmpty(t, jobID)

	status, err := client.WaitForI18nJob(ctx, jobID, translateplus.WithWaitTimeout(5*time.Minute))
	require.NoError(t, err)
	t.Logf("job %s finished: %s", jobID, translateplus.JobStatus(status))

	list, err := client.ListI18nJobs(ctx, 1, 10)
	require.NoError(t, err)
	assert.Contains(t, list, "jobs")
}
