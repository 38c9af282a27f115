package translateplustest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, srv *Server, method, path, key, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("X-API-KEY", key)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp.StatusCode, out
}

func TestServer_RejectsMissingKey(t *testing.T) {
	srv := NewServer(t)

	status, body := do(t, srv, http.MethodGet, "/v2/account/summary", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid API key", body["detail"])
}

func TestServer_CustomKey(t *testing.T) {
	srv := NewServer(t, WithAPIKey("other"))

	status, _ := do(t, srv, http.MethodGet, "/v2/account/summary", DefaultAPIKey, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, srv, http.MethodGet, "/v2/account/summary", "other", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test", body["plan_name"])
}

func TestServer_RecordsRequests(t *testing.T) {
	srv := NewServer(t)

	_, ok := srv.LastRequest()
	assert.False(t, ok)

	status, body := do(t, srv, http.MethodPost, "/v2/translate", DefaultAPIKey, `{"text":"Hi","source":"en","target":"it"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[it] Hi", body["translations"].(map[string]any)["translation"])

	req, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/v2/translate", req.Path)

	var decoded struct {
		Text string `json:"text"`
	}
	require.NoError(t, req.JSON(&decoded))
	assert.Equal(t, "Hi", decoded.Text)
	assert.Len(t, srv.Requests(), 1)
}

func TestServer_Respond(t *testing.T) {
	srv := NewServer(t)
	srv.Respond(http.MethodPost, "/v2/translate", http.StatusTooManyRequests, map[string]any{"detail": "Slow down"})

	status, body := do(t, srv, http.MethodPost, "/v2/translate", "", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Slow down", body["detail"])
}

func TestServer_UnknownRoute(t *testing.T) {
	srv := NewServer(t)

	status, body := do(t, srv, http.MethodGet, "/v2/nothing", DefaultAPIKey, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", body["detail"])
}

func TestServer_JobLifecycle(t *testing.T) {
	srv := NewServer(t, WithJobCompleteAfter(1))
	srv.AddJob("j1", "pending")

	_, body := do(t, srv, http.MethodGet, "/v2/i18n/job/j1", DefaultAPIKey, "")
	assert.Equal(t, "processing", body["status"])

	_, body = do(t, srv, http.MethodGet, "/v2/i18n/job/j1", DefaultAPIKey, "")
	assert.Equal(t, "completed", body["status"])

	status, _ := do(t, srv, http.MethodGet, "/v2/i18n/jobs?page=0&page_size=10", DefaultAPIKey, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
