package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// apiURL is the base URL for the portal admin API.
// Override with PORTAL_API_URL env var.
var apiURL = "http://localhost:8090/api"

// portalURL is the base URL for the client portal API.
var portalURL = "http://localhost:8090/api/portal"

func TestMain(m *testing.M) {
	if os.Getenv("PORTAL_E2E") == "" {
		fmt.Println("Skipping e2e tests (set PORTAL_E2E=1 to run)")
		os.Exit(0)
	}
	if u := os.Getenv("PORTAL_API_URL"); u != "" {
		apiURL = u
	}
	if u := os.Getenv("PORTAL_PORTAL_URL"); u != "" {
		portalURL = u
	}
	os.Exit(m.Run())
}

// apiKey returns the API key for authenticating with the admin API,
// set via PORTAL_API_KEY env var.
func apiKey() string {
	return os.Getenv("PORTAL_API_KEY")
}

func doRequest(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func httpGet(t *testing.T, url string) (*http.Response, string) {
	return doRequest(t, http.MethodGet, url, nil, nil)
}

func httpPost(t *testing.T, url string, body any) (*http.Response, string) {
	return doRequest(t, http.MethodPost, url, body, nil)
}

func httpPatch(t *testing.T, url string, body any) (*http.Response, string) {
	return doRequest(t, http.MethodPatch, url, body, nil)
}

func httpDelete(t *testing.T, url string) (*http.Response, string) {
	return doRequest(t, http.MethodDelete, url, nil, nil)
}

func parseJSON(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out), "parse response: %s", body)
	return out
}
