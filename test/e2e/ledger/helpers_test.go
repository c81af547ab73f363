package ledger_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/statelock/codeledger/internal/ledger/app"
	"github.com/statelock/codeledger/pkg/httpx"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for ledger service end-to-end tests. The service runs
 * in-process against a temp-file SQLite database and a miniredis instance,
 * exercising the real router with all middleware applied.
 */

const accessKey = "test-access-key-12345"

// setupLedgerServer boots the fully wired application and returns the base
// URL of an httptest server in front of it.
func setupLedgerServer(t *testing.T) string {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := app.Config{
		DatabaseFile:        filepath.Join(t.TempDir(), "ledger.db"),
		AccessKey:           accessKey,
		RedisAddr:           mr.Addr(),
		ThrottleMaxFailures: 3,
		ThrottleCooldown:    time.Minute,
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,
	}

	application, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Store().Close() })

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return server.URL
}

// doJSON performs a request with the admin access key attached and decodes
// the JSON response into out (when out is non-nil). Returns the status code.
func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set(httpx.AccessKeyHeader, accessKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// provisionUser creates a profile and asserts success.
func provisionUser(t *testing.T, baseURL, id, name, email string) {
	t.Helper()

	status := doJSON(t, http.MethodPost, baseURL+"/v1/users", map[string]string{
		"id":           id,
		"display_name": name,
		"email":        email,
	}, nil)
	require.Equal(t, http.StatusCreated, status)
}

// issueCode issues a fresh code and returns the plaintext.
func issueCode(t *testing.T, baseURL, userID string) string {
	t.Helper()

	var resp struct {
		Code string `json:"code"`
	}
	status := doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/users/%s/code", baseURL, userID), nil, &resp)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, resp.Code)
	return resp.Code
}

// verifyCode submits a candidate and returns (statusCode, verified).
func verifyCode(t *testing.T, baseURL, userID, candidate string) (int, bool) {
	t.Helper()

	var resp struct {
		Verified bool `json:"verified"`
	}
	status := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/v1/users/%s/code/verify", baseURL, userID),
		map[string]string{"code": candidate}, &resp)
	return status, resp.Verified
}
