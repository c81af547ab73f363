package ledger_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessKeyGate(t *testing.T) {
	baseURL := setupLedgerServer(t)

	// No key at all.
	resp, err := http.Get(baseURL + "/v1/attempts")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong key.
	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/attempts", nil)
	require.NoError(t, err)
	req.Header.Set("X-Access-Key", "wrong-key")

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	// Health probes are not behind the gate.
	resp3, err := http.Get(baseURL + "/livez")
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestVerifyThrottleBlocksBruteForce(t *testing.T) {
	baseURL := setupLedgerServer(t)

	provisionUser(t, baseURL, "user-1", "Alice", "alice@example.com")
	code := issueCode(t, baseURL, "user-1")

	// Burn through the failure budget (3 in the test config).
	for range 3 {
		status, verified := verifyCode(t, baseURL, "user-1", "wrong-guess")
		require.Equal(t, http.StatusOK, status)
		require.False(t, verified)
	}

	// The next attempt is blocked even with the right code.
	status, _ := verifyCode(t, baseURL, "user-1", code)
	require.Equal(t, http.StatusTooManyRequests, status)
}
