package ledger_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCodeLifecycle walks the whole happy path: provision, issue, verify,
// rotate, re-verify, and the administrative reads along the way.
func TestCodeLifecycle(t *testing.T) {
	baseURL := setupLedgerServer(t)

	provisionUser(t, baseURL, "user-1", "Alice", "alice@example.com")

	// Email lookup finds the fresh profile with no code.
	var user struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		HasCode  bool   `json:"has_code"`
		Verified bool   `json:"verified"`
	}
	status := doJSON(t, http.MethodGet, baseURL+"/v1/users?email=alice@example.com", nil, &user)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "user-1", user.ID)
	require.False(t, user.HasCode)

	// State before issuance: no code, not verified.
	var state struct {
		Code       string  `json:"code"`
		Verified   bool    `json:"verified"`
		VerifiedAt *string `json:"verified_at"`
	}
	status = doJSON(t, http.MethodGet, baseURL+"/v1/users/user-1/code", nil, &state)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, state.Code)
	require.False(t, state.Verified)

	code := issueCode(t, baseURL, "user-1")

	// A wrong guess is a 200 with verified=false.
	status, verified := verifyCode(t, baseURL, "user-1", "not-the-code")
	require.Equal(t, http.StatusOK, status)
	require.False(t, verified)

	status, verified = verifyCode(t, baseURL, "user-1", code)
	require.Equal(t, http.StatusOK, status)
	require.True(t, verified)

	status = doJSON(t, http.MethodGet, baseURL+"/v1/users/user-1/code", nil, &state)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, code, state.Code)
	require.True(t, state.Verified)
	require.NotNil(t, state.VerifiedAt)

	// Rotation hands out a fresh code and resets verification.
	var rotated struct {
		Code string `json:"code"`
	}
	status = doJSON(t, http.MethodPut, baseURL+"/v1/users/user-1/code", nil, &rotated)
	require.Equal(t, http.StatusOK, status)
	require.NotEqual(t, code, rotated.Code)

	status = doJSON(t, http.MethodGet, baseURL+"/v1/users/user-1/code", nil, &state)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, rotated.Code, state.Code)
	require.False(t, state.Verified)

	status, verified = verifyCode(t, baseURL, "user-1", code)
	require.Equal(t, http.StatusOK, status)
	require.False(t, verified, "the old code must be dead after rotation")

	status, verified = verifyCode(t, baseURL, "user-1", rotated.Code)
	require.Equal(t, http.StatusOK, status)
	require.True(t, verified)
}

func TestListingAndAuditLog(t *testing.T) {
	baseURL := setupLedgerServer(t)

	provisionUser(t, baseURL, "user-1", "Alice", "alice@example.com")
	provisionUser(t, baseURL, "user-2", "Bob", "bob@example.com")
	provisionUser(t, baseURL, "user-3", "Carol", "carol@example.com")

	codeAlice := issueCode(t, baseURL, "user-1")
	codeBob := issueCode(t, baseURL, "user-2")

	status, verified := verifyCode(t, baseURL, "user-2", codeBob)
	require.Equal(t, http.StatusOK, status)
	require.True(t, verified)

	// Only users holding a code appear, in display-name order.
	var listing []struct {
		UserID   string `json:"user_id"`
		Code     string `json:"code"`
		Verified bool   `json:"verified"`
	}
	status = doJSON(t, http.MethodGet, baseURL+"/v1/users/codes", nil, &listing)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, listing, 2)
	require.Equal(t, "user-1", listing[0].UserID)
	require.Equal(t, codeAlice, listing[0].Code)
	require.False(t, listing[0].Verified)
	require.Equal(t, "user-2", listing[1].UserID)
	require.True(t, listing[1].Verified)

	// Every operation above left an audit trail.
	var attempts []struct {
		AttemptType string `json:"attempt_type"`
		Success     bool   `json:"success"`
	}
	status = doJSON(t, http.MethodGet, baseURL+"/v1/attempts", nil, &attempts)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, attempts)

	types := map[string]bool{}
	for _, a := range attempts {
		types[a.AttemptType] = true
	}
	require.True(t, types["issue"])
	require.True(t, types["verify"])
	require.True(t, types["access"])
}

func TestErrorCases(t *testing.T) {
	baseURL := setupLedgerServer(t)

	provisionUser(t, baseURL, "user-1", "Alice", "alice@example.com")

	var apiErr struct {
		Error string `json:"error"`
	}

	// Unknown user is terminal on every operation.
	status := doJSON(t, http.MethodPost, baseURL+"/v1/users/ghost/code", nil, &apiErr)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "user_not_found", apiErr.Error)

	status = doJSON(t, http.MethodGet, baseURL+"/v1/users/ghost/code", nil, &apiErr)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "user_not_found", apiErr.Error)

	// Verifying before any issuance reports the missing code.
	status = doJSON(t, http.MethodPost, baseURL+"/v1/users/user-1/code/verify",
		map[string]string{"code": "whatever"}, &apiErr)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "code_not_found", apiErr.Error)

	// Duplicate provisioning conflicts.
	status = doJSON(t, http.MethodPost, baseURL+"/v1/users", map[string]string{
		"id":           "user-1",
		"display_name": "Alice Again",
		"email":        "alice@example.com",
	}, &apiErr)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "email_in_use", apiErr.Error)

	// Missing email query parameter.
	status = doJSON(t, http.MethodGet, baseURL+"/v1/users?email=", nil, &apiErr)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "invalid_request", apiErr.Error)
}
