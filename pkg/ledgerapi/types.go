// Package ledgerapi holds the request and response types of the ledger's
// HTTP surface, shared between the handlers and any Go client.
package ledgerapi

import "time"

// ErrorResponse is the JSON error envelope, used by clients to decode
// failures.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// CodeResponse carries a freshly issued or rotated code. This is the only
// place the plaintext is handed out besides the state/listing reads.
type CodeResponse struct {
	Code string `json:"code"`
}

// VerifyRequest is the body of a verification attempt.
type VerifyRequest struct {
	Code string `json:"code"`
}

// VerifyResponse reports the verification outcome. A mismatch is a normal
// false, not an error.
type VerifyResponse struct {
	Verified bool `json:"verified"`
}

// CodeStateResponse is the combined code state for one user.
type CodeStateResponse struct {
	Code        string     `json:"code,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Verified    bool       `json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

// UserResponse is a profile lookup result.
type UserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	HasCode     bool   `json:"has_code"`
	Verified    bool   `json:"verified"`
}

// UserCodeEntry is one row of the administrative listing.
type UserCodeEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Code        string `json:"code"`
	Verified    bool   `json:"verified"`
}

// ProvisionRequest creates a profile with no code. Normally called by the
// upstream identity process rather than a human.
type ProvisionRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// AttemptEntry is one audit log record.
type AttemptEntry struct {
	ID           string    `json:"id"`
	AttemptType  string    `json:"attempt_type"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
	UserID       *string   `json:"user_id,omitempty"`
	IP           string    `json:"ip,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HealthChecks reports per-dependency health.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
