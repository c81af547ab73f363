package httpx

import (
	"net/http"
	"strings"

	"github.com/statelock/codeledger/pkg/cryptox"
	"github.com/statelock/codeledger/pkg/slogx"
)

// AccessKeyHeader carries the shared admin key on every request.
const AccessKeyHeader = "X-Access-Key"

// RequireAccessKey gates a handler behind a shared admin key. keyHash is the
// Argon2id hash of the configured key (see cryptox.HashKey); the plaintext is
// not kept around after startup. This is a coarse gate on the admin surface
// and has nothing to do with per-user code verification.
//
// An empty keyHash disables the gate, for dev setups and tests.
func RequireAccessKey(keyHash string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keyHash == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(AccessKeyHeader))
			if key == "" {
				writeAccessDenied(w, "missing access key")
				return
			}

			if err := cryptox.VerifyKey(key, keyHash); err != nil {
				slogx.FromContext(r.Context()).Warn("access key rejected", "err", err)
				writeAccessDenied(w, "invalid access key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAccessDenied(w http.ResponseWriter, desc string) {
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "access_denied",
		"error_description": desc,
	})
}
