package http

import (
	"net/http"
	"time"

	"github.com/statelock/codeledger/internal/ledger/store"
	"github.com/statelock/codeledger/pkg/httpx"
	"github.com/statelock/codeledger/pkg/ledgerapi"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and database connectivity
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	ledgerapi.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	ledgerapi.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &ledgerapi.HealthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := ledgerapi.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
