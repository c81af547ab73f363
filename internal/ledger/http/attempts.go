package http

import (
	"net/http"
	"strconv"

	"github.com/statelock/codeledger/internal/ledger/service"
	"github.com/statelock/codeledger/pkg/httpx"
	"github.com/statelock/codeledger/pkg/ledgerapi"
	"github.com/statelock/codeledger/pkg/slogx"
)

// AttemptsHandler exposes the audit log.
type AttemptsHandler struct {
	Audit *service.AuditService
}

// HandleList handles GET /v1/attempts
//
//	@Summary		List recent attempts
//	@Description	Returns the most recent audit log entries, newest first.
//	@Tags			Attempts
//	@Security		AccessKey
//	@Produce		json
//	@Param			limit	query		int						false	"Maximum entries to return (default 50, max 500)"
//	@Success		200		{array}		ledgerapi.AttemptEntry	"Audit log entries"
//	@Failure		500		{object}	ledgerapi.ErrorResponse	"Internal server error"
//	@Router			/v1/attempts [get].
func (h *AttemptsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ledgerapi.ErrInvalidRequest.WriteError(w)
			return
		}
		limit = parsed
	}

	attempts, err := h.Audit.ListRecent(ctx, limit)
	if err != nil {
		log.Error("failed to list attempts", "err", err)
		ledgerapi.ErrServerError.WriteError(w)
		return
	}

	entries := make([]ledgerapi.AttemptEntry, 0, len(attempts))
	for _, a := range attempts {
		entries = append(entries, ledgerapi.AttemptEntry{
			ID:           a.ID,
			AttemptType:  a.AttemptType,
			Success:      a.Success,
			ErrorMessage: a.ErrorMessage,
			UserID:       a.UserID,
			IP:           a.IP,
			CreatedAt:    a.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}
