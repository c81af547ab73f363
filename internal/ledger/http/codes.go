package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/statelock/codeledger/internal/ledger/guard"
	"github.com/statelock/codeledger/internal/ledger/service"
	"github.com/statelock/codeledger/pkg/codegen"
	"github.com/statelock/codeledger/pkg/httpx"
	"github.com/statelock/codeledger/pkg/ledgerapi"
	"github.com/statelock/codeledger/pkg/slogx"
)

// CodesHandler exposes the code lifecycle operations.
type CodesHandler struct {
	Ledger   *service.LedgerService
	Audit    *service.AuditService
	Throttle *guard.VerifyThrottle // nil disables throttling
}

// HandleIssue handles POST /v1/users/{id}/code
//
//	@Summary		Issue a code
//	@Description	Generates a fresh secret code for the user and returns the plaintext exactly once.
//	@Description	Issuing over an existing code behaves like a rotation: the old code becomes invalid.
//	@Tags			Codes
//	@Security		AccessKey
//	@Produce		json
//	@Param			id	path		string					true	"User id"
//	@Success		201	{object}	ledgerapi.CodeResponse	"The new code (shown once)"
//	@Failure		404	{object}	ledgerapi.ErrorResponse	"User not found"
//	@Failure		409	{object}	ledgerapi.ErrorResponse	"Concurrent modification, retry"
//	@Failure		503	{object}	ledgerapi.ErrorResponse	"Secure random source unavailable"
//	@Router			/v1/users/{id}/code [post].
func (h *CodesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	h.setCode(w, r, domain.AttemptTypeIssue, http.StatusCreated, h.Ledger.Issue)
}

// HandleRotate handles PUT /v1/users/{id}/code
//
//	@Summary		Rotate a code
//	@Description	Replaces the user's code with a fresh one and resets verification. The previous
//	@Description	code is permanently invalid the instant the rotation commits.
//	@Tags			Codes
//	@Security		AccessKey
//	@Produce		json
//	@Param			id	path		string					true	"User id"
//	@Success		200	{object}	ledgerapi.CodeResponse	"The new code (shown once)"
//	@Failure		404	{object}	ledgerapi.ErrorResponse	"User not found"
//	@Failure		409	{object}	ledgerapi.ErrorResponse	"Concurrent modification, retry"
//	@Failure		503	{object}	ledgerapi.ErrorResponse	"Secure random source unavailable"
//	@Router			/v1/users/{id}/code [put].
func (h *CodesHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	h.setCode(w, r, domain.AttemptTypeRotate, http.StatusOK, h.Ledger.Rotate)
}

func (h *CodesHandler) setCode(
	w http.ResponseWriter,
	r *http.Request,
	attemptType string,
	successStatus int,
	op func(ctx context.Context, userID string) (string, error),
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")
	ip := httpx.IPKeyExtractor(r)

	code, err := op(ctx, userID)
	if err != nil {
		apiErr := mapLedgerError(err)
		if apiErr == ledgerapi.ErrServerError {
			log.Error("code write failed", "user_id", userID, "attempt_type", attemptType, "err", err)
		} else {
			log.Warn("code write rejected", "user_id", userID, "attempt_type", attemptType, "err", err)
		}
		h.Audit.Record(ctx, attemptType, false, apiErr.Code, optionalUserID(userID), ip)
		apiErr.WriteError(w)
		return
	}

	h.Audit.Record(ctx, attemptType, true, "", &userID, ip)
	httpx.WriteJSON(w, successStatus, ledgerapi.CodeResponse{Code: code})
}

// HandleVerify handles POST /v1/users/{id}/code/verify
//
//	@Summary		Verify a code
//	@Description	Compares the submitted code against the user's current code. A mismatch is a
//	@Description	normal outcome, returned as verified=false, never an error.
//	@Tags			Codes
//	@Security		AccessKey
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		ledgerapi.VerifyRequest		true	"Candidate code"
//	@Success		200		{object}	ledgerapi.VerifyResponse	"Verification outcome"
//	@Failure		400		{object}	ledgerapi.ErrorResponse		"Malformed request"
//	@Failure		404		{object}	ledgerapi.ErrorResponse		"User or code not found"
//	@Failure		429		{object}	ledgerapi.ErrorResponse		"Too many failed attempts"
//	@Router			/v1/users/{id}/code/verify [post].
func (h *CodesHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")
	ip := httpx.IPKeyExtractor(r)

	var req ledgerapi.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse verify request", "err", err)
		ledgerapi.ErrInvalidRequest.WriteError(w)
		return
	}

	// Brute-force throttle. Redis being down fails open; that only costs
	// us the throttle, not verification correctness.
	if err := h.Throttle.Check(ctx, userID); err != nil {
		if errors.Is(err, guard.ErrThrottled) {
			h.Audit.Record(ctx, domain.AttemptTypeVerify, false, ledgerapi.ErrorCodeTooManyAttempts, &userID, ip)
			ledgerapi.ErrTooManyAttempts.WriteError(w)
			return
		}
		log.Warn("verify throttle unavailable", "err", err)
	}

	verified, err := h.Ledger.Verify(ctx, userID, req.Code)
	if err != nil {
		apiErr := mapLedgerError(err)
		if apiErr == ledgerapi.ErrServerError {
			log.Error("verify failed", "user_id", userID, "err", err)
		}
		h.Audit.Record(ctx, domain.AttemptTypeVerify, false, apiErr.Code, optionalUserID(userID), ip)
		apiErr.WriteError(w)
		return
	}

	if verified {
		if err := h.Throttle.Reset(ctx, userID); err != nil {
			log.Warn("verify throttle reset failed", "err", err)
		}
		h.Audit.Record(ctx, domain.AttemptTypeVerify, true, "", &userID, ip)
	} else {
		if err := h.Throttle.RecordFailure(ctx, userID); err != nil {
			log.Warn("verify throttle record failed", "err", err)
		}
		h.Audit.Record(ctx, domain.AttemptTypeVerify, false, "code mismatch", &userID, ip)
	}

	httpx.WriteJSON(w, http.StatusOK, ledgerapi.VerifyResponse{Verified: verified})
}

// HandleState handles GET /v1/users/{id}/code
//
//	@Summary		Read code state
//	@Description	Returns the user's combined code state: the code, when it was generated, and
//	@Description	whether and when it was verified.
//	@Tags			Codes
//	@Security		AccessKey
//	@Produce		json
//	@Param			id	path		string						true	"User id"
//	@Success		200	{object}	ledgerapi.CodeStateResponse	"Combined code state"
//	@Failure		404	{object}	ledgerapi.ErrorResponse		"User not found"
//	@Router			/v1/users/{id}/code [get].
func (h *CodesHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")

	state, err := h.Ledger.State(ctx, userID)
	if err != nil {
		apiErr := mapLedgerError(err)
		if apiErr == ledgerapi.ErrServerError {
			log.Error("state read failed", "user_id", userID, "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ledgerapi.CodeStateResponse{
		Code:        state.Code,
		GeneratedAt: state.GeneratedAt,
		Verified:    state.Verified,
		VerifiedAt:  state.VerifiedAt,
	})
}

// HandleList handles GET /v1/users/codes
//
//	@Summary		List users with codes
//	@Description	Administrative listing of every user holding an active code. Rows are individually
//	@Description	consistent; there is no snapshot guarantee across the listing.
//	@Tags			Codes
//	@Security		AccessKey
//	@Produce		json
//	@Success		200	{array}		ledgerapi.UserCodeEntry	"Users and their codes"
//	@Failure		500	{object}	ledgerapi.ErrorResponse	"Internal server error"
//	@Router			/v1/users/codes [get].
func (h *CodesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.Ledger.ListWithCodes(ctx)
	if err != nil {
		log.Error("listing failed", "err", err)
		ledgerapi.ErrServerError.WriteError(w)
		return
	}

	entries := make([]ledgerapi.UserCodeEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, ledgerapi.UserCodeEntry{
			UserID:      u.UserID,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			Code:        u.Code,
			Verified:    u.Verified,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

// mapLedgerError translates service sentinels into API errors.
func mapLedgerError(err error) *ledgerapi.APIError {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return ledgerapi.ErrInvalidRequest
	case errors.Is(err, service.ErrUserNotFound):
		return ledgerapi.ErrUserNotFound
	case errors.Is(err, service.ErrCodeNotFound):
		return ledgerapi.ErrCodeNotFound
	case errors.Is(err, service.ErrConcurrentModification):
		return ledgerapi.ErrConcurrentModification
	case errors.Is(err, codegen.ErrRandomnessUnavailable):
		return ledgerapi.ErrRandomnessUnavailable
	case errors.Is(err, service.ErrEmailTaken):
		return ledgerapi.ErrEmailInUse
	default:
		return ledgerapi.ErrServerError
	}
}

// optionalUserID keeps blank path ids out of the audit log's user column.
func optionalUserID(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
