package http

import (
	"encoding/json"
	"net/http"

	"github.com/statelock/codeledger/internal/ledger/domain"
	"github.com/statelock/codeledger/internal/ledger/service"
	"github.com/statelock/codeledger/pkg/httpx"
	"github.com/statelock/codeledger/pkg/ledgerapi"
	"github.com/statelock/codeledger/pkg/slogx"
)

// UsersHandler exposes profile lookups and provisioning.
type UsersHandler struct {
	Directory *service.DirectoryService
	Audit     *service.AuditService
}

// HandleLookup handles GET /v1/users?email=
//
//	@Summary		Look up a user by email
//	@Description	Exact-match email lookup, returning the profile without code material.
//	@Tags			Users
//	@Security		AccessKey
//	@Produce		json
//	@Param			email	query		string					true	"Email address"
//	@Success		200		{object}	ledgerapi.UserResponse	"Matching profile"
//	@Failure		400		{object}	ledgerapi.ErrorResponse	"Missing email parameter"
//	@Failure		404		{object}	ledgerapi.ErrorResponse	"No user with that email"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.Directory.FindByEmail(ctx, r.URL.Query().Get("email"))
	if err != nil {
		apiErr := mapLedgerError(err)
		if apiErr == ledgerapi.ErrServerError {
			log.Error("email lookup failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleProvision handles POST /v1/users
//
//	@Summary		Provision a user
//	@Description	Creates a profile with no code. Issuing a code is a separate, explicit operation.
//	@Tags			Users
//	@Security		AccessKey
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ledgerapi.ProvisionRequest	true	"Profile to create"
//	@Success		201		{object}	ledgerapi.UserResponse		"Created profile"
//	@Failure		400		{object}	ledgerapi.ErrorResponse		"Malformed request"
//	@Failure		409		{object}	ledgerapi.ErrorResponse		"Id or email already in use"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	ip := httpx.IPKeyExtractor(r)

	var req ledgerapi.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse provision request", "err", err)
		ledgerapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.Directory.Provision(ctx, req.ID, req.DisplayName, req.Email); err != nil {
		apiErr := mapLedgerError(err)
		if apiErr == ledgerapi.ErrServerError {
			log.Error("provisioning failed", "user_id", req.ID, "err", err)
		}
		h.Audit.Record(ctx, domain.AttemptTypeAccess, false, apiErr.Code, optionalUserID(req.ID), ip)
		apiErr.WriteError(w)
		return
	}

	user, err := h.Directory.GetByID(ctx, req.ID)
	if err != nil {
		log.Error("failed to read back provisioned user", "user_id", req.ID, "err", err)
		ledgerapi.ErrServerError.WriteError(w)
		return
	}

	h.Audit.Record(ctx, domain.AttemptTypeAccess, true, "", &req.ID, ip)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func toUserResponse(user domain.UserProfile) ledgerapi.UserResponse {
	return ledgerapi.UserResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		HasCode:     user.CurrentCode != nil && *user.CurrentCode != "",
		Verified:    user.CodeVerified,
	}
}
