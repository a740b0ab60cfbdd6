package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/aussiebroadwan/tenancy/pkg/validator"
)

type InviteHandler struct {
	InviteService *service.InviteService
	Validate      *validator.Validator
	ExposeTokens  bool
}

// Create godoc
//
//	@Summary		Invite a user
//	@Description	Invite an email address into the tenant. Role defaults to MEMBER and cannot exceed the inviter's.
//	@Description	A repeat invite for a pending address returns the existing invite and re-sends nothing twice.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			tenantID	path		string							true	"Tenant ID"
//	@Param			request		body		tenancysdk.CreateInviteRequest	true	"Invite"
//	@Success		201			{object}	tenancysdk.InviteResponse
//	@Failure		400			{object}	apierror.Response	"already a member"
//	@Failure		403			{object}	apierror.Response
//	@Failure		422			{object}	apierror.Response
//	@Failure		503			{object}	apierror.Response	"notification queue unavailable, retry"
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/invites [post].
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req tenancysdk.CreateInviteRequest
	if !decodeBody(w, r, h.Validate, &req, false) {
		return
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleMember
	}

	inv, err := h.InviteService.CreateInvite(ctx, chi.URLParam(r, "tenantID"), userID, req.Email, role, slogx.RequestIDFromContext(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := tenancysdk.InviteResponse{
		ID:        inv.ID,
		TenantID:  inv.TenantID,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Status:    string(inv.Status),
		ExpiresAt: inv.ExpiresAt,
	}
	if h.ExposeTokens {
		out.Token = inv.Token
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

// Accept godoc
//
//	@Summary		Accept an invite
//	@Description	Join the invite's tenant. The caller's email must match the invited address.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.AcceptInviteRequest	true	"Invite token"
//	@Success		200		{object}	tenancysdk.AcceptInviteResponse
//	@Failure		400		{object}	apierror.Response	"invite expired or no longer pending"
//	@Failure		403		{object}	apierror.Response	"invite issued to a different email"
//	@Failure		404		{object}	apierror.Response
//	@Failure		422		{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/invites/accept [post].
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req tenancysdk.AcceptInviteRequest
	if !decodeBody(w, r, h.Validate, &req, false) {
		return
	}

	res, err := h.InviteService.AcceptInvite(r.Context(), req.Token, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tenancysdk.AcceptInviteResponse{
		OK:       true,
		TenantID: res.TenantID,
		Role:     string(res.Role),
	})
}
