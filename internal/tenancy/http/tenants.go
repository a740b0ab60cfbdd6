package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/aussiebroadwan/tenancy/pkg/validator"
)

type TenantHandler struct {
	TenantService *service.TenantService
	Validate      *validator.Validator
}

// Create godoc
//
//	@Summary		Create tenant
//	@Description	Create a tenant. The caller becomes its OWNER.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.CreateTenantRequest	true	"Tenant"
//	@Success		201		{object}	tenancysdk.TenantResponse
//	@Failure		400		{object}	apierror.Response
//	@Failure		409		{object}	apierror.Response	"slug already taken"
//	@Failure		422		{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/tenants [post].
func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req tenancysdk.CreateTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, badJSON())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if err := h.Validate.Validate(req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	tenant, err := h.TenantService.CreateTenant(r.Context(), userID, req.Name, req.Slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tenantResponse(tenant, domain.RoleOwner))
}

// ListMine godoc
//
//	@Summary		List my tenants
//	@Description	Tenants the caller belongs to with the caller's role, newest first.
//	@Tags			Tenants
//	@Produce		json
//	@Success		200	{object}	tenancysdk.ListTenantsResponse
//	@Failure		401	{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/tenants [get].
func (h *TenantHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := h.TenantService.ListMyTenants(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := tenancysdk.ListTenantsResponse{Tenants: make([]tenancysdk.TenantResponse, 0, len(rows))}
	for _, row := range rows {
		out.Tenants = append(out.Tenants, tenantResponse(row.Tenant, row.Role))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Get godoc
//
//	@Summary		Get tenant
//	@Tags			Tenants
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	tenancysdk.TenantResponse
//	@Failure		403			{object}	apierror.Response	"not a member"
//	@Failure		404			{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID} [get].
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, _ := MembershipFromContext(r.Context())

	tenant, err := h.TenantService.GetTenant(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tenantResponse(tenant, m.Role))
}

// ListMembers godoc
//
//	@Summary		List members
//	@Description	Members ordered OWNER, ADMIN, MEMBER, then by join time. Requires ADMIN or OWNER.
//	@Tags			Tenants
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Success		200			{object}	tenancysdk.ListMembersResponse
//	@Failure		403			{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/members [get].
func (h *TenantHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.TenantService.ListMembers(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := tenancysdk.ListMembersResponse{Members: make([]tenancysdk.MemberResponse, 0, len(rows))}
	for _, m := range rows {
		out.Members = append(out.Members, tenancysdk.MemberResponse{
			UserID:   m.UserID,
			Email:    m.Email,
			Name:     m.Name,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func tenantResponse(t domain.Tenant, role domain.Role) tenancysdk.TenantResponse {
	return tenancysdk.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		Role:      string(role),
	}
}
