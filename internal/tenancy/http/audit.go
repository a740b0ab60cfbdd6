package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/apierror"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

type AuditHandler struct {
	AuditService *service.AuditService
}

// List godoc
//
//	@Summary		List audit logs
//	@Description	One page of the tenant's audit log, newest first. Requires ADMIN or OWNER.
//	@Tags			Audit
//	@Produce		json
//	@Param			tenantID	path		string	true	"Tenant ID"
//	@Param			page		query		int		false	"Page, from 1"			default(1)
//	@Param			pageSize	query		int		false	"Page size, at most 100"	default(20)
//	@Success		200			{object}	tenancysdk.AuditPageResponse
//	@Failure		400			{object}	apierror.Response
//	@Failure		403			{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/tenants/{tenantID}/audit-logs [get].
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	pageSize, ok := queryInt(w, r, "pageSize")
	if !ok {
		return
	}

	res, err := h.AuditService.List(r.Context(), chi.URLParam(r, "tenantID"), page, pageSize)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := tenancysdk.AuditPageResponse{
		Items:    make([]tenancysdk.AuditLogResponse, 0, len(res.Items)),
		Page:     res.Page,
		PageSize: res.PageSize,
		Total:    res.Total,
	}
	for _, e := range res.Items {
		out.Items = append(out.Items, tenancysdk.AuditLogResponse{
			ID:           e.ID,
			ActorUserID:  e.ActorUserID,
			Action:       e.Action,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			RequestID:    e.RequestID,
			IP:           e.IP,
			Metadata:     e.Metadata,
			CreatedAt:    e.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// queryInt parses an optional integer query parameter. Absent means 0.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		httpx.WriteError(w, r, apierror.BadRequest(name+" must be an integer"))
		return 0, false
	}
	return n, true
}
