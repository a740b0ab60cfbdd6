package tenancysdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Me returns the session's user.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateTenant creates a tenant owned by the session's user.
func (s *Session) CreateTenant(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/tenants", req)
	if err != nil {
		return nil, err
	}

	var tenant TenantResponse
	if err := decodeJSON(resp, &tenant, http.StatusCreated); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListTenants lists the tenants the session's user belongs to.
func (s *Session) ListTenants(ctx context.Context) (*ListTenantsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/tenants", nil)
	if err != nil {
		return nil, err
	}

	var out ListTenantsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTenant fetches a tenant the session's user is a member of.
func (s *Session) GetTenant(ctx context.Context, tenantID string) (*TenantResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/tenants/"+url.PathEscape(tenantID), nil)
	if err != nil {
		return nil, err
	}

	var tenant TenantResponse
	if err := decodeJSON(resp, &tenant, http.StatusOK); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListMembers lists a tenant's members. Requires ADMIN or OWNER.
func (s *Session) ListMembers(ctx context.Context, tenantID string) (*ListMembersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/tenants/"+url.PathEscape(tenantID)+"/members", nil)
	if err != nil {
		return nil, err
	}

	var out ListMembersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvite invites an email address into a tenant. Requires ADMIN or OWNER.
func (s *Session) CreateInvite(ctx context.Context, tenantID string, req CreateInviteRequest) (*InviteResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/tenants/"+url.PathEscape(tenantID)+"/invites", req)
	if err != nil {
		return nil, err
	}

	var invite InviteResponse
	if err := decodeJSON(resp, &invite, http.StatusCreated); err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInvite redeems an invite token for the session's user.
func (s *Session) AcceptInvite(ctx context.Context, token string) (*AcceptInviteResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invites/accept", AcceptInviteRequest{Token: token})
	if err != nil {
		return nil, err
	}

	var out AcceptInviteResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAuditLogs returns one page of a tenant's audit log. Zero page or
// pageSize use the server defaults.
func (s *Session) ListAuditLogs(ctx context.Context, tenantID string, page, pageSize int) (*AuditPageResponse, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", fmt.Sprint(pageSize))
	}
	path := "/v1/tenants/" + url.PathEscape(tenantID) + "/audit-logs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out AuditPageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
