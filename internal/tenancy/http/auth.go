package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/aussiebroadwan/tenancy/pkg/validator"
)

type AuthHandler struct {
	TokenService *service.TokenService
	Validate     *validator.Validator
}

// Register godoc
//
//	@Summary		Register
//	@Description	Create an account and start a session. The email is normalised to lower case.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.RegisterRequest	true	"Register request"
//	@Success		201		{object}	tenancysdk.AuthResponse
//	@Failure		400		{object}	apierror.Response
//	@Failure		409		{object}	apierror.Response	"email already registered"
//	@Failure		422		{object}	apierror.Response
//	@Failure		429		{object}	apierror.Response
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req tenancysdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, badJSON())
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := h.Validate.Validate(req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.TokenService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authResponse(res))
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchange email and password for a token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.LoginRequest	true	"Login request"
//	@Success		200		{object}	tenancysdk.AuthResponse
//	@Failure		401		{object}	apierror.Response	"invalid email or password"
//	@Failure		422		{object}	apierror.Response
//	@Failure		429		{object}	apierror.Response
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req tenancysdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, badJSON())
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := h.Validate.Validate(req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.TokenService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authResponse(res))
}

// Refresh godoc
//
//	@Summary		Refresh
//	@Description	Rotate a refresh token. The presented token is revoked and a new pair is returned.
//	@Description	Presenting a revoked, expired or tampered token fails with 403.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.RefreshRequest	true	"Refresh request"
//	@Success		200		{object}	tenancysdk.TokenResponse
//	@Failure		401		{object}	apierror.Response	"malformed or unsigned token"
//	@Failure		403		{object}	apierror.Response	"revoked, expired or reused token"
//	@Failure		503		{object}	apierror.Response
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req tenancysdk.RefreshRequest
	if !decodeBody(w, r, h.Validate, &req, false) {
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// Logout godoc
//
//	@Summary		Logout
//	@Description	With refresh_token, revoke that session. Without it, revoke every session of the bearer.
//	@Description	Anonymous calls without a refresh token are a no-op.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.LogoutRequest	false	"Logout request"
//	@Success		200		{object}	tenancysdk.LogoutResponse
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tenancysdk.LogoutRequest
	if !decodeBody(w, r, h.Validate, &req, true) {
		return
	}

	if req.RefreshToken != "" {
		if err := h.TokenService.LogoutOne(ctx, req.RefreshToken); err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, tenancysdk.LogoutResponse{OK: true})
		return
	}

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, tenancysdk.LogoutResponse{OK: true})
		return
	}

	n, err := h.TokenService.LogoutAll(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	slogx.FromContext(ctx).Info("logged out everywhere", "user_id", userID, "revoked", n)
	httpx.WriteJSON(w, http.StatusOK, tenancysdk.LogoutResponse{OK: true, Revoked: n})
}

// Me godoc
//
//	@Summary		Current user
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	tenancysdk.UserResponse
//	@Failure		401	{object}	apierror.Response
//	@Failure		404	{object}	apierror.Response
//	@Security		BearerAuth
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.TokenService.Me(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

func userResponse(u domain.User) tenancysdk.UserResponse {
	return tenancysdk.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func tokenResponse(p domain.TokenPair) tenancysdk.TokenResponse {
	return tenancysdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    p.ExpiresIn,
	}
}

func authResponse(res domain.AuthResult) tenancysdk.AuthResponse {
	return tenancysdk.AuthResponse{
		User:          userResponse(res.User),
		TokenResponse: tokenResponse(res.Tokens),
	}
}
