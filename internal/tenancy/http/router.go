package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/validator"

	_ "github.com/aussiebroadwan/tenancy/api/tenancy" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultRequestTimeout bounds a single request when Router.RequestTimeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         chi.Router
	middlewares []httpx.Middleware
	handler     http.Handler

	validate     *validator.Validator
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	// Redis is pinged by /readyz when set.
	Redis redis.UniversalClient

	TokenService  *service.TokenService
	Authorizer    *service.MembershipAuthorizer
	TenantService *service.TenantService
	InviteService *service.InviteService
	AuditService  *service.AuditService

	// ExposeInviteTokens returns the invite token in the create response.
	// Development only: in production the token travels by email.
	ExposeInviteTokens bool

	RequestTimeout time.Duration

	// Rate limit profiles, defaulting to the httpx profiles.
	CredentialLimit httpx.RateLimitConfig
	WriteLimit      httpx.RateLimitConfig
	ReadLimit       httpx.RateLimitConfig
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	v := validator.New()
	roles := make([]string, 0, 3)
	for _, r := range domain.AllRoles() {
		roles = append(roles, string(r))
	}
	v.RegisterEnum("role", roles...)

	r := &Router{
		Mux:          chi.NewRouter(),
		validate:     v,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,

		CredentialLimit: httpx.CredentialLimit,
		WriteLimit:      httpx.WriteLimit,
		ReadLimit:       httpx.ReadLimit,
	}

	// Outermost first: tracing, then request id and logging, then client ip.
	r.middlewares = []httpx.Middleware{
		otelhttp.NewMiddleware("tenancy"),
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientIPMiddleware,
	}

	return r
}

// ApplyRoutes registers every route. Services must be set before calling it,
// and it must run before the first request.
func (r *Router) ApplyRoutes() {
	timeout := r.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	r.Mux.Use(middleware.Recoverer, metrics.HTTPMiddleware, middleware.Timeout(timeout))
	r.Mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(w, req, apiNotFound())
	})

	r.Mux.Route("/v1", func(v1 chi.Router) {
		r.registerAuth(v1)
		r.registerTenants(v1)
	})
	r.registerSystem()

	r.Mux.Get("/swagger/*", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tenancy Service API
//	@version		0.1.0
//	@description	Multi-tenant authentication core: accounts, rotating bearer sessions, tenants with OWNER/ADMIN/MEMBER roles, and email invitations.
//	@description
//	@description				Access tokens are HS256 JWTs. Refresh tokens are single use and rotate on every refresh.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tenancy
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth(v1 chi.Router) {
	h := &AuthHandler{TokenService: r.TokenService, Validate: r.validate}
	authn := httpx.AuthnMiddleware(r.TokenService.AccessVerifier())
	optionalAuthn := httpx.OptionalAuthnMiddleware(r.TokenService.AccessVerifier())
	credentials := httpx.RateLimitByIP(r.CredentialLimit)

	v1.Route("/auth", func(ar chi.Router) {
		// Credential endpoints share one strict per-IP limiter.
		ar.With(credentials).Post("/register", h.Register)
		ar.With(credentials).Post("/login", h.Login)
		ar.With(credentials).Post("/refresh", h.Refresh)

		ar.With(optionalAuthn, httpx.RateLimitByUser(r.WriteLimit)).Post("/logout", h.Logout)
		ar.With(authn, httpx.RateLimitByUser(r.ReadLimit)).Get("/me", h.Me)
	})
}

func (r *Router) registerTenants(v1 chi.Router) {
	tenants := &TenantHandler{TenantService: r.TenantService, Validate: r.validate}
	invites := &InviteHandler{
		InviteService: r.InviteService,
		Validate:      r.validate,
		ExposeTokens:  r.ExposeInviteTokens,
	}
	audit := &AuditHandler{AuditService: r.AuditService}

	reads := httpx.RateLimitByUser(r.ReadLimit)
	writes := httpx.RateLimitByUser(r.WriteLimit)
	admins := RequireRoles(r.Authorizer, domain.RoleAdmin, domain.RoleOwner)

	v1.Group(func(pr chi.Router) {
		pr.Use(httpx.AuthnMiddleware(r.TokenService.AccessVerifier()))

		pr.With(writes).Post("/tenants", tenants.Create)
		pr.With(reads).Get("/tenants", tenants.ListMine)
		pr.With(writes).Post("/invites/accept", invites.Accept)

		pr.Route("/tenants/{tenantID}", func(tr chi.Router) {
			tr.Use(TenantAccess(r.Authorizer))

			tr.With(reads).Get("/", tenants.Get)
			tr.With(admins, reads).Get("/members", tenants.ListMembers)
			tr.With(admins, writes).Post("/invites", invites.Create)
			tr.With(admins, reads).Get("/audit-logs", audit.List)
		})
	})
}

func (r *Router) registerSystem() {
	r.Mux.Get("/livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Get("/readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Redis))
	r.Mux.Handle("/metrics", promhttp.Handler())
}
