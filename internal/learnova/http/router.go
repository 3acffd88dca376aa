package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/learnova/learnova/internal/learnova/metrics"
	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/slogx"

	_ "github.com/learnova/learnova/api/learnova" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// maxJSONBytes caps every JSON request body.
const maxJSONBytes = 1 << 20

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *metrics.Metrics
	limiters     httpx.LimiterFactory

	AuthService         *service.AuthService
	SettingsService     *service.SettingsService
	BootstrapService    *service.BootstrapService
	RolesService        *service.RolesService
	OrganizationService *service.OrganizationService
	CourseService       *service.CourseService
	InvitationService   *service.InvitationService
}

// NewRouter creates a router. A nil limiters factory keeps rate limits in
// process memory; a nil m disables /metrics.
func NewRouter(
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	limiters httpx.LimiterFactory,
	logger *slog.Logger,
) *Router {
	if limiters == nil {
		limiters = httpx.MemoryLimiters
	}
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		metrics:      m,
		limiters:     limiters,
	}

	// The metrics middleware reads the matched pattern, so it sits last.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		m.Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerBootstrap()
	r.registerAuth()
	r.registerSettings()
	r.registerAdmin()
	r.registerOrganizations()
	r.registerCourses()
	r.registerInvitations()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Learnova Platform API
//	@version		0.1.0
//	@description	Accounts, organizations, courses and course invitations for the Learnova learning platform.
//	@description
//	@description				Access tokens are HS256 JWTs obtained from /v1/auth/login.
//
//	@contact.name				Learnova Team
//	@contact.url				https://github.com/learnova/learnova
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
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// byIP limits a public route per client address.
func (r *Router) byIP(scope string, cfg httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimit(r.limiters(scope, cfg), cfg, httpx.IPKeyExtractor)
}

// byIPAndField limits a public route per client address and JSON field.
func (r *Router) byIPAndField(scope string, cfg httpx.RateLimitConfig, field string) httpx.Middleware {
	return httpx.RateLimit(r.limiters(scope, cfg), cfg, httpx.CompositeKeyExtractor(":",
		httpx.IPKeyExtractor,
		httpx.JSONFieldKeyExtractor(field),
	))
}

// public wraps an unauthenticated JSON route.
func (r *Router) public(h http.Handler, limit httpx.Middleware) http.Handler {
	return httpx.Chain(h, httpx.MaxBodyBytes(maxJSONBytes), limit)
}

// secured wraps a route behind the identity middleware with a per-user limit.
func (r *Router) secured(h http.HandlerFunc, scope string, cfg httpx.RateLimitConfig, bodyLimit int64) http.Handler {
	return httpx.Chain(h,
		httpx.MaxBodyBytes(bodyLimit),
		IdentityMiddleware(r.AuthService),
		httpx.RateLimit(r.limiters(scope, cfg), cfg, httpx.CompositeKeyExtractor(":",
			httpx.UserIDKeyExtractor,
			httpx.IPKeyExtractor,
		)),
	)
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap", r.public(h, r.byIP("bootstrap", httpx.StrictLimit)))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/auth/register",
		r.public(http.HandlerFunc(h.HandleRegister), r.byIP("register", httpx.StrictLimit)))
	r.Mux.Handle("GET /v1/auth/verify-email",
		r.public(http.HandlerFunc(h.HandleVerifyEmail), r.byIP("verify", httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/verify-email/resend",
		r.public(http.HandlerFunc(h.HandleResendVerification), r.byIP("resend", httpx.StrictLimit)))

	// Login is limited per address and per target email to slow credential stuffing
	r.Mux.Handle("POST /v1/auth/login",
		r.public(http.HandlerFunc(h.HandleLogin), r.byIPAndField("login", httpx.StrictLimit, "email")))

	r.Mux.Handle("POST /v1/auth/forgot-password",
		r.public(http.HandlerFunc(h.HandleForgotPassword), r.byIP("forgot", httpx.StrictLimit)))
	r.Mux.Handle("POST /v1/auth/reset-password",
		r.public(http.HandlerFunc(h.HandleResetPassword), r.byIP("reset", httpx.StrictLimit)))

	r.Mux.Handle("GET /v1/me", r.secured(h.HandleMe, "me", httpx.LenientLimit, maxJSONBytes))
}

func (r *Router) registerSettings() {
	h := &SettingsHandler{SettingsService: r.SettingsService}

	r.Mux.Handle("PATCH /v1/settings/profile",
		r.secured(h.HandleUpdateProfile, "profile", httpx.ModerateLimit, maxJSONBytes))
	r.Mux.Handle("POST /v1/settings/password",
		r.secured(h.HandleChangePassword, "password", httpx.StrictLimit, maxJSONBytes))
	r.Mux.Handle("POST /v1/settings/delete-account/request",
		r.secured(h.HandleRequestDeletion, "delete_request", httpx.StrictLimit, maxJSONBytes))
	r.Mux.Handle("POST /v1/settings/delete-account/confirm",
		r.secured(h.HandleConfirmDeletion, "delete_confirm", httpx.StrictLimit, maxJSONBytes))
}

func (r *Router) registerAdmin() {
	h := &RolesHandler{RolesService: r.RolesService}
	r.Mux.Handle("PUT /v1/admin/users/{id}/role",
		r.secured(h.ServeHTTP, "assign_role", httpx.ModerateLimit, maxJSONBytes))
}

func (r *Router) registerOrganizations() {
	h := &OrganizationsHandler{OrganizationService: r.OrganizationService}

	r.Mux.Handle("POST /v1/organizations",
		r.secured(h.HandleCreate, "org_create", httpx.ModerateLimit, maxJSONBytes))
	r.Mux.Handle("GET /v1/organizations",
		r.secured(h.HandleList, "org_list", httpx.LenientLimit, maxJSONBytes))
	r.Mux.Handle("GET /v1/organizations/{id}/join-requests",
		r.secured(h.HandleJoinRequests, "join_requests", httpx.LenientLimit, maxJSONBytes))
	r.Mux.Handle("PATCH /v1/organizations/{id}/members/{member_id}",
		r.secured(h.HandleUpdateMember, "member_status", httpx.ModerateLimit, maxJSONBytes))
}

func (r *Router) registerCourses() {
	h := &CoursesHandler{CourseService: r.CourseService}

	r.Mux.Handle("POST /v1/courses",
		r.secured(h.HandleCreate, "course_create", httpx.ModerateLimit, maxJSONBytes))
	r.Mux.Handle("GET /v1/courses/my",
		r.secured(h.HandleMine, "course_mine", httpx.LenientLimit, maxJSONBytes))
	r.Mux.Handle("GET /v1/courses/{id}",
		r.secured(h.HandleGet, "course_get", httpx.LenientLimit, maxJSONBytes))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("POST /v1/courses/{id}/invitations/upload",
		r.secured(h.HandleUpload, "invite_upload", httpx.ModerateLimit, MaxRosterBytes))
	r.Mux.Handle("POST /v1/courses/{id}/invitations/send",
		r.secured(h.HandleSend, "invite_send", httpx.ModerateLimit, maxJSONBytes))
	r.Mux.Handle("GET /v1/courses/{id}/invitations",
		r.secured(h.HandleList, "invite_list", httpx.LenientLimit, maxJSONBytes))
	r.Mux.Handle("POST /v1/courses/{id}/invitations/{invitation_id}/revoke",
		r.secured(h.HandleRevoke, "invite_revoke", httpx.ModerateLimit, maxJSONBytes))
	r.Mux.Handle("POST /v1/courses/invitations/accept",
		r.secured(h.HandleAccept, "invite_accept", httpx.StrictLimit, maxJSONBytes))
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.byIP("livez", httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			r.byIP("readyz", httpx.LenientLimit),
		),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
