package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"

	_ "github.com/aussiebroadwan/clubhouse/api/club" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	limits       httpx.RateLimits
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	SessionService      *service.SessionService
	BootstrapService    *service.BootstrapService
	MemberService       *service.MemberService
	InvitationService   *service.InvitationService
	LedgerService       *service.LedgerService
	ReportService       *service.ReportService
	GalleryService      *service.GalleryService
	AnnouncementService *service.AnnouncementService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	limits httpx.RateLimits,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		limits:       limits,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerMe()
	r.registerMembers()
	r.registerLedger()
	r.registerGallery()
	r.registerAnnouncements()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Clubhouse Membership API
//	@version		0.1.0
//	@description	Member roster, dues and payments ledger, invitations, financial reporting, event gallery and announcements for a members club.
//	@description
//	@description				Amounts are decimal strings with two places. Dates are YYYY-MM-DD.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/clubhouse
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
//	@description				Session token from POST /v1/session. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed resolves the caller before the handler runs. Requests without a
// token continue as anonymous and the services decide what they may see.
func (r *Router) authed(h http.HandlerFunc, limit httpx.Middleware) http.Handler {
	return httpx.Chain(h,
		httpx.OptionalAuthnMiddleware(r.verifier),
		principalMiddleware(r.SessionService),
		limit,
	)
}

func (r *Router) registerSessions() {
	sessions := &SessionHandler{
		Sessions:    r.SessionService,
		Bootstrap:   r.BootstrapService,
		Invitations: r.InvitationService,
	}

	// Strict: sign-in is limited per IP and username
	r.Mux.Handle("POST /v1/session",
		httpx.Chain(http.HandlerFunc(sessions.Login),
			httpx.RateLimitByIPAndJSONField(r.limits.Strict, "username"),
		),
	)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(sessions.AcceptInvitation),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(http.HandlerFunc(sessions.BootstrapSystem),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)
}

func (r *Router) registerMe() {
	members := r.memberHandler()

	r.Mux.Handle("GET /v1/me", r.authed(members.GetSelf, httpx.RateLimitByUser(r.limits.Lenient)))
	r.Mux.Handle("PATCH /v1/me", r.authed(members.UpdateSelf, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("GET /v1/me/finances", r.authed(members.SelfFinances, httpx.RateLimitByUser(r.limits.Lenient)))
}

func (r *Router) memberHandler() *MemberHandler {
	return &MemberHandler{
		Members:     r.MemberService,
		Invitations: r.InvitationService,
		Ledger:      r.LedgerService,
	}
}

func (r *Router) registerMembers() {
	members := r.memberHandler()
	read := func() httpx.Middleware { return httpx.RateLimitByUser(r.limits.Lenient) }
	write := func() httpx.Middleware { return httpx.RateLimitByUser(r.limits.Moderate) }

	r.Mux.Handle("GET /v1/members", r.authed(members.List, read()))
	r.Mux.Handle("POST /v1/members", r.authed(members.Create, write()))
	r.Mux.Handle("POST /v1/members/import", r.authed(members.Import, write()))
	r.Mux.Handle("POST /v1/members/invites", r.authed(members.BulkInvite, write()))
	r.Mux.Handle("GET /v1/members/{id}", r.authed(members.Get, read()))
	r.Mux.Handle("PATCH /v1/members/{id}", r.authed(members.Update, write()))
	r.Mux.Handle("DELETE /v1/members/{id}", r.authed(members.Delete, write()))
	r.Mux.Handle("GET /v1/members/{id}/finances", r.authed(members.Finances, read()))
	r.Mux.Handle("PUT /v1/members/{id}/status", r.authed(members.SetStatus, write()))
	r.Mux.Handle("PUT /v1/members/{id}/role", r.authed(members.SetRole, write()))
	r.Mux.Handle("POST /v1/members/{id}/access", r.authed(members.ToggleAccess, write()))
	r.Mux.Handle("POST /v1/members/{id}/password-reset", r.authed(members.ResetPassword, write()))
	r.Mux.Handle("POST /v1/members/{id}/invitation", r.authed(members.Invite, write()))
}

func (r *Router) registerLedger() {
	ledger := &LedgerHandler{
		Ledger:  r.LedgerService,
		Reports: r.ReportService,
	}

	r.Mux.Handle("POST /v1/payments", r.authed(ledger.RecordPayment, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("POST /v1/dues", r.authed(ledger.CreateDue, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("POST /v1/dues/bulk", r.authed(ledger.BulkCreateDue, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("GET /v1/dues/recent", r.authed(ledger.RecentDues, httpx.RateLimitByUser(r.limits.Lenient)))
	r.Mux.Handle("GET /v1/reports/financial", r.authed(ledger.FinancialReport, httpx.RateLimitByUser(r.limits.Lenient)))
}

func (r *Router) registerGallery() {
	gallery := &GalleryHandler{Gallery: r.GalleryService}

	r.Mux.Handle("GET /v1/events", r.authed(gallery.List, httpx.RateLimitByIP(r.limits.Public)))
	r.Mux.Handle("GET /v1/events/{id}", r.authed(gallery.Get, httpx.RateLimitByIP(r.limits.Public)))
	r.Mux.Handle("POST /v1/events", r.authed(gallery.Create, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("PATCH /v1/events/{id}", r.authed(gallery.Update, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("DELETE /v1/events/{id}", r.authed(gallery.Delete, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("POST /v1/events/{id}/photos", r.authed(gallery.AddPhoto, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("DELETE /v1/photos/{id}", r.authed(gallery.DeletePhoto, httpx.RateLimitByUser(r.limits.Moderate)))
}

func (r *Router) registerAnnouncements() {
	announcements := &AnnouncementHandler{Announcements: r.AnnouncementService}

	r.Mux.Handle("GET /v1/announcements", r.authed(announcements.List, httpx.RateLimitByIP(r.limits.Public)))
	r.Mux.Handle("POST /v1/announcements", r.authed(announcements.Create, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("PATCH /v1/announcements/{id}", r.authed(announcements.Update, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("DELETE /v1/announcements/{id}", r.authed(announcements.Delete, httpx.RateLimitByUser(r.limits.Moderate)))
	r.Mux.Handle("PUT /v1/announcements/{id}/published", r.authed(announcements.SetPublished, httpx.RateLimitByUser(r.limits.Moderate)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
