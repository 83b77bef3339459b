package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/internal/hadir/store"
	"github.com/pharmahadir/hadir/internal/hadir/tabular"
	"github.com/pharmahadir/hadir/pkg/httpx"
	"github.com/pharmahadir/hadir/pkg/jwtx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer        *jwtx.Signer
	buildVersion  string
	publicBaseURL string
	location      *time.Location
	startTime     time.Time
	logger        *slog.Logger

	store          store.Store
	codec          tabular.Codec
	RosterService  *service.RosterService
	RSVPService    *service.RSVPService
	ImportService  *service.ImportService
	ExportService  service.ExportService
	SessionService *service.SessionService
}

func NewRouter(
	signer *jwtx.Signer,
	buildVersion, publicBaseURL string,
	location *time.Location,
	st store.Store,
	codec tabular.Codec,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		signer:        signer,
		buildVersion:  buildVersion,
		publicBaseURL: publicBaseURL,
		location:      location,
		startTime:     time.Now(),
		store:         st,
		codec:         codec,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerGuests()
	r.registerTransfer()
	r.registerEvent()
	r.registerWatch()
	r.registerInvitations()
	r.registerSession()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// admin wraps a handler with session auth plus the given rate limit.
func (r *Router) admin(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.signer),
		httpx.RateLimitByIP(limit),
	)
}

func (r *Router) registerGuests() {
	h := &GuestsHandler{
		Roster:        r.RosterService,
		RSVP:          r.RSVPService,
		PublicBaseURL: r.publicBaseURL,
	}

	r.Mux.Handle("POST /v1/guests", r.admin(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/guests", r.admin(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/guests/{id}", r.admin(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/guests/{id}", r.admin(http.HandlerFunc(h.HandlePatch), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/guests/{id}", r.admin(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))

	stats := &StatsHandler{Roster: r.RosterService}
	r.Mux.Handle("GET /v1/roster/stats", r.admin(stats, httpx.LenientLimit))
}

func (r *Router) registerTransfer() {
	h := &TransferHandler{
		Roster: r.RosterService,
		Import: r.ImportService,
		Export: r.ExportService,
		Codec:  r.codec,
	}

	// Import is the heaviest write on the service; keep it strict.
	r.Mux.Handle("POST /v1/roster/import", r.admin(http.HandlerFunc(h.HandleImport), httpx.StrictLimit))
	r.Mux.Handle("GET /v1/roster/export", r.admin(http.HandlerFunc(h.HandleExport), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/roster/template", r.admin(http.HandlerFunc(h.HandleTemplate), httpx.LenientLimit))
}

func (r *Router) registerEvent() {
	h := &EventHandler{Roster: r.RosterService}

	r.Mux.Handle("GET /v1/event", r.admin(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/event", r.admin(http.HandlerFunc(h.HandlePut), httpx.ModerateLimit))
}

func (r *Router) registerWatch() {
	h := &WatchHandler{
		Roster:        r.RosterService,
		PublicBaseURL: r.publicBaseURL,
	}

	// Streams hold a connection per admin tab; the limit only gates
	// connection churn, not stream duration.
	r.Mux.Handle("GET /v1/roster/watch", r.admin(http.HandlerFunc(h.HandleGuests), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/event/watch", r.admin(http.HandlerFunc(h.HandleEvent), httpx.LenientLimit))
}

func (r *Router) registerInvitations() {
	h := &InvitationHandler{
		Roster:   r.RosterService,
		RSVP:     r.RSVPService,
		Location: r.location,
	}

	// Public endpoints: no auth, guests reach these from their invitation
	// link. Keyed by IP plus guest id so one hammered link does not starve
	// other guests behind the same NAT.
	r.Mux.Handle("GET /v1/invitations/{guestID}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimit(httpx.LenientLimit, httpx.PathValueKeyExtractor("guestID")),
		),
	)
	r.Mux.Handle("POST /v1/invitations/{guestID}/rsvp",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.RateLimit(httpx.StrictLimit, httpx.PathValueKeyExtractor("guestID")),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService}

	// POST /v1/admin/session - strict rate limit by IP (key guessing)
	r.Mux.Handle("POST /v1/admin/session",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may
	// poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
