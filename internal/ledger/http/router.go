package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/statelock/codeledger/internal/ledger/guard"
	"github.com/statelock/codeledger/internal/ledger/service"
	"github.com/statelock/codeledger/internal/ledger/store"
	"github.com/statelock/codeledger/pkg/httpx"
	"github.com/statelock/codeledger/pkg/slogx"

	_ "github.com/statelock/codeledger/api/ledger" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	accessKeyHash string
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	store            store.Store
	LedgerService    *service.LedgerService
	DirectoryService *service.DirectoryService
	AuditService     *service.AuditService
	VerifyThrottle   *guard.VerifyThrottle // Optional: nil disables the verify throttle
}

func NewRouter(
	accessKeyHash, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		accessKeyHash: accessKeyHash,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCodes()
	r.registerUsers()
	r.registerAttempts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CodeLedger API
//	@version		0.1.0
//	@description	Secret code ledger: issues, rotates and verifies a per-user unique code,
//	@description	keeping the user profile and the authoritative code record in lockstep.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	AccessKey
//	@in							header
//	@name						X-Access-Key
//	@description				Shared administrative access key.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCodes() {
	h := &CodesHandler{
		Ledger:   r.LedgerService,
		Audit:    r.AuditService,
		Throttle: r.VerifyThrottle,
	}

	// POST/PUT code - moderate rate limit by IP (admin mutations)
	securedIssue := httpx.Chain(http.HandlerFunc(h.HandleIssue),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)
	securedRotate := httpx.Chain(http.HandlerFunc(h.HandleRotate),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	// POST verify - strict rate limit by IP + target user to slow brute force
	securedVerify := httpx.Chain(http.HandlerFunc(h.HandleVerify),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIPAndPathValue(httpx.StrictLimit, "id"),
	)

	// GET state and listing - lenient rate limit (read-only)
	securedState := httpx.Chain(http.HandlerFunc(h.HandleState),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)

	r.Mux.Handle("POST /v1/users/{id}/code", securedIssue)
	r.Mux.Handle("PUT /v1/users/{id}/code", securedRotate)
	r.Mux.Handle("POST /v1/users/{id}/code/verify", securedVerify)
	r.Mux.Handle("GET /v1/users/{id}/code", securedState)
	r.Mux.Handle("GET /v1/users/codes", securedList)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		Directory: r.DirectoryService,
		Audit:     r.AuditService,
	}

	securedLookup := httpx.Chain(http.HandlerFunc(h.HandleLookup),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
	securedProvision := httpx.Chain(http.HandlerFunc(h.HandleProvision),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/users", securedLookup)
	r.Mux.Handle("POST /v1/users", securedProvision)
}

func (r *Router) registerAttempts() {
	h := &AttemptsHandler{Audit: r.AuditService}

	secured := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.RequireAccessKey(r.accessKeyHash),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/attempts", secured)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
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
