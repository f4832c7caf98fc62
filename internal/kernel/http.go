// Package kernel assembles the HTTP handler: global middleware, the route
// table and the collaborators behind it.
package kernel

import (
	"context"
	"net/http"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/cafehub/app/controllers"
	"github.com/shashiranjanraj/cafehub/app/repositories"
	"github.com/shashiranjanraj/cafehub/app/routes"
	"github.com/shashiranjanraj/cafehub/app/services"
	"github.com/shashiranjanraj/cafehub/pkg/auth"
	"github.com/shashiranjanraj/cafehub/pkg/cache"
	"github.com/shashiranjanraj/cafehub/pkg/crypt"
	"github.com/shashiranjanraj/cafehub/pkg/database"
	"github.com/shashiranjanraj/cafehub/pkg/event"
	"github.com/shashiranjanraj/cafehub/pkg/logger"
	"github.com/shashiranjanraj/cafehub/pkg/metrics"
	"github.com/shashiranjanraj/cafehub/pkg/middleware"
	"github.com/shashiranjanraj/cafehub/pkg/reqid"
	"github.com/shashiranjanraj/cafehub/pkg/response"
	"github.com/shashiranjanraj/cafehub/pkg/router"
	"github.com/shashiranjanraj/cafehub/pkg/session"
)

// Deps are the process-level resources the kernel wires together.
type Deps struct {
	DB          *gorm.DB
	Cache       cache.Store
	Hasher      auth.PasswordHasher
	AppKey      string
	Session     session.Options
	CORSOrigins []string
}

// HTTPKernel owns the router built from Deps.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the full handler graph.
func NewHTTPKernel(d Deps) (*HTTPKernel, error) {
	if d.DB == nil || d.Cache == nil || d.Hasher == nil {
		return nil, oops.Code("KERNEL_MISSING_DEPENDENCY").Errorf("kernel: db, cache and hasher are required")
	}
	sessionKey, err := crypt.DeriveKey(d.AppKey, "session")
	if err != nil {
		return nil, oops.Code("KERNEL_BAD_APP_KEY").Wrap(err)
	}
	flashKey, err := crypt.DeriveKey(d.AppKey, "flash")
	if err != nil {
		return nil, oops.Code("KERNEL_BAD_APP_KEY").Wrap(err)
	}
	flashes, err := crypt.New(flashKey)
	if err != nil {
		return nil, oops.Code("KERNEL_BAD_APP_KEY").Wrap(err)
	}

	users := repositories.NewUserRepository(d.DB)
	cafes := repositories.NewCafeRepository(d.DB)

	bus := event.New()
	bus.Listen(audit, event.UserRegistered, event.CafeAdded, event.CafeRemoved)

	sessions := session.NewManager(d.Session, auth.NewTokenSigner(sessionKey), flashes, users, d.Cache)
	authSvc := services.NewAuthService(users, d.Hasher).WithEvents(bus)
	cafeSvc := services.NewCafeService(cafes, users).WithEvents(bus)

	r := router.New()

	// Global middleware stack, outermost first:
	//  1. Prometheus metrics  (total latency)
	//  2. Recovery            (panics become a 500)
	//  3. Request ID          (before anything logs)
	//  4. Logger              (request_id from context)
	//  5. CORS                (headers, preflight)
	//  6. Session             (principal resolved once per request)
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFor(d.CORSOrigins)))
	r.Use(sessions.Middleware())

	mount(r, routes.Deps{
		Cafes:   controllers.NewCafeController(cafeSvc, sessions),
		Auth:    controllers.NewAuthController(authSvc, sessions, users),
		Flasher: sessions,
		Admins:  users,
	}, health(d.DB))

	return &HTTPKernel{router: r}, nil
}

// Handler returns the root handler to serve.
func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the registered routes.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

// RouteTable lists the routes without opening any resources.
func RouteTable() []router.RouteInfo {
	r := router.New()
	mount(r, routes.Deps{}, http.NotFoundHandler())
	return r.Routes()
}

func mount(r *router.Router, d routes.Deps, healthz http.Handler) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Mount(http.MethodGet, "/metrics", metrics.Handler())
	r.Mount(http.MethodGet, "/health", healthz)

	routes.RegisterAPI(r, d)
}

func health(db *gorm.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := database.WithTimeout(r.Context())
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	})
}

// audit records every registry change with the request's logger.
func audit(ctx context.Context, name event.Name, p event.Payload) {
	metrics.RegistryEvents.WithLabelValues(string(name)).Inc()
	logger.WithCtx(ctx).Info("audit",
		"event", string(name),
		"actor_id", p.ActorID,
		"user_id", p.UserID,
		"cafe_id", p.CafeID,
		"cafe_name", p.CafeName,
	)
}
