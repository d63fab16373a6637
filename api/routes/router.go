package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alanhoffer/hf-dashboard/api/controllers"
	dashboardcontrollers "github.com/alanhoffer/hf-dashboard/api/controllers/dashboard"
	ordercontrollers "github.com/alanhoffer/hf-dashboard/api/controllers/orders"
	productioncontrollers "github.com/alanhoffer/hf-dashboard/api/controllers/productions"
	reportcontrollers "github.com/alanhoffer/hf-dashboard/api/controllers/reports"
	stockcontrollers "github.com/alanhoffer/hf-dashboard/api/controllers/stock"
	"github.com/alanhoffer/hf-dashboard/api/middleware"
	"github.com/alanhoffer/hf-dashboard/internal/auth"
	"github.com/alanhoffer/hf-dashboard/internal/dashboard"
	"github.com/alanhoffer/hf-dashboard/internal/orders"
	"github.com/alanhoffer/hf-dashboard/internal/productions"
	"github.com/alanhoffer/hf-dashboard/internal/reports"
	"github.com/alanhoffer/hf-dashboard/internal/stock"
	"github.com/alanhoffer/hf-dashboard/pkg/auth/session"
	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	"github.com/alanhoffer/hf-dashboard/pkg/logger"
	"github.com/alanhoffer/hf-dashboard/pkg/metrics"
	"github.com/alanhoffer/hf-dashboard/pkg/redis"
)

// Services groups the domain services mounted under /api.
type Services struct {
	Auth        auth.Service
	Users       controllers.UsersService
	Orders      orders.Service
	Productions productions.Service
	Stock       stock.Service
	Dashboard   dashboard.Service
	Reports     reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}

	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["db"] = dbP
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if redisClient != nil {
				r.With(middleware.LoginRateLimit(cfg.AuthRateLimit, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			} else {
				r.Post("/login", controllers.AuthLogin(svc.Auth, logg))
			}
			r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, sessions, logg)).Get("/me", controllers.AuthMe(svc.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin, enums.UserRoleOperator))

			mountOrders := func(r chi.Router) {
				r.Get("/", ordercontrollers.List(svc.Orders, logg))
				r.Post("/", ordercontrollers.Create(svc.Orders, logg))
				r.Get("/{id}", ordercontrollers.Get(svc.Orders, logg))
				r.Patch("/{id}/status", ordercontrollers.UpdateStatus(svc.Orders, logg))
			}
			r.Route("/orders", mountOrders)
			r.Route("/order", mountOrders)

			r.Route("/productions", func(r chi.Router) {
				r.Get("/", productioncontrollers.List(svc.Productions, logg))
				r.Post("/", productioncontrollers.Create(svc.Productions, logg))
				r.Get("/{id}", productioncontrollers.Get(svc.Productions, logg))
				r.Patch("/{id}/acceptance", productioncontrollers.RecordAcceptance(svc.Productions, logg))
			})

			r.Route("/stock", func(r chi.Router) {
				r.Get("/", stockcontrollers.Available(svc.Stock, logg))
				r.Get("/all", stockcontrollers.All(svc.Stock, logg))
				r.Post("/sell", stockcontrollers.Sell(svc.Stock, logg))
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", dashboardcontrollers.Stats(svc.Dashboard, logg))
				r.Get("/upcoming", dashboardcontrollers.Upcoming(svc.Dashboard, logg))
				r.Get("/expiring", dashboardcontrollers.Expiring(svc.Dashboard, logg))
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/orders", reportcontrollers.OrderHistory(svc.Reports, logg))
				r.Get("/productions", reportcontrollers.ProductionHistory(svc.Reports, logg))
			})

			r.Route("/exports", func(r chi.Router) {
				r.Get("/orders", reportcontrollers.ExportOrders(svc.Reports, logg))
				r.Get("/productions", reportcontrollers.ExportProductions(svc.Reports, logg))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
			r.Get("/", controllers.AdminListUsers(svc.Users, logg))
			r.Post("/", controllers.AdminCreateUser(svc.Users, logg))
			r.Delete("/{id}", controllers.AdminDeactivateUser(svc.Users, logg))
		})
	})

	return r
}
