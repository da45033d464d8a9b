package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/digifund/digifund-backend/api/controllers"
	"github.com/digifund/digifund-backend/api/middleware"
	authsvc "github.com/digifund/digifund-backend/internal/auth"
	"github.com/digifund/digifund-backend/internal/customers"
	"github.com/digifund/digifund-backend/internal/dashboard"
	"github.com/digifund/digifund-backend/internal/export"
	"github.com/digifund/digifund-backend/internal/insights"
	"github.com/digifund/digifund-backend/internal/inventory"
	"github.com/digifund/digifund-backend/internal/invoices"
	"github.com/digifund/digifund-backend/internal/relationships"
	"github.com/digifund/digifund-backend/pkg/auth/session"
	"github.com/digifund/digifund-backend/pkg/config"
	"github.com/digifund/digifund-backend/pkg/logger"
	"github.com/digifund/digifund-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	promRegistry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	sessionChecker session.AccessSessionChecker,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	inventoryService inventory.Service,
	invoiceService invoices.Service,
	relationshipService relationships.Service,
	customerService customers.Service,
	dashboardService dashboard.Service,
	insightService insights.Service,
	exportService export.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbPinger,
			"redis":    redisPinger,
		}))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Post("/auth/logout", controllers.AuthLogout(authService, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(inventoryService, logg))
			r.Post("/", controllers.InventoryUpsert(inventoryService, logg))
			r.Get("/{inventoryId}", controllers.InventoryGet(inventoryService, logg))
			r.Patch("/{inventoryId}", controllers.InventoryUpdate(inventoryService, logg))
			r.Delete("/{inventoryId}", controllers.InventoryDelete(inventoryService, logg))
			r.Post("/{inventoryId}/decrease", controllers.InventoryDecrease(inventoryService, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(invoiceService, logg))
			r.Post("/", controllers.InvoiceCreate(invoiceService, logg))
			r.Get("/{invoiceNumber}", controllers.InvoiceGet(invoiceService, logg))
			r.Patch("/{invoiceNumber}", controllers.InvoiceUpdate(invoiceService, logg))
			r.Delete("/{invoiceNumber}", controllers.InvoiceDelete(invoiceService, logg))
			r.Post("/{invoiceNumber}/status", controllers.InvoiceUpdateStatus(invoiceService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(customerService, logg))
			r.Post("/", controllers.CustomerCreate(customerService, logg))
			r.Get("/{customerId}", controllers.CustomerGet(customerService, logg))
			r.Patch("/{customerId}", controllers.CustomerUpdate(customerService, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(customerService, logg))
		})

		r.Route("/relationships", func(r chi.Router) {
			r.Post("/requests", controllers.RelationshipSendRequest(relationshipService, logg))
			r.Get("/requests", controllers.RelationshipListRequests(relationshipService, logg))
			r.Post("/requests/{requestId}/respond", controllers.RelationshipRespond(relationshipService, logg))
			r.Get("/suppliers", controllers.RelationshipListSuppliers(relationshipService, logg))
			r.Get("/consumers", controllers.RelationshipListConsumers(relationshipService, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", controllers.DashboardSummary(dashboardService, logg))
			r.Get("/monthly", controllers.DashboardMonthly(dashboardService, logg))
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/search", controllers.InsightsSearch(insightService, logg))
			r.Post("/ask", controllers.InsightsAsk(insightService, logg))
			r.Get("/anomalies", controllers.InsightsAnomalies(insightService, logg))
			r.Get("/items/{inventoryId}/summary", controllers.InsightsProductSummary(insightService, logg))
		})

		r.Get("/export/{entity}.csv", controllers.ExportCSV(exportService, logg))
	})

	return r
}
