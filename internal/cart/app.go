package cart

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ShopCart/internal/session"
	"ShopCart/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
	AdminToken     string

	SessionLimitPerMin int
}

const defaultSessionLimitPerMin = 10

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Receipts == nil {
		s.Receipts = NewMemReceiptStore()
	}
	if s.Metrics == nil && deps.Registry != nil {
		s.Metrics = NewMetrics(deps.Registry, s.Carts)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	kit.MountMetrics(r, deps.Service, deps.Registry, deps.MetricsEnabled, deps.MetricsToken)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	limit := deps.SessionLimitPerMin
	if limit <= 0 {
		limit = defaultSessionLimitPerMin
	}
	sessionLimiter := kit.NewIPRateLimiter(limit, time.Minute)
	r.With(sessionLimiter.Middleware).Post("/sessions", s.openSession)

	r.Group(func(pr chi.Router) {
		pr.Use(session.Require(s.Sessions))

		pr.Get("/cart", s.getCart)
		pr.Delete("/cart", s.invalidate)
		pr.Post("/cart/items", s.addItem)
		pr.Post("/cart/items/remove", s.removeItem)
		pr.Delete("/cart/items/{position}", s.removeItemAt)
		pr.Post("/cart/checkout", s.checkout)

		pr.Get("/receipts", s.listReceipts)
		pr.Get("/receipts/{id}", s.getReceipt)
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(kit.TokenAuth(deps.AdminToken))
		ar.Get("/average-ticket", s.averageTicket)
		ar.Get("/carts", s.listCarts)
	})

	return r
}
