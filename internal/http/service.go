package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/bizdesk/internal/apperr"
	"github.com/tuanvumaihuynh/bizdesk/internal/config"
	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/apierr"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/metric"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/middleware"
	"github.com/tuanvumaihuynh/bizdesk/internal/http/swagger"
	"github.com/tuanvumaihuynh/bizdesk/internal/service"
	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
	"github.com/tuanvumaihuynh/bizdesk/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Services groups the application services exposed over HTTP.
type Services struct {
	Client    service.ClientService
	Product   service.ProductService
	Order     service.OrderService
	User      service.UserService
	Dashboard service.DashboardService
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metric.Metrics
	validator validator.Validator
	pinger    db.Pinger
	svcs      Services
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	registry *prometheus.Registry,
	pinger db.Pinger,
	svcs Services,
) (*Service, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	return &Service{
		cfg:       cfg,
		logger:    log.With(slog.String("service", "http")),
		registry:  registry,
		metrics:   metric.New(registry),
		validator: v,
		pinger:    pinger,
		svcs:      svcs,
	}, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	if err := s.RegisterHandlers(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("http server listening", slog.String("addr", srv.Addr))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.CorrelationID(),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.Cors(s.cfg.CorsOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) error {
	loginLimit, err := middleware.RateLimit(s.cfg.LoginRate, s.handleResponseError)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}

	clients := &clientHandler{Service: s, clientSvc: s.svcs.Client}
	products := &productHandler{Service: s, productSvc: s.svcs.Product}
	orders := &orderHandler{Service: s, orderSvc: s.svcs.Order}
	users := &userHandler{Service: s, userSvc: s.svcs.User}
	dashboard := &dashboardHandler{dashboardSvc: s.svcs.Dashboard}

	r.Route("/api", func(r chi.Router) {
		r.With(loginLimit).Post("/login", s.handle(users.Login))

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.handle(clients.ListClients))
			r.Post("/", s.handle(clients.CreateClient))
			r.Get("/export", s.handle(clients.ExportClients))
			r.Post("/import", s.handle(clients.ImportClients))
			r.Get("/{id}", s.handle(clients.GetClient))
			r.Put("/{id}", s.handle(clients.UpdateClient))
			r.Delete("/{id}", s.handle(clients.DeleteClient))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handle(products.ListProducts))
			r.Post("/", s.handle(products.CreateProduct))
			r.Get("/export", s.handle(products.ExportProducts))
			r.Post("/import", s.handle(products.ImportProducts))
			r.Get("/{id}", s.handle(products.GetProduct))
			r.Put("/{id}", s.handle(products.UpdateProduct))
			r.Delete("/{id}", s.handle(products.DeleteProduct))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handle(orders.ListOrders))
			r.Post("/", s.handle(orders.CreateOrder))
			r.Get("/{id}", s.handle(orders.GetOrder))
			r.Put("/{id}", s.handle(orders.UpdateOrder))
			r.Delete("/{id}", s.handle(orders.DeleteOrder))
			r.Get("/{id}/pdf", s.handle(orders.OrderPDF))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/sales_by_month", s.handle(dashboard.SalesByMonth))
			r.Get("/low_stock_products", s.handle(dashboard.LowStockProducts))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handle(users.ListUsers))
			r.Post("/", s.handle(users.CreateUser))
			r.Put("/{id}", s.handle(users.UpdateUser))
			r.Delete("/{id}", s.handle(users.DeleteUser))
		})
	})

	r.Get("/healthz", s.handle(s.Healthz))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleResponseError(w, r, apperr.RouteNotFoundErr)
	})

	return nil
}

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

// Healthz reports whether the database answers.
func (s *Service) Healthz(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "health check failed", slog.Any("error", err))
		return writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}

	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type importResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (s *Service) writeImportResult(w http.ResponseWriter, res csvimport.Result) error {
	s.metrics.ImportedRows.WithLabelValues(res.Entity, "created").Add(float64(res.Created))
	s.metrics.ImportedRows.WithLabelValues(res.Entity, "updated").Add(float64(res.Updated))
	s.metrics.ImportedRows.WithLabelValues(res.Entity, "rejected").Add(float64(len(res.Errors)))

	return writeJSON(w, http.StatusOK, importResponse{
		Message: res.Message(),
		Errors:  res.ErrorMessages(),
	})
}
