package v1

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kurochkinivan/attachment_analyzer/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	httpServer *http.Server
}

// Routes are the handlers' dependencies. History is nil when no job journal is kept.
type Routes struct {
	WebhookPath string
	Processor   WebhookProcessor
	Guard       Authenticator
	History     JobHistory
}

func NewServer(log *slog.Logger, cfg config.HTTP, tracing bool, routes Routes) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      NewRouter(log, tracing, routes),
		},
	}
}

func NewRouter(log *slog.Logger, tracing bool, routes Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	if tracing {
		r.Use(func(next http.Handler) http.Handler {
			return otelhttp.NewHandler(next, "attachment_analyzer")
		})
	}

	h := NewWebhookHandler(log, routes.Processor)

	r.Get("/health", h.Health)
	r.Post("/webhook/"+strings.Trim(routes.WebhookPath, "/"), h.HandleWebhook)

	if routes.History != nil {
		jobs := NewJobsHandler(log, routes.History)
		r.With(requireBearer(log, routes.Guard)).Get("/cards/{cardID}/jobs", jobs.ListJobs)
	}

	return r
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
