// Package web serves the browser front end and the JSON API on top of session.Machine.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"quickcore/internal/config"
	"quickcore/internal/models"
	"quickcore/internal/services"
	"quickcore/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"hours": func(h *float64) string {
		if h == nil {
			return ""
		}
		return services.FormatHours(*h)
	},
	"priorityClass": func(p models.Priority) string {
		switch p.Level() {
		case models.PriorityLevelHigh:
			return "high"
		case models.PriorityLevelMedium:
			return "medium"
		case models.PriorityLevelLow:
			return "low"
		default:
			return "other"
		}
	},
}

// Server is the HTTP front end
type Server struct {
	cfg    config.ServerConfig
	router *gin.Engine
	store  *SessionStore
	logger *zap.Logger
}

// NewServer wires the router. Attempts started from the page run on ctx.
func NewServer(ctx context.Context, cfg config.ServerConfig, newMachine MachineFactory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("web")

	store := NewSessionStore(func() *session.Machine {
		machine := newMachine()
		machine.SetObserver(observeAttempts("page", logger))
		return machine
	}, cfg.SessionTTL(), logger)

	maxUploadBytes := int64(cfg.MaxUploadMB) << 20
	handler := NewHandler(ctx, newMachine, maxUploadBytes, logger)

	router := gin.New()
	router.Use(ZapLogger(logger))
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = maxUploadBytes
	if cfg.Metrics {
		// registered before the routes so every route is instrumented
		p := ginprometheus.NewPrometheus("gin")
		p.Use(router)
	}

	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))

	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
		corsConfig.MaxAge = 12 * time.Hour
		router.Use(cors.New(corsConfig))
	}

	router.GET("/health", handler.Health)
	router.HEAD("/health", handler.Health)

	api := router.Group("/api/v1")
	api.POST("/study-plans", handler.CreateStudyPlan)

	cookieMaxAge := int(cfg.SessionTTL().Seconds())
	pages := router.Group("/", sessionMiddleware(store, cookieMaxAge))
	pages.GET("/", handler.Index)
	pages.POST("/upload", handler.Upload)
	pages.POST("/reset", handler.Reset)
	pages.GET("/export.md", handler.ExportMarkdown)

	return &Server{cfg: cfg, router: router, store: store, logger: logger}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the in-memory session store.
func (s *Server) Sessions() *SessionStore {
	return s.store
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.store.RunJanitor(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Server exiting")
	return nil
}
