// Package server provides the HTTP REST API for ppt-architect.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/ppt-architect/internal/config"
	"github.com/jonathan/ppt-architect/internal/convert"
	"github.com/jonathan/ppt-architect/internal/db"
	"github.com/jonathan/ppt-architect/internal/pipeline"
	"github.com/jonathan/ppt-architect/internal/server/middleware"
	"github.com/jonathan/ppt-architect/internal/server/ratelimit"
	"github.com/jonathan/ppt-architect/internal/tasks"
)

// DocumentConverter runs office conversions and renders deck previews.
type DocumentConverter interface {
	Convert(ctx context.Context, input string, target convert.Format, outputDir string) (string, error)
	Preview(ctx context.Context, deck, dir string, opts convert.PreviewOptions) ([]string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	settings    *config.Settings
	store       tasks.Store
	templates   tasks.TemplateStore
	db          *db.DB
	converter   DocumentConverter
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	apiKeys     *config.APIKeyConfig
	outlineGen  pipeline.OutlineGenerator
	logger      *log.Logger

	// jobs tracks background generations; jobCtx outlives requests and is
	// cancelled only when the server closes.
	jobs      sync.WaitGroup
	jobCtx    context.Context
	cancelJob context.CancelFunc
}

// Option configures a Server.
type Option func(*Server)

// WithStore replaces the task and template stores.
func WithStore(store tasks.Store, templates tasks.TemplateStore) Option {
	return func(s *Server) {
		s.store = store
		s.templates = templates
	}
}

// WithConverter replaces the office converter.
func WithConverter(c DocumentConverter) Option {
	return func(s *Server) { s.converter = c }
}

// WithOutlineGenerator makes every outline request use g instead of a
// client built from the request's model.
func WithOutlineGenerator(g pipeline.OutlineGenerator) Option {
	return func(s *Server) { s.outlineGen = g }
}

// WithRateLimiter replaces the limiter built from the environment.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.rateLimiter = l }
}

// WithAuth enables token auth with the given services.
func WithAuth(jwtService *JWTService, keys *config.APIKeyConfig) Option {
	return func(s *Server) {
		s.jwtService = jwtService
		s.apiKeys = keys
	}
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a new server instance
func New(settings *config.Settings, opts ...Option) (*Server, error) {
	s := &Server{settings: settings}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	if err := settings.EnsureDirs(); err != nil {
		return nil, err
	}

	if s.store == nil {
		if settings.DatabaseURL != "" {
			database, err := db.Connect(context.Background(), settings.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}
			if err := database.Migrate(context.Background()); err != nil {
				database.Close()
				return nil, err
			}
			s.db = database
			s.store = database
			s.templates = database
		} else {
			mem := tasks.NewMemoryStore()
			s.store = mem
			s.templates = mem
		}
	}

	if s.converter == nil {
		s.converter = convert.New(
			convert.WithTimeout(settings.ConvertTimeout),
			convert.WithSoffice(settings.SofficeBin),
			convert.WithLogger(s.logger),
		)
	}

	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	if s.jwtService == nil && settings.AuthEnabled() {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		apiKeys, err := config.NewAPIKeyConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create API key config: %w", err)
		}
		apiKeys.KeyHash = settings.APIKeyHash
		s.jwtService = NewJWTService(jwtConfig)
		s.apiKeys = apiKeys
	}

	s.jobCtx, s.cancelJob = context.WithCancel(context.Background())
	s.handler = s.routes()

	s.httpServer = &http.Server{
		Addr:         settings.Addr(),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // streams and conversions
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/themes", s.handleThemes)
	mux.HandleFunc("POST /api/upload-template", s.handleUploadTemplate)
	mux.HandleFunc("POST /api/generate-outline", s.handleGenerateOutline)
	mux.HandleFunc("POST /api/generate-ppt", s.handleGeneratePPT)
	mux.HandleFunc("POST /api/generate-ppt/stream", s.handleGeneratePPTStream)
	mux.HandleFunc("GET /api/task/{id}", s.handleTask)
	mux.HandleFunc("GET /api/download/{id}", s.handleDownload)
	mux.HandleFunc("GET /api/preview/{id}", s.handlePreview)
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.HandleFunc("POST /api/auth/token", s.handleToken)

	var h http.Handler = mux
	if s.authEnabled() {
		h = middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), middleware.Options{
			Prefix:     "/api/",
			Public:     []string{"/api/auth/token"},
			QueryParam: "token",
		})(s.withTokenScope(h))
	}
	h = s.withCORS(h)
	h = s.withLogging(h)
	return ratelimit.Middleware(s.rateLimiter)(h)
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) authEnabled() bool {
	return s.jwtService != nil && s.apiKeys != nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	s.logger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		return err
	}
	s.logger.Println("Server stopped")
	return nil
}

// Close stops accepting requests, waits for running generations until ctx
// expires and releases the limiter and database.
func (s *Server) Close(ctx context.Context) error {
	var shutdownErr error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown failed: %w", err)
	}

	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Printf("[server] abandoning running tasks: %v", ctx.Err())
	}
	s.cancelJob()

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	return shutdownErr
}

// withCORS answers preflight requests and allows the configured origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.settings.CORSOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(s.settings.CORSOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE streaming working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status code and writes it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Printf("[server] %v", err)
	}
	s.errorResponse(w, status, err.Error())
}
