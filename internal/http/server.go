package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"financas/internal/cache"
	"financas/internal/core"
	appweb "financas/web"
)

// TransactionRecorder persists a validated entry, expanded into one or more
// transactions.
type TransactionRecorder interface {
	Record(ctx context.Context, e core.Entry) ([]core.Transaction, error)
}

// ReportBuilder aggregates the stored transactions under a filter.
type ReportBuilder interface {
	Build(ctx context.Context, f core.Filter) (core.Report, error)
}

// RegistryKeeper manages the category and tag name registries.
type RegistryKeeper interface {
	Suggestions(ctx context.Context) (categories, tags []string, err error)
	AddCategory(ctx context.Context, name string) error
	AddTag(ctx context.Context, name string) error
}

type Server struct {
	http.Server
	templates *template.Template
	recorder  TransactionRecorder
	reports   ReportBuilder
	registry  RegistryKeeper

	rateLimiter *rateLimiter

	// Category and tag suggestions change rarely; cache them between form
	// renders and invalidate on registry writes.
	suggestCache *cache.LRU[[]string]
	janitor      *cache.Janitor

	shutdownOnce sync.Once
}

const (
	cacheKeyCategories = "categories"
	cacheKeyTags       = "tags"
)

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, rec TransactionRecorder, rep ReportBuilder, reg RegistryKeeper, cacheEntries int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		recorder:     rec,
		reports:      rep,
		registry:     reg,
		rateLimiter:  newRateLimiter(),
		suggestCache: cache.NewLRU[[]string](cacheEntries, cacheTTL),
		janitor:      cache.NewJanitor(slog.Default()),
	}

	s.janitor.Register(s.suggestCache)
	s.janitor.Start(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("/categories", s.withSecurityHeaders(s.handleCreateCategory))
	mux.HandleFunc("/tags", s.withSecurityHeaders(s.handleCreateTag))
	// UI partials
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboard))

	return s
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// cachedSuggestions returns the category and tag suggestion lists, serving
// from the LRU when fresh.
func (s *Server) cachedSuggestions(ctx context.Context) (categories, tags []string, err error) {
	cats, okCats := s.suggestCache.Get(cacheKeyCategories)
	tgs, okTags := s.suggestCache.Get(cacheKeyTags)
	if okCats && okTags {
		slog.DebugContext(ctx, "Suggestions cache hit", "categories", len(cats), "tags", len(tgs))
		return cats, tgs, nil
	}

	cats, tgs, err = s.registry.Suggestions(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.suggestCache.Set(cacheKeyCategories, cats)
	s.suggestCache.Set(cacheKeyTags, tgs)
	return cats, tgs, nil
}

func (s *Server) invalidateSuggestions() {
	s.suggestCache.Delete(cacheKeyCategories)
	s.suggestCache.Delete(cacheKeyTags)
}
