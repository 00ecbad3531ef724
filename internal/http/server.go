package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"contas/internal/cache"
	"contas/internal/log"
	"contas/internal/services"
	"contas/internal/storage"
)

// DefaultUser scopes requests that carry no X-User-ID header. Single-user
// deployments never need to set the header.
const DefaultUser = "default"

// Options tunes the server's report cache.
type Options struct {
	CacheTTL  time.Duration
	CacheSize int
}

func (o Options) withDefaults() Options {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 100
	}
	return o
}

type Server struct {
	http.Server
	repo           storage.Repository
	analytics      *services.AnalyticsService
	categorization *services.CategorizationService
	logger         *log.Logger
	structured     *log.StructuredLogger
	rateLimiter    *rateLimiter
	metrics        securityMetrics

	// Dashboard and period reports are cached per user and invalidated
	// on every write for that user.
	dashboardCache *cache.LRUCache[services.DashboardReport]
	periodCache    *cache.LRUCache[services.PeriodReport]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, repo storage.Repository, analytics *services.AnalyticsService, categorization *services.CategorizationService, logger *log.Logger, opts Options) *Server {
	opts = opts.withDefaults()
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		repo:           repo,
		analytics:      analytics,
		categorization: categorization,
		logger:         logger.WithComponent(log.ComponentHTTP),
		structured:     log.NewStructuredLogger(logger),
		rateLimiter:    newRateLimiter(defaultWriteLimit),
		dashboardCache: cache.NewLRUCache[services.DashboardReport](opts.CacheSize, opts.CacheTTL),
		periodCache:    cache.NewLRUCache[services.PeriodReport](opts.CacheSize, opts.CacheTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.Register(s.periodCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/budgets", s.withMiddleware(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets", s.withMiddleware(s.handleListBudgets))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withMiddleware(s.handleDeleteBudget))

	mux.HandleFunc("POST /api/goals", s.withMiddleware(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals", s.withMiddleware(s.handleListGoals))
	mux.HandleFunc("POST /api/goals/{id}/contribute", s.withMiddleware(s.handleContributeGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withMiddleware(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/reports/period", s.withMiddleware(s.handlePeriodReport))

	mux.HandleFunc("GET /api/suggestions", s.withMiddleware(s.handleListSuggestions))
	mux.HandleFunc("POST /api/suggestions/accept", s.withMiddleware(s.handleAcceptSuggestion))
	mux.HandleFunc("POST /api/suggestions/auto", s.withMiddleware(s.handleAutoAccept))

	return s
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), log.LoggerContextKey, s.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, &s.metrics) {
			s.logger.WarnContext(ctx, "Suspicious request",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
		}

		// Writes are rate limited per client, reads are not.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, &s.metrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		rateLimited, suspicious := s.metrics.snapshot()
		s.logger.Info("Security counters at shutdown",
			"rate_limited", rateLimited,
			"suspicious_requests", suspicious)

		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// userID scopes a request to a user.
func userID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return DefaultUser
}

// invalidateReports drops every cached report of the user after a write.
func (s *Server) invalidateReports(user string) {
	s.dashboardCache.Delete("dashboard:" + user)
	s.periodCache.DeletePrefix("period:" + user + ":")
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(in string) string {
	in = strings.TrimSpace(in)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, in)
}
