package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fruitstand-signage/fruitstand/internal/metric"
)

// maxFormMemory bounds the multipart form parsed per request.
const maxFormMemory = 1 << 20

// Config holds server configuration
type Config struct {
	// ListenAddr is the address to listen on (e.g., "127.0.0.1:8080")
	ListenAddr string

	// Metrics are the metrics the endpoint knows. Defaults to the whole catalog.
	Metrics []metric.Definition

	// RateLimitRequests is the max params requests per client per window (0 = unlimited)
	RateLimitRequests int

	// RateLimitWindow is the rate limit window duration
	RateLimitWindow time.Duration

	// Logger for server operations
	Logger *slog.Logger
}

// Server serves the params endpoint.
type Server struct {
	config      *Config
	mux         *http.ServeMux
	rateLimiter *rateLimiter
}

// New creates a server.
func New(cfg *Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.Metrics) == 0 {
		cfg.Metrics = metric.Catalog()
	}

	s := &Server{config: cfg, mux: http.NewServeMux()}
	if cfg.RateLimitRequests > 0 {
		s.rateLimiter = newRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	s.mux.HandleFunc("POST /demo/params", s.handleParams)
	s.mux.HandleFunc("GET /demo/metrics", s.handleMetrics)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	s.mux.ServeHTTP(lw, r)

	s.config.Logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", lw.statusCode,
		"remote", r.RemoteAddr,
		"duration", time.Since(startTime))
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("params server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		return err
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
		s.rateLimiter = nil
	}
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	if s.rateLimiter != nil && !s.rateLimiter.allow(clientKey(r.RemoteAddr)) {
		s.config.Logger.Warn("rate limit exceeded", "remote", r.RemoteAddr)
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	qs, err := s.Fragment(r.MultipartForm.Value)
	if err != nil {
		s.config.Logger.Warn("rejected metric inputs", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(qs))
}

// Fragment builds the query fragment for submitted form values keyed
// "<metricKey>;<inputName>". Metrics with no submitted inputs are skipped.
// A metric with only some of its inputs, or an invalid input, is an error.
func (s *Server) Fragment(form map[string][]string) (string, error) {
	byMetric := make(map[string]map[string]string)
	for name, values := range form {
		key, input, ok := strings.Cut(name, ";")
		if !ok || len(values) == 0 {
			continue
		}
		if byMetric[key] == nil {
			byMetric[key] = make(map[string]string)
		}
		byMetric[key][input] = values[len(values)-1]
	}

	var parts []string
	for _, def := range s.config.Metrics {
		values, ok := byMetric[def.Key]
		if !ok {
			continue
		}
		v, err := def.FormatValue(values)
		if err != nil {
			return "", err
		}
		parts = append(parts, def.Param+"="+url.QueryEscape(v))
	}
	return strings.Join(parts, "&"), nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(metric.DemoInputs(s.config.Metrics)); err != nil {
		s.config.Logger.Error("failed to encode metrics", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func clientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	lw.statusCode = code
	lw.ResponseWriter.WriteHeader(code)
}

// rateLimiter implements per-client rate limiting
type rateLimiter struct {
	maxRequests int
	window      time.Duration
	requests    map[string][]time.Time
	mu          sync.Mutex
	stopClean   chan struct{}
}

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	rl := &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		stopClean:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	valid := rl.recent(key, now.Add(-rl.window))
	if len(valid) >= rl.maxRequests {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

// recent returns the requests of key newer than since. Callers hold mu.
func (rl *rateLimiter) recent(key string, since time.Time) []time.Time {
	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(since) {
			valid = append(valid, t)
		}
	}
	return valid
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopClean:
			return
		}
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	since := time.Now().Add(-rl.window)
	for key := range rl.requests {
		if valid := rl.recent(key, since); len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func (rl *rateLimiter) stop() {
	close(rl.stopClean)
}
