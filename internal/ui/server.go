package ui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joelklabo/asisten/internal/config"
	"github.com/joelklabo/asisten/internal/core"
	"github.com/joelklabo/asisten/internal/metrics"
	"github.com/joelklabo/asisten/internal/store"
)

//go:embed web/*
var embeddedFS embed.FS

const maxBodyBytes = 64 << 10

// Server hosts the chat page and the command API.
type Server struct {
	cfg    *config.Config
	interp Replier
	audit  AuditSource
	logger Logger
	srv    *http.Server
}

// Replier answers one chat message.
type Replier interface {
	Reply(ctx context.Context, text string) string
}

// AuditSource lists recorded launches.
type AuditSource interface {
	Audit(limit int) ([]store.AuditEntry, error)
}

// Logger is the subset of slog.Logger we need.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option configures a Server.
type Option func(*Server)

// WithAudit exposes the audit log under /api/audit.
func WithAudit(a AuditSource) Option {
	return func(s *Server) { s.audit = a }
}

// New constructs a Server.
func New(cfg *config.Config, interp Replier, logger Logger, opts ...Option) *Server {
	s := &Server{cfg: cfg, interp: interp, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/process", instrument("/process", http.HandlerFunc(s.handleProcess)))
	mux.Handle("/api/audit", instrument("/api/audit", http.HandlerFunc(s.handleAudit)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	// Static UI.
	sub, _ := fs.Sub(embeddedFS, "web")
	mux.Handle("/", instrument("/", http.FileServer(http.FS(sub))))

	return withCORS(mux)
}

// Start runs the HTTP server until context is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ui server listening", "addr", s.cfg.Server.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Middleware to allow local JS fetches.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req core.Request
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	reply := s.interp.Reply(r.Context(), strings.ToLower(req.Command))
	s.writeJSON(w, core.Response{Response: reply})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	entries, err := s.audit.Audit(limit)
	if err != nil {
		s.logger.Error("audit read failed", "err", err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []store.AuditEntry{}
	}
	s.writeJSON(w, entries)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.IncHTTP(route, rec.code)
	})
}
