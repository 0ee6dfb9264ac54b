// Package dashboard serves the corridor heatmap as an HTML page, a JSON API
// and an SSE stream of stored snapshots.
package dashboard

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vadiminshakov/corridormap/internal/clients"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/internal/storage/corridorsnapshots"
	"github.com/vadiminshakov/corridormap/internal/widget"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

const snapshotPollInterval = 3 * time.Second

type snapshotReader interface {
	SnapshotsAfter(index uint64) ([]domain.CorridorSnapshotRecord, error)
	Latest(period domain.Period) (domain.CorridorSnapshotRecord, error)
}

// corridorLookup fetches a single corridor that no stored snapshot carries.
type corridorLookup interface {
	GetCorridor(ctx context.Context, corridorKey string) (domain.CorridorRecord, error)
}

// Option configures a Server.
type Option func(*Server)

// WithCorridorLookup makes corridor pages fall back to a live lookup.
func WithCorridorLookup(lookup corridorLookup) Option {
	return func(s *Server) {
		s.Corridors = lookup
	}
}

// Server exposes HTTP endpoints serving the heatmap UI, its JSON form and an SSE stream.
type Server struct {
	Addr          string
	Store         snapshotReader
	Corridors     corridorLookup
	DefaultPeriod domain.Period
	logger        *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, store snapshotReader, defaultPeriod domain.Period, logger *zap.Logger, opts ...Option) *Server {
	if !defaultPeriod.IsValid() {
		defaultPeriod = domain.DefaultPeriod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{Addr: addr, Store: store, DefaultPeriod: defaultPeriod, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routing table of the dashboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", gzipHandler(http.HandlerFunc(s.handleIndex)))
	mux.Handle("/api/heatmap", gzipHandler(http.HandlerFunc(s.handleHeatmapAPI)))
	mux.Handle("/corridors/", gzipHandler(http.HandlerFunc(s.handleCorridor)))
	mux.HandleFunc("/heatmap/stream", s.handleStream)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dashboard listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via ACME.
// It also starts an HTTP server on port 80 to handle ACME HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	// port 80 answers ACME challenges and redirects everything else to HTTPS
	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("http (acme) server shutdown", zap.Error(err))
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("https server shutdown", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http (acme) server", zap.Error(err))
		}
	}()

	s.logger.Info("dashboard listening with auto TLS", zap.String("addr", s.Addr), zap.Strings("domains", domains))
	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// periodFromRequest reads ?period=, falling back to the server default.
func (s *Server) periodFromRequest(r *http.Request) (domain.Period, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return s.DefaultPeriod, nil
	}
	return domain.ParsePeriod(raw)
}

// latest returns the newest snapshot for period, nil when none is stored yet.
func (s *Server) latest(period domain.Period) (*domain.CorridorSnapshotRecord, error) {
	if s.Store == nil {
		return nil, nil
	}
	record, err := s.Store.Latest(period)
	if errors.Is(err, corridorsnapshots.ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	period, err := s.periodFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	record, err := s.latest(period)
	if err != nil {
		s.logger.Error("load corridor snapshot", zap.String("period", period.String()), zap.Error(err))
		http.Error(w, "failed to load corridors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, buildView(period, record)); err != nil {
		s.logger.Error("render heatmap page", zap.Error(err))
	}
}

func (s *Server) handleHeatmapAPI(w http.ResponseWriter, r *http.Request) {
	period, err := s.periodFromRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := s.latest(period)
	if err != nil {
		s.logger.Error("load corridor snapshot", zap.String("period", period.String()), zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "failed to load corridors")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(buildView(period, record)); err != nil {
		s.logger.Error("encode heatmap", zap.Error(err))
	}
}

func (s *Server) handleCorridor(w http.ResponseWriter, r *http.Request) {
	key, err := widget.ParseCorridorPath(r.URL.EscapedPath())
	if err != nil {
		http.NotFound(w, r)
		return
	}
	period, err := s.periodFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// prefer the requested period, then any other period that knows the corridor
	candidates := append([]domain.Period{period}, domain.Periods()...)
	for _, p := range candidates {
		record, err := s.latest(p)
		if err != nil {
			s.logger.Error("load corridor snapshot", zap.String("period", p.String()), zap.Error(err))
			http.Error(w, "failed to load corridors", http.StatusInternalServerError)
			return
		}
		if record == nil {
			continue
		}
		if corridor, ok := record.Snapshot.Find(key); ok {
			s.renderCorridor(w, newCorridorView(corridor, p, record.Snapshot.Timestamp))
			return
		}
	}

	if s.Corridors == nil {
		http.NotFound(w, r)
		return
	}
	corridor, err := s.Corridors.GetCorridor(r.Context(), key)
	switch {
	case errors.Is(err, clients.ErrCorridorNotFound):
		http.NotFound(w, r)
	case err != nil:
		s.logger.Warn("corridor lookup", zap.String("corridor", key), zap.Error(err))
		http.Error(w, "failed to load corridor", http.StatusBadGateway)
	default:
		s.renderCorridor(w, newCorridorView(corridor, period, time.Now().UTC()))
	}
}

func (s *Server) renderCorridor(w http.ResponseWriter, view corridorView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := corridorTemplate.Execute(w, view); err != nil {
		s.logger.Error("render corridor page", zap.Error(err))
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "snapshot store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// comment heartbeat keeps proxies from closing an idle connection
	heartbeat := time.NewTicker(20 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(snapshotPollInterval)
	defer pollTicker.Stop()

	lastIndex := parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("last_event_id"))
	sendSnapshots := func() error {
		records, err := s.Store.SnapshotsAfter(lastIndex)
		if err != nil {
			return err
		}
		for i := range records {
			record := records[i]
			payload, err := json.Marshal(buildView(record.Snapshot.Period, &record))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", record.Index)
			fmt.Fprintf(w, "event: heatmap\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendSnapshots(); err != nil {
		http.Error(w, "failed to load snapshots", http.StatusInternalServerError)
		s.logger.Error("heatmap stream initial load", zap.Error(err))
		return
	}

	// lets the client switch from 'loading' to 'no data yet'
	if lastIndex == 0 {
		fmt.Fprintf(w, "event: no_data\n")
		fmt.Fprintf(w, "data: {}\n\n")
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSnapshots(); err != nil {
				s.logger.Warn("heatmap stream poll", zap.Error(err))
			}
		}
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func gzipHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")

		gz := gzip.NewWriter(w)
		gzw := &gzipResponseWriter{ResponseWriter: w, writer: gz}
		defer func() {
			if !gzw.plain {
				_ = gz.Close()
			}
		}()

		next.ServeHTTP(gzw, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	writer *gzip.Writer
	// plain is set once the handler dropped Content-Encoding, e.g. via http.Error.
	plain bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.Header().Get("Content-Encoding") != "gzip" {
		w.plain = true
	}
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if w.plain {
		return w.ResponseWriter.Write(b)
	}
	return w.writer.Write(b)
}

// parseLastEventID extracts an SSE event ID from either the Last-Event-ID header or a query parameter.
// The header is preferred; the query parameter allows manual reconnects to resume from a known index.
func parseLastEventID(headerVal, queryVal string) uint64 {
	idStr := strings.TrimSpace(headerVal)
	if idStr == "" {
		idStr = strings.TrimSpace(queryVal)
	}
	if idStr == "" {
		return 0
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
