package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"parking-dashboard/config"
	"parking-dashboard/services"
	"parking-dashboard/utils"
)

// Server renders the dashboard pages. Every request loads the CSV afresh;
// the session store is the only state shared between requests.
type Server struct {
	cfg        *config.Config
	logger     *utils.Logger
	sessions   *services.SessionStore
	cleaner    *services.Cleaner
	aggregator *services.Aggregator
	pages      []page
	templates  *templateSet
}

// NewServer wires the page renderers to the given session store.
func NewServer(cfg *config.Config, logger *utils.Logger, sessions *services.SessionStore) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse templates: %w", err)
	}

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		sessions:   sessions,
		cleaner:    services.NewCleaner(logger),
		aggregator: services.NewAggregator(logger),
		templates:  tmpl,
	}
	s.pages = s.navigation()
	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(LoggingMiddleware(s.logger))
	r.Use(SessionMiddleware(s.cfg.SessionTTL))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleApp).Methods(http.MethodGet)
	for _, p := range s.pages {
		r.HandleFunc("/"+p.Slug, s.handlePage(p)).Methods(http.MethodGet)
	}
	r.HandleFunc("/source/feedback", s.handleFeedback).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[dashboard] Serving on %s (data: %s)", s.cfg.HTTPAddr, s.cfg.CSVPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("dashboard: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[dashboard] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard: shutdown: %w", err)
	}
	return nil
}

type healthResponse struct {
	Status      string `json:"status"`
	CSVPath     string `json:"csv_path"`
	CSVReadable bool   `json:"csv_readable"`
	Sessions    int    `json:"sessions"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", CSVPath: s.cfg.CSVPath, Sessions: s.sessions.Sessions()}

	if f, err := os.Open(s.cfg.CSVPath); err != nil {
		resp.Status = "error"
		resp.Error = err.Error()
	} else {
		resp.CSVReadable = true
		_ = f.Close()
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("[dashboard] Encoding health response: %v", err)
	}
}
