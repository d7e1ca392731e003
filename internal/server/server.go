// Package server serves the verification page and its JSON API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ppiankov/verinex/internal/app"
	"github.com/ppiankov/verinex/internal/logging"
	"github.com/ppiankov/verinex/internal/model"
	"github.com/ppiankov/verinex/internal/pipeline"
	"github.com/ppiankov/verinex/internal/prefs"
	"github.com/ppiankov/verinex/internal/share"
	"github.com/ppiankov/verinex/internal/telemetry"
	"github.com/ppiankov/verinex/internal/worker"
)

// Options are the server's collaborators; zero values get defaults from cfg
type Options struct {
	Pipeline  *pipeline.Pipeline
	Store     *prefs.CacheStore
	Telemetry telemetry.Collector
	Version   string
}

// Server is the HTTP front end
type Server struct {
	config   *model.Config
	router   *mux.Router
	srv      *http.Server
	sessions *Registry
	limiter  *worker.Limiter
	version  string
}

// New wires routes and middleware
func New(cfg *model.Config, opts Options) *Server {
	if opts.Pipeline == nil {
		opts.Pipeline = pipeline.NewPipeline(cfg)
	}
	if opts.Store == nil {
		opts.Store = prefs.NewDiskStore(cfg.Store.Dir)
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.New(cfg.Telemetry)
	}

	// The browser copies the returned text itself, so the server-side
	// clipboard only has to accept it.
	var primary share.Target
	if cfg.Share.WebhookURL != "" {
		primary = share.NewWebhook(cfg.Share.WebhookURL)
	}
	deps := app.Deps{
		Pipeline:  opts.Pipeline,
		Telemetry: opts.Telemetry,
		Sharer:    share.NewSharer(primary, share.Clipboard{W: io.Discard}),
	}

	srv := &Server{
		config:   cfg,
		sessions: NewRegistry(cfg.Server.SessionIdle, newSessionFactory(cfg, opts.Store, deps)),
		limiter:  worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		version:  opts.Version,
	}
	srv.router = srv.routes()
	srv.srv = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
	}
	return srv
}

func (srv *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, recoverJSON, accessLog(srv.config.Server.SlowRequest))

	r.HandleFunc("/", srv.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/healthz", srv.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	limited := rateLimit(srv.limiter)
	api.Handle("/verify", limited(http.HandlerFunc(srv.handleVerify))).Methods(http.MethodPost)
	api.Handle("/verify/stream", limited(http.HandlerFunc(srv.handleVerifyStream))).Methods(http.MethodGet)

	api.HandleFunc("/new-check", srv.handleNewCheck).Methods(http.MethodPost)
	api.HandleFunc("/share", srv.handleShare).Methods(http.MethodPost)
	api.HandleFunc("/theme", srv.handleGetTheme).Methods(http.MethodGet)
	api.HandleFunc("/theme", srv.handlePutTheme).Methods(http.MethodPut)
	api.HandleFunc("/theme/toggle", srv.handleToggleTheme).Methods(http.MethodPost)
	api.HandleFunc("/examples", srv.handleExamples).Methods(http.MethodGet)
	api.HandleFunc("/examples/{index:[0-9]+}", srv.handleLoadExample).Methods(http.MethodPost)
	api.HandleFunc("/draft", srv.handleSaveDraft).Methods(http.MethodPost)
	api.HandleFunc("/draft", srv.handleRestoreDraft).Methods(http.MethodGet)
	api.HandleFunc("/notification", srv.handleNotification).Methods(http.MethodGet)

	return r
}

// Handler exposes the router, mainly for tests
func (srv *Server) Handler() http.Handler {
	return srv.router
}

// Run serves until ctx is done, then shuts down gracefully
func (srv *Server) Run(ctx context.Context) error {
	log := logging.Named("http")

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.srv.Addr).Msg("http listening")
		errCh <- srv.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srv.config.Server.ShutdownTimeout)
	defer cancel()

	log.Info().Msg("shutting down")
	err := srv.srv.Shutdown(shutdownCtx)
	srv.sessions.Close()
	return err
}
