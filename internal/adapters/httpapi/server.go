package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"faction-hub/internal/config"
	"faction-hub/internal/core/ports"
	"faction-hub/internal/core/services/ledger"
	"faction-hub/internal/core/services/scoreboard"
	"faction-hub/internal/core/services/wars"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const (
	maxBodyBytes = 1 << 20
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

type Dependencies struct {
	Config     *config.Config
	Wars       *wars.Service
	Ledger     *ledger.Service
	Scoreboard *scoreboard.Service
	Members    ports.MemberStore
	Directory  ports.MemberDirectory
	Clock      func() time.Time
}

type Server struct {
	wars       *wars.Service
	ledger     *ledger.Service
	scoreboard *scoreboard.Service
	auth       *authenticator
	limiter    *ipLimiter
	handler    http.Handler
	srv        *http.Server
}

func NewServer(deps Dependencies) *Server {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Server{
		wars:       deps.Wars,
		ledger:     deps.Ledger,
		scoreboard: deps.Scoreboard,
		auth:       newAuthenticator(deps.Config.JWTSecret, deps.Members, deps.Directory, clock),
		limiter:    newIPLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst, clock),
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/wars", s.handleListWars).Methods(http.MethodGet)
	api.HandleFunc("/wars", s.handleCreateWar).Methods(http.MethodPost)
	api.HandleFunc("/wars/{ref}", s.handleGetWar).Methods(http.MethodGet)
	api.HandleFunc("/wars/{ref}", s.handleUpdateWar).Methods(http.MethodPatch)
	api.HandleFunc("/wars/{ref}/activate", s.handleActivateWar).Methods(http.MethodPost)
	api.HandleFunc("/wars/{ref}/end", s.handleEndWar).Methods(http.MethodPost)
	api.HandleFunc("/wars/{ref}/logs", s.handleListLogs).Methods(http.MethodGet)
	api.HandleFunc("/wars/{ref}/logs", s.handleAppendLog).Methods(http.MethodPost)
	api.HandleFunc("/wars/{ref}/scoreboard", s.handleScoreboard).Methods(http.MethodGet)
	api.HandleFunc("/wars/{ref}/has-kills", s.handleHasKills).Methods(http.MethodGet)
	api.HandleFunc("/logs/{id}", s.handleGetLog).Methods(http.MethodGet)
	api.HandleFunc("/logs/{id}", s.handleEditLog).Methods(http.MethodPatch)
	api.HandleFunc("/logs/{id}", s.handleDeleteLog).Methods(http.MethodDelete)
	api.HandleFunc("/regulations", s.handleGetRegulations).Methods(http.MethodGet)
	api.HandleFunc("/regulations", s.handleSetRegulations).Methods(http.MethodPut)
	api.Use(s.limiter.middleware, s.auth.middleware)

	router.Use(recoverMiddleware, metricsMiddleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})

	s.handler = corsPolicy(deps.Config.CORSOrigins).Handler(router)
	s.srv = &http.Server{
		Addr:         deps.Config.HTTPAddr,
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (s *Server) ListenAndServe() error {
	slog.Info("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// corsPolicy rejects every cross-origin request when no origin is listed.
func corsPolicy(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
