// Package server wires storage, services and the GraphQL API into an HTTP server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xImouto/imoddit/handler/graphqlapi"
	"github.com/xImouto/imoddit/metrics"
	"github.com/xImouto/imoddit/service/authService"
	"github.com/xImouto/imoddit/service/commentService"
	"github.com/xImouto/imoddit/service/postService"
	"github.com/xImouto/imoddit/service/userService"
	"github.com/xImouto/imoddit/storage"
	"github.com/xImouto/imoddit/storage/memory"
)

// Store - everything the services need from storage
type Store interface {
	postService.Gateway
	commentService.Gateway
	userService.Gateway
	authService.PostFinder
	Ping(ctx context.Context) error
}

// OpenStore - opens the store selected by cfg
// The returned close function must be called once the store is no longer used
func OpenStore(ctx context.Context, cfg *Config, logger *zap.SugaredLogger) (Store, func(), error) {
	if cfg.Store == StoreMemory {
		logger.Warn("Using in-memory store, data will be lost on exit")
		return memory.New(), func() {}, nil
	}

	db, err := storage.Open(ctx, &cfg.DB, logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Error closing database: %s", err)
		}
	}

	if cfg.Migrate {
		if err := db.Migrate(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	return db, closeDB, nil
}

// NewRouter - builds the HTTP routes of the API on top of store
func NewRouter(cfg *Config, store Store, reg *prometheus.Registry, logger *zap.Logger) (*mux.Router, error) {
	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		return nil, errors.Wrap(err, "registering metrics failed")
	}

	auth := authService.New(store, cfg.JwtSecret, cfg.TokenTTL, logger.Named("service.auth").Sugar())
	posts := postService.New(store, auth, logger.Named("service.post").Sugar())
	comments := commentService.New(store, auth, logger.Named("service.comment").Sugar())
	users := userService.New(store, auth, logger.Named("service.user").Sugar())

	resolver := graphqlapi.NewResolver(posts, comments, users, recorder, logger.Named("graphql").Sugar())
	schema := graphqlapi.NewSchema(resolver)

	router := mux.NewRouter()
	router.Handle("/graphql", graphqlapi.NewHandler(schema)).Methods("POST")
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods("GET")
	router.HandleFunc("/api/hc", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	return router, nil
}

// RunServer - serves the API until ctx is cancelled
func RunServer(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	log := logger.Named("server").Sugar()

	if len(cfg.JwtSecret) == 0 {
		return errors.Errorf("%s is not set", JwtSecretKey)
	}

	store, closeStore, err := OpenStore(ctx, cfg, logger.Named("storage").Sugar())
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := NewRouter(cfg, store, reg, logger)
	if err != nil {
		return err
	}

	// omitting host will run server on all interfaces
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on port %s", cfg.ServerPort)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server failed")
	}
	return nil
}
