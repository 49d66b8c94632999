// Package server implements the lickcalc REST API.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/lickcalc/internal/log"
	"github.com/chrissnell/lickcalc/internal/store"
	"github.com/chrissnell/lickcalc/pkg/config"
	"github.com/chrissnell/lickcalc/pkg/responseformat"
)

// ResultStore is the part of the results table the API uses
type ResultStore interface {
	SaveAll(ctx context.Context, records []store.Record) ([]uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (store.Record, error)
	List(ctx context.Context, limit int) ([]store.Record, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx       context.Context
	wg        *sync.WaitGroup
	cfg       *config.Config
	Server    http.Server
	store     ResultStore
	formatter *responseformat.Formatter
	logger    *zap.SugaredLogger
	handlers  *Handlers
}

// NewController creates a new REST server controller. st may be nil, in which
// case saving and the results endpoints are unavailable.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, st ResultStore, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("REST server requires a configuration")
	}

	ctrl := &Controller{
		ctx:       ctx,
		wg:        wg,
		cfg:       cfg,
		store:     st,
		formatter: responseformat.NewFormatter(),
		logger:    logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server = http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      ctrl.setupRouter(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return ctrl, nil
}

// StartController starts the REST server and stops it when the controller's
// context is cancelled
func (c *Controller) StartController() error {
	c.logger.Infof("Starting REST server on %s", c.Server.Addr)
	c.wg.Add(2)

	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			c.logger.Warnf("REST server shutdown: %v", err)
		}
	}()

	return nil
}

// Handler returns the router, for embedding and tests
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(c.logger))

	router.HandleFunc("/healthz", c.handlers.Healthz).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/validate", c.handlers.Validate).Methods(http.MethodPost)
	api.HandleFunc("/analyze", c.handlers.Analyze).Methods(http.MethodPost)
	api.HandleFunc("/results", c.handlers.ListResults).Methods(http.MethodGet)
	api.HandleFunc("/results/{id}", c.handlers.GetResult).Methods(http.MethodGet)

	return router
}
