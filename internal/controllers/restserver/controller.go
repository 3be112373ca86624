// Package restserver serves functional flow evaluations over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/functionalflows/internal/log"
	"github.com/chrissnell/functionalflows/pkg/config"
	"github.com/chrissnell/functionalflows/pkg/flows"
)

// Defaults applied by NewController when ServerConfig leaves them unset.
const (
	DefaultListenAddr   = "0.0.0.0"
	DefaultPort         = 8080
	DefaultMaxBodyBytes = 32 << 20
)

// ServerConfig holds the listener settings for the REST server.
type ServerConfig struct {
	ListenAddr   string
	Port         int
	MaxBodyBytes int64
	// Concurrency is passed to flows.Analysis for each request.
	Concurrency int
}

// Controller represents the REST server controller
type Controller struct {
	ctx              context.Context
	wg               *sync.WaitGroup
	serverConfig     ServerConfig
	Server           http.Server
	Components       []*flows.Component
	ComponentData    []config.ComponentData
	StartOfWaterYear int
	logger           *zap.SugaredLogger
	handlers         *Handlers
}

// NewController loads and builds the component graph once. Every request
// then evaluates its own Input against the shared, read-only components.
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, sc ServerConfig, logger *zap.SugaredLogger) (*Controller, error) {
	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	components, err := config.BuildComponents(cfgData)
	if err != nil {
		return nil, err
	}

	if sc.ListenAddr == "" {
		logger.Infof("listen address not provided; defaulting to %s (all interfaces)", DefaultListenAddr)
		sc.ListenAddr = DefaultListenAddr
	}
	if sc.Port == 0 {
		logger.Infof("port not provided; defaulting to %d", DefaultPort)
		sc.Port = DefaultPort
	}
	if sc.MaxBodyBytes <= 0 {
		sc.MaxBodyBytes = DefaultMaxBodyBytes
	}

	ctrl := &Controller{
		ctx:              ctx,
		wg:               wg,
		serverConfig:     sc,
		Components:       components,
		ComponentData:    cfgData.Components,
		StartOfWaterYear: cfgData.FirstDayOfWaterYear,
		logger:           logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", sc.ListenAddr, sc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server. It shuts down when the
// controller's context is cancelled.
func (c *Controller) StartController() error {
	log.Infow("starting REST server", "addr", c.Server.Addr, "components", len(c.Components))
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware)

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/components", c.handlers.GetComponents).Methods(http.MethodGet)
	router.HandleFunc("/components/{name}", c.handlers.GetComponent).Methods(http.MethodGet)
	router.HandleFunc("/evaluate", c.handlers.Evaluate).Methods(http.MethodPost)

	return router
}

// component looks up a component by name.
func (c *Controller) component(name string) (*flows.Component, config.ComponentData, bool) {
	for i, comp := range c.Components {
		if comp.Name() == name {
			return comp, c.ComponentData[i], true
		}
	}
	return nil, config.ComponentData{}, false
}
