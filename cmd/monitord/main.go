// Package main implements the validator monitor API server entry point.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"validator-monitor/internal/config"
	"validator-monitor/internal/handlers"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository"
	"validator-monitor/internal/repository/cache"
	"validator-monitor/internal/repository/rpc"
)

// apiServer implements the API server application
type apiServer struct {
	cfg  *config.Config
	log  logger.Logger
	reg  *prometheus.Registry
	repo repository.Repository
	srv  *http.Server
}

// main initializes the API server and starts it when ready.
func main() {
	api := new(apiServer)
	if err := api.init(); err != nil {
		log.Fatalf("can not start the API server; %s", err.Error())
	}
	api.run()
}

// init initializes the API server
func (api *apiServer) init() error {
	var err error
	api.cfg, err = config.Load()
	if err != nil {
		return err
	}

	api.log = logger.New(api.cfg)
	api.log.Noticef("starting %s", api.cfg.AppName)

	api.reg = prometheus.NewRegistry()
	api.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mc, err := cache.New(&api.cfg.Cache, api.log.ModuleLogger("cache"))
	if err != nil {
		return err
	}
	api.repo = repository.New(rpc.New(api.cfg, api.reg, api.log), mc, api.log)

	// connect the nodes before the API is exposed
	api.repo.Start(context.Background(), api.cfg.Endpoints)

	h, err := handlers.Router(api.cfg, api.repo, api.reg, api.log)
	if err != nil {
		api.repo.Close()
		return err
	}

	api.srv = &http.Server{
		Addr:              api.cfg.Server.BindAddress,
		Handler:           h,
		ReadTimeout:       api.cfg.Server.ReadTimeout,
		WriteTimeout:      api.cfg.Server.WriteTimeout,
		IdleTimeout:       api.cfg.Server.IdleTimeout,
		ReadHeaderTimeout: api.cfg.Server.HeaderTimeout,
	}
	return nil
}

// run executes the API server function.
func (api *apiServer) run() {
	done := make(chan struct{})
	go api.observeSignals(done)

	api.log.Noticef("welcome to the validator monitor API server on http://%s", api.cfg.Server.DomainAddress)
	if err := api.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		api.log.Criticalf("server failed; %s", err.Error())
		api.repo.Close()
		os.Exit(1)
	}

	<-done
	api.log.Notice("validator monitor API server done")
}

// observeSignals setups terminate signals observation and shuts the server down gracefully.
func (api *apiServer) observeSignals(done chan<- struct{}) {
	defer close(done)

	ts := make(chan os.Signal, 1)
	signal.Notify(ts, syscall.SIGINT, syscall.SIGTERM)
	<-ts

	api.log.Notice("server is terminating")
	ctx, cancel := context.WithTimeout(context.Background(), api.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := api.srv.Shutdown(ctx); err != nil {
		api.log.Errorf("can not shut down the server gracefully; %s", err.Error())
	}
	api.repo.Close()
}
