package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itchan-dev/supportdesk/frontend/internal/router"
	"github.com/itchan-dev/supportdesk/frontend/internal/setup"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "frontend/config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to setup dependencies", "error", err)
		os.Exit(1)
	}

	// a submission waits for the form webhook before answering
	srv := &http.Server{
		Addr:              ":" + cfg.Public.Web.Port,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      cfg.Public.Webhooks.Timeout + 2*time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Log.Info("frontend listening", "addr", srv.Addr, "transport", cfg.Public.Webhooks.Transport)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Public.Webhooks.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("http shutdown error", "error", err)
	}
}
