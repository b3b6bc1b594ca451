package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/incident-reports-api/api/handlers"
	"github.com/linesmerrill/incident-reports-api/config"
)

func main() {
	conf, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	a := handlers.App{Config: *conf}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//initialize database and router
	if err := a.Initialize(ctx); err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", conf.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.S().Infow("incident-reports-api is up and running",
			"port", conf.Port,
			"url", conf.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	zap.S().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorw("failed to shut down cleanly", "error", err)
	}
	a.Close(shutdownCtx)
	_ = zap.L().Sync()
}
