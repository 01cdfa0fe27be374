package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/saulo-duarte/cyberaware-lambda/docs"
	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
	"github.com/saulo-duarte/cyberaware-lambda/internal/container"
)

// @title CyberAware API
// @version 1.0
// @description Security awareness course: accounts, modules, final quiz and certificates.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	c := container.New()

	srv := &http.Server{
		Addr:              ":" + config.Cfg.Port,
		Handler:           c.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.Logger.WithError(err).Error("Graceful shutdown failed")
	}
	config.Logger.Info("HTTP server stopped")
}
