package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/JeanGrijp/dast-demo/config"
	"github.com/JeanGrijp/dast-demo/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("config", slog.Any("err", err))
		os.Exit(2)
	}

	logger := server.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup", slog.Any("err", err))
		os.Exit(1)
	}
	defer srv.Close()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server", slog.Any("err", err))
		srv.Close()
		os.Exit(1)
	}
}
