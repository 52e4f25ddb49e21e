package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/janisto/swarm-balance/internal/config"
	"github.com/janisto/swarm-balance/internal/message"
	"github.com/janisto/swarm-balance/internal/platform/host"
	applog "github.com/janisto/swarm-balance/internal/platform/logging"
	"github.com/janisto/swarm-balance/internal/platform/server"
	"github.com/janisto/swarm-balance/internal/platform/tracing"
	"github.com/janisto/swarm-balance/internal/routes"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Init("backend", Version); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load(config.RoleBackend)
	if err != nil {
		applog.LogError(context.Background(), "invalid configuration", err)
		return 1
	}
	msg := message.Resolve(message.FileEnv, message.Env, message.DefaultBackend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "backend", Version, cfg.OTLPEndpoint)
	if err != nil {
		applog.LogError(ctx, "tracing setup failed", err)
		return 1
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			applog.LogError(context.Background(), "tracing shutdown error", err)
		}
	}()

	srv := server.New(server.Options{
		Addr: cfg.Addr(),
		Handler: routes.Backend(routes.BackendOptions{
			Version:  Version,
			Message:  msg,
			Hostname: host.Name(),
		}),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	})

	applog.LogInfo(ctx, "backend starting",
		zap.String("addr", srv.Addr),
		zap.String("hostname", host.Name()),
		zap.Bool("tracing", cfg.TracingEnabled()),
	)
	if err := server.Run(ctx, srv, cfg.ShutdownTimeout); err != nil {
		applog.LogError(context.Background(), "backend stopped", err)
		return 1
	}
	return 0
}
