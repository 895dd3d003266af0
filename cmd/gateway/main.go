package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lambdagate/internal/cache"
	"lambdagate/internal/config"
	"lambdagate/internal/dispatch"
	"lambdagate/internal/ingress"
	"lambdagate/internal/logger"
	"lambdagate/internal/metrics"
	"lambdagate/internal/routes"
	"lambdagate/internal/supervisor"
	"lambdagate/internal/telemetry"
	"lambdagate/internal/transport"
)

const defaultBindAddress = "127.0.0.1:3000"

func main() {
	logger.Init(slog.LevelDebug, false)
	metrics.Init()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", "error", err)
	}

	manifestPath := flag.String("manifest", "manifest.yaml", "path to the worker manifest")
	flag.Parse()

	shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName:  "lambdagate",
		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
		Enabled:      os.Getenv("OTLP_ENDPOINT") != "",
	})
	if err != nil {
		logger.Warn("telemetry init failed", "error", err)
	} else {
		defer shutdownTelemetry(context.Background())
	}

	manifest, err := config.Load(*manifestPath)
	if err != nil {
		logger.Error("failed to load manifest", "error", err)
		os.Exit(1)
	}

	records := manifest.Records()

	table, err := routes.Build(records)
	if err != nil {
		logger.Error("failed to compile route table", "error", err)
		os.Exit(1)
	}

	sup := supervisor.New()
	startCtx, cancelStart := context.WithCancel(context.Background())
	defer cancelStart()
	if err := sup.Start(startCtx, records); err != nil {
		logger.Error("failed to start workers", "error", err)
		os.Exit(1)
	}

	bindAddress := manifest.BindAddress
	if bindAddress == "" {
		bindAddress = defaultBindAddress
	}
	if envAddr := os.Getenv("BIND_ADDRESS"); envAddr != "" {
		bindAddress = envAddr
	}

	respCache := cache.New(manifest.CacheCapacity)
	pipeline := dispatch.New(respCache, table, sup, transport.NewIPCClient(), transport.NewHTTPClient())
	handler := ingress.New(pipeline)

	server := &http.Server{
		Addr:    bindAddress,
		Handler: handler,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		sup.Stop()
		os.Exit(0)
	}()

	logger.Info("gateway starting", "addr", bindAddress, "workers", len(records))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
