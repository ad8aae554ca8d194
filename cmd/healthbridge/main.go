package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/claude/healthbridge/internal/bridge"
	"github.com/claude/healthbridge/internal/config"
	"github.com/claude/healthbridge/internal/events"
	"github.com/claude/healthbridge/internal/idmap"
	"github.com/claude/healthbridge/internal/importer"
	"github.com/claude/healthbridge/internal/provider"
	"github.com/claude/healthbridge/internal/provider/healthconnect"
	"github.com/claude/healthbridge/internal/provider/healthkit"
	"github.com/claude/healthbridge/internal/server"
	"github.com/claude/healthbridge/internal/sync"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("HealthBridge starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	platform := idmap.Platform(cfg.Platform)
	ctx := context.Background()

	// Wire the platform mirror and provider
	var providers []provider.Provider
	var imp server.HAEImporter
	emitter := events.NewEmitter()

	switch platform {
	case idmap.PlatformIOS:
		store, err := healthkit.OpenStore(cfg.HealthKit.DBPath)
		if err != nil {
			log.Error("failed to open healthkit mirror", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		log.Info("healthkit mirror opened", "path", cfg.HealthKit.DBPath)

		providers = append(providers, healthkit.NewProvider(store, log))
		imp = importer.New(store, emitter, log, false)

	case idmap.PlatformAndroid:
		dsn := cfg.HealthConnect.DSN()
		if err := healthconnect.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		store, err := healthconnect.NewStore(ctx, dsn)
		if err != nil {
			log.Error("failed to connect healthconnect mirror", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		log.Info("healthconnect mirror connected")

		providers = append(providers, healthconnect.NewProvider(store, log))

	default:
		// Still serve: every operation resolves with an
		// unsupported-platform result.
		log.Warn("unsupported platform, serving coded failures", "platform", cfg.Platform)
	}

	if *migrateOnly {
		log.Info("migrate-only: nothing to do on this platform")
		return
	}

	// Sync engine and bridge facade
	engine := sync.NewEngine(platform, emitter, log,
		time.Duration(cfg.Sync.IntervalMinutes)*time.Minute)
	defer engine.Stop()

	b := bridge.New(platform, providers, engine, emitter, log)

	// Create server
	srv := server.New(b, imp, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "platform", cfg.Platform, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
