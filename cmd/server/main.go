package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/planer/planer/internal/config"
	"github.com/planer/planer/internal/discovery"
	"github.com/planer/planer/internal/drawing"
	"github.com/planer/planer/internal/export"
	"github.com/planer/planer/internal/live"
	mw "github.com/planer/planer/internal/middleware"
	"github.com/planer/planer/internal/registry"
	"github.com/planer/planer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg, err := registry.LoadFile(cfg.ManifestPath, registry.Builtins())
	if err != nil {
		slog.Error("load shape registry", "manifest", cfg.ManifestPath, "error", err)
		os.Exit(1)
	}
	slog.Info("shape registry loaded", "kinds", reg.Kinds(), "skipped", len(reg.Warnings()))

	st, err := store.Open(ctx, store.Options{
		Driver:      cfg.StoreDriver,
		Dir:         cfg.DrawingsDir,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		slog.Error("open drawing store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	drawingService := drawing.NewService(st, reg)

	hub := live.NewHub(drawingService, cfg.AutosaveInterval)
	go hub.Run()

	drawingHandler := drawing.NewHandler(drawingService, hub.IsOpen)
	exportHandler := export.NewHandler(drawingService, cfg.ExportWidth, cfg.ExportHeight)
	liveHandler := live.NewHandler(hub, cfg.Origins())

	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	drawingHandler.Register(r)
	exportHandler.Register(r)
	liveHandler.Register(r)
	discovery.NewHandler().Register(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.Chain(r, mw.Recovery, mw.Logger, mw.CORS(cfg.Origins())),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.MDNSAdvertise {
		shutdown, err := discovery.Advertise(cfg.Port)
		if err != nil {
			slog.Warn("mdns advertise failed", "error", err)
		} else {
			slog.Info("advertising on mdns", "service", discovery.ServiceType, "port", cfg.Port)
			defer shutdown()
		}
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Save open drawings before connections go away
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
