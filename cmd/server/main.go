package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"boardgame-catalog/config"
	"boardgame-catalog/internal/browse"
	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/catalog/source"
	"boardgame-catalog/internal/logging"
	"boardgame-catalog/internal/render"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.New(ctx, cfg)
	if err != nil {
		return err
	}

	// A failed fetch leaves an empty catalog; the page still serves.
	store := catalog.NewStore(logger)
	if err := store.Load(ctx, src); err != nil {
		logger.Warn("serving without games", "error", err)
	}

	html, err := render.NewHTML(render.HTMLOptions{Badge: cfg.FeaturedBadge})
	if err != nil {
		return err
	}

	engine := catalog.NewEngineForLanguage(cfg.CollationLanguage)
	ctrl := browse.NewController(store, engine, html, cfg.FeaturedGameID)
	handler := browse.NewHandler(ctrl, html, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: browse.RequestLogger(logger, handler.Routes()),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr, "source", src.Name(), "records", store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
