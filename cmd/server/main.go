package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/sll518/notion-to-md/internal/api"
	"github.com/sll518/notion-to-md/internal/config"
	"github.com/sll518/notion-to-md/internal/notion"
	"github.com/sll518/notion-to-md/internal/pipeline"
	"github.com/sll518/notion-to-md/internal/tomd"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the Notion client and converter.
	nc := notion.NewClient(cfg.NotionToken,
		notion.WithBaseURL(cfg.NotionBaseURL),
		notion.WithVersion(cfg.NotionVersion),
		notion.WithPageSize(cfg.NotionPageSize),
		notion.WithHTTPTimeout(cfg.HTTPTimeout),
	)
	var opts []tomd.Option
	if cfg.OrderedLists {
		opts = append(opts, tomd.WithOrderedLists())
	}
	conv := tomd.New(tomd.Config{Client: nc}, opts...)

	// Initialize the batch export pipeline.
	exp := pipeline.NewExporter(pipeline.Config{
		Workers:      cfg.Workers,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, conv, log)
	exp.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(conv, nc, exp, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		exp.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		nc.Close()
	}()

	log.Info("starting notion-to-md", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
