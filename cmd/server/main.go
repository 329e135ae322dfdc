package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aurelian-labs/goldvest-backend/internal/api"
	"github.com/aurelian-labs/goldvest-backend/internal/config"
	"github.com/aurelian-labs/goldvest-backend/internal/feed"
	"github.com/aurelian-labs/goldvest-backend/internal/ledger"
	"github.com/aurelian-labs/goldvest-backend/internal/notifications"
	"github.com/aurelian-labs/goldvest-backend/internal/report"
	"github.com/aurelian-labs/goldvest-backend/internal/static"
)

const banner = `
╔══════════════════════════════════════╗
║     Goldvest Investment Tracker      ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Ledger
	store, err := ledger.Open(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[LEDGER] Open failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[LEDGER] Artifact: %s\n", store.Path())

	// Price feed
	priceFeed := feed.New(cfg.FeedBasePrice, cfg.FeedPriceRange,
		time.Duration(cfg.FeedIntervalSeconds)*time.Second)

	// Collaborators
	assets := static.New(cfg.PublicDir)
	var reports *report.Generator
	if cfg.ReportsEnabled {
		reports = report.NewGenerator(cfg.ReportsDir)
	}
	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(store, priceFeed, assets, reports, notify, cfg.Port, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	if notify.Enabled() {
		notify.Send(fmt.Sprintf("Goldvest tracker started on port %d", cfg.Port))
	}

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
