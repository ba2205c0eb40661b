package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/crawler"
	githubapi "github.com/thep200/github-user-crawler/internal/github_api"
	"github.com/thep200/github-user-crawler/internal/store"
	"github.com/thep200/github-user-crawler/pkg/log"
)

func main() {
	storeKind := flag.String("store", "", "Where to save results: json, mysql or kafka (default from config)")
	target := flag.Int("target", 0, "Number of users to collect (default from config)")
	workers := flag.Int("workers", 0, "Number of users enriched at once (default from config)")
	flag.Parse()

	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *storeKind != "" {
		config.Store.Kind = *storeKind
	}
	if *target > 0 {
		config.Crawler.TargetUsers = *target
	}
	if *workers > 0 {
		config.Crawler.Workers = *workers
	}

	logger, _ := log.NewCslLogger()
	loader.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error(ctx, "Failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Successfully!")
}

func run(ctx context.Context, config *cfg.Config, logger log.Logger) error {
	st, err := store.FactoryStore(config.Store.Kind, config, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if !config.HasToken() {
		logger.Warn(ctx, "GITHUB_TOKEN is not set: GraphQL and sponsorship lookups are disabled")
	}

	previous, err := st.LoadSnapshots(ctx)
	if err != nil {
		logger.Warn(ctx, "Previous snapshots unavailable, trends start fresh: %v", err)
	}

	transport := githubapi.NewTransport(logger, config)
	caller := githubapi.NewCaller(logger, config, transport)
	c := crawler.NewCrawler(logger, config, caller)

	logger.Info(ctx, "Starting Github top users crawler (target %d, workers %d)",
		config.Crawler.TargetUsers, config.Crawler.Workers)
	records, info, err := c.Crawl(ctx, previous)
	if err != nil {
		if errors.Is(err, crawler.ErrNoCandidates) {
			return fmt.Errorf("no users found: %w", err)
		}
		return err
	}

	// an interrupted run would overwrite good snapshots with unenriched users
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted, results not saved: %w", ctx.Err())
	}
	if err := st.Save(ctx, records); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	logger.Info(ctx, "Summary: %s", info)
	return nil
}
