package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/internal/ui"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
)

func main() {
	port := flag.Int("port", 0, "Port for the UI server to listen on (default from config)")
	flag.Parse()

	ctx := context.Background()
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		config.Ui.Port = *port
	}

	logger, _ := log.NewCslLogger()
	loader.SetLogger(logger)
	mysql, err := db.NewMysql(config)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer mysql.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := mysql.Ping(pingCtx); err != nil {
		logger.Warn(ctx, "Database not reachable yet: %v", err)
	}
	cancelPing()

	userMd, _ := model.NewUser(config, logger, mysql)
	server := ui.NewServer(logger, config, userMd)
	loader.RegisterConfigChangeCallback(server.SetConfig)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error(ctx, "Server failed to start: %v", err)
			os.Exit(1)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error(ctx, "Error during server shutdown: %v", err)
	}

	logger.Info(ctx, "Server shut down gracefully")
}
