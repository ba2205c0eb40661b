package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/internal/store"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/kafka"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const (
	batchSize    = 100
	batchTimeout = 5 * time.Second
)

func main() {
	// Load configuration
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, _ := log.NewCslLogger()
	loader.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mysql, err := db.NewMysql(config)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer mysql.Close()

	if err := mysql.Migrate(&model.User{}); err != nil {
		logger.Error(ctx, "Failed to migrate users table: %v", err)
		os.Exit(1)
	}
	userMd, _ := model.NewUser(config, logger, mysql)

	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicUser, config.Kafka.Consumer.GroupID)
	if err != nil {
		logger.Error(ctx, "Failed to create consumer: %v", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// Messages are collected and upserted in batches
	messages := make(chan model.UserMessage, batchSize*2)
	batcher := &kafka.Batcher[model.UserMessage]{
		Logger:  logger,
		Size:    batchSize,
		Timeout: batchTimeout,
		Flush:   userMd.UpsertBatch,
	}
	done := make(chan struct{})
	go func() {
		// runs until messages is closed so buffered users are not lost on shutdown
		batcher.Run(context.WithoutCancel(ctx), messages)
		close(done)
	}()

	consumer.RegisterHandler(store.MessageKeyUser, func(ctx context.Context, data []byte) error {
		var msg model.UserMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal user message: %w", err)
		}
		select {
		case messages <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	logger.Info(ctx, "User consumer started")
	if err := consumer.Start(ctx); err != nil {
		logger.Error(ctx, "User consumer error: %v", err)
	}

	logger.Info(ctx, "Received shutdown signal, flushing pending users...")
	close(messages)
	<-done
}
