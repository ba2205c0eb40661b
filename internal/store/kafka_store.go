package store

import (
	"context"
	"fmt"

	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// MessageKeyUser is the key every user message is published with.
const MessageKeyUser = "user"

type publisher interface {
	PublishBatch(ctx context.Context, key string, values []interface{}) error
	Close() error
}

// KafkaStore publishes records for cmd/consumer to write into MySQL.
type KafkaStore struct {
	Logger   log.Logger
	producer publisher
	source   SnapshotSource
}

func NewKafkaStore(logger log.Logger, producer publisher, source SnapshotSource) *KafkaStore {
	return &KafkaStore{Logger: logger, producer: producer, source: source}
}

func (s *KafkaStore) LoadSnapshots(ctx context.Context) (model.SnapshotIndex, error) {
	return s.source.LoadSnapshots(ctx)
}

func (s *KafkaStore) Save(ctx context.Context, records []model.UserRecord) error {
	messages := toMessages(records)
	values := make([]interface{}, len(messages))
	for i := range messages {
		values[i] = messages[i]
	}
	if err := s.producer.PublishBatch(ctx, MessageKeyUser, values); err != nil {
		return fmt.Errorf("publish users: %w", err)
	}
	s.Logger.Info(ctx, "Published %d users to kafka", len(records))
	return nil
}

func (s *KafkaStore) Close() error {
	return s.producer.Close()
}
