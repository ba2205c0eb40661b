// Package store persists crawl output and reads back the previous run's
// follower snapshots that the trending calculation compares against.
package store

import (
	"context"
	"fmt"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/kafka"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const (
	KindJSON  = "json"
	KindMysql = "mysql"
	KindKafka = "kafka"
)

// SnapshotSource loads the previous run. A missing previous run is an empty
// index, not an error.
type SnapshotSource interface {
	LoadSnapshots(ctx context.Context) (model.SnapshotIndex, error)
}

// RecordSink saves records in rank order; records[0] has rank 1.
type RecordSink interface {
	Save(ctx context.Context, records []model.UserRecord) error
}

type Store interface {
	SnapshotSource
	RecordSink
	Close() error
}

// FactoryStore builds the store selected by Store.Kind.
func FactoryStore(kind string, config *cfg.Config, logger log.Logger) (Store, error) {
	switch kind {
	case "", KindJSON:
		return NewJSONStore(logger, config.Store.JsonPath, config.IsDevelopment()), nil
	case KindMysql:
		mysql, err := db.NewMysql(config)
		if err != nil {
			return nil, err
		}
		return NewMysqlStore(config, logger, mysql)
	case KindKafka:
		producer, err := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicUser)
		if err != nil {
			return nil, err
		}
		// previous snapshots still come from the local file
		return NewKafkaStore(logger, producer, NewJSONStore(logger, config.Store.JsonPath, config.IsDevelopment())), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %q", kind)
	}
}
