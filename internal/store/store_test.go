package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/kafka"
	"github.com/thep200/github-user-crawler/pkg/log"
)

type fakePublisher struct {
	key    string
	values []interface{}
	err    error
	closed bool
}

func (p *fakePublisher) PublishBatch(_ context.Context, key string, values []interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.key = key
	p.values = append(p.values, values...)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type staticSource model.SnapshotIndex

func (s staticSource) LoadSnapshots(context.Context) (model.SnapshotIndex, error) {
	return model.SnapshotIndex(s), nil
}

func TestFactoryStore(t *testing.T) {
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	logger := log.NewNopLogger()

	s, err := FactoryStore(KindJSON, config, logger)
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)
	assert.True(t, s.(*JSONStore).Pretty)

	s, err = FactoryStore("", config, logger)
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)

	_, err = FactoryStore("redis", config, logger)
	assert.Error(t, err)

	config.Kafka.Brokers = nil
	_, err = FactoryStore(KindKafka, config, logger)
	assert.ErrorIs(t, err, kafka.ErrNoBrokers)
}

func TestKafkaStorePublishesRankedMessages(t *testing.T) {
	pub := &fakePublisher{}
	previous := staticSource{"octo": {Login: "octo"}}
	s := NewKafkaStore(log.NewNopLogger(), pub, previous)

	records := []model.UserRecord{
		{Candidate: model.Candidate{Login: "octo"}},
		{Candidate: model.Candidate{Login: "cat"}},
	}
	require.NoError(t, s.Save(context.Background(), records))

	assert.Equal(t, MessageKeyUser, pub.key)
	require.Len(t, pub.values, 2)
	raw, err := json.Marshal(pub.values[1])
	require.NoError(t, err)
	var msg model.UserMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, 2, msg.Rank)
	assert.Equal(t, "cat", msg.Record.Login)

	index, err := s.LoadSnapshots(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, index.Lookup("octo"))

	require.NoError(t, s.Close())
	assert.True(t, pub.closed)
}

func TestKafkaStoreWrapsPublishError(t *testing.T) {
	boom := errors.New("broker down")
	s := NewKafkaStore(log.NewNopLogger(), &fakePublisher{err: boom}, staticSource{})

	err := s.Save(context.Background(), []model.UserRecord{{}})
	assert.ErrorIs(t, err, boom)
}
