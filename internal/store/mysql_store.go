package store

import (
	"context"
	"fmt"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
)

type MysqlStore struct {
	Logger log.Logger
	Mysql  *db.Mysql
	UserMd *model.User
}

func NewMysqlStore(config *cfg.Config, logger log.Logger, mysql *db.Mysql) (*MysqlStore, error) {
	userMd, err := model.NewUser(config, logger, mysql)
	if err != nil {
		return nil, err
	}
	if err := mysql.Migrate(&model.User{}); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return &MysqlStore{Logger: logger, Mysql: mysql, UserMd: userMd}, nil
}

func (s *MysqlStore) LoadSnapshots(ctx context.Context) (model.SnapshotIndex, error) {
	users, err := s.UserMd.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load previous users: %w", err)
	}
	snapshots := make([]model.Snapshot, 0, len(users))
	for i := range users {
		snapshots = append(snapshots, users[i].Snapshot())
	}
	s.Logger.Info(ctx, "Loaded %d previous users from mysql", len(snapshots))
	return model.NewSnapshotIndex(snapshots), nil
}

func (s *MysqlStore) Save(ctx context.Context, records []model.UserRecord) error {
	if err := s.UserMd.UpsertBatch(ctx, toMessages(records)); err != nil {
		return err
	}
	s.Logger.Info(ctx, "Saved %d users to mysql", len(records))
	return nil
}

func (s *MysqlStore) Close() error {
	return s.Mysql.Close()
}

func toMessages(records []model.UserRecord) []model.UserMessage {
	messages := make([]model.UserMessage, len(records))
	for i, r := range records {
		messages[i] = model.UserMessage{Rank: i + 1, Record: r}
	}
	return messages
}
