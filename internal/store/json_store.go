package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// JSONStore keeps the dataset as a single JSON array on disk. The file it
// writes is also the previous state of the next run.
type JSONStore struct {
	Logger log.Logger
	Path   string
	Pretty bool
}

func NewJSONStore(logger log.Logger, path string, pretty bool) *JSONStore {
	return &JSONStore{Logger: logger, Path: path, Pretty: pretty}
}

// LoadSnapshots tolerates a missing file, a payload that is not a list and
// individual entries that do not decode; each of those is skipped with a warning.
func (s *JSONStore) LoadSnapshots(ctx context.Context) (model.SnapshotIndex, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Logger.Info(ctx, "No previous data at %s, starting fresh", s.Path)
		} else {
			s.Logger.Warn(ctx, "Could not read previous data %s: %v", s.Path, err)
		}
		return model.SnapshotIndex{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		s.Logger.Warn(ctx, "Previous data %s is not a list, ignoring it: %v", s.Path, err)
		return model.SnapshotIndex{}, nil
	}

	snapshots := make([]model.Snapshot, 0, len(entries))
	skipped := 0
	for _, raw := range entries {
		var snap model.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil || snap.Login == "" {
			skipped++
			continue
		}
		snapshots = append(snapshots, snap)
	}
	if skipped > 0 {
		s.Logger.Warn(ctx, "Skipped %d malformed entries in %s", skipped, s.Path)
	}

	index := model.NewSnapshotIndex(snapshots)
	s.Logger.Info(ctx, "Loaded %d previous users from %s", len(index), s.Path)
	return index, nil
}

// Save replaces the file through a temp file so a failed write never leaves
// a truncated dataset behind.
func (s *JSONStore) Save(ctx context.Context, records []model.UserRecord) error {
	if records == nil {
		records = []model.UserRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if s.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}

	s.Logger.Info(ctx, "Saved %d users to %s", len(records), s.Path)
	return nil
}

func (s *JSONStore) Close() error { return nil }
