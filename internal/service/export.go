package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/storage"
)

var ErrStorageDisabled = errors.New("export storage is not configured")

const snapshotLinkExpiry = time.Hour

// Snapshot describes an export written to object storage.
type Snapshot struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ExportService struct {
	goalService *GoalService
	storage     storage.Storage
}

// NewExportService accepts nil storage; snapshots then fail with
// ErrStorageDisabled.
func NewExportService(goalService *GoalService, storage storage.Storage) *ExportService {
	return &ExportService{
		goalService: goalService,
		storage:     storage,
	}
}

func (s *ExportService) Export(ctx context.Context, userID string, now time.Time) (*model.GoalTree, error) {
	tree, err := s.goalService.Tree(ctx, userID)
	if err != nil {
		return nil, err
	}
	tree.ExportedAt = now.UTC()
	return tree, nil
}

// Snapshot writes the export to exports/<user>/<timestamp>.json.
func (s *ExportService) Snapshot(ctx context.Context, userID string, now time.Time) (*Snapshot, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	tree, err := s.Export(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := SnapshotKey(userID, now)
	err = s.storage.Put(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignedURL(ctx, key, snapshotLinkExpiry)
	if err != nil {
		// The snapshot exists; only the link failed.
		slog.Warn("failed to presign snapshot", "error", err, "user_id", userID, "key", key)
	}

	slog.Info("export snapshot written", "user_id", userID, "key", key, "bytes", len(body))
	return &Snapshot{Key: key, URL: url}, nil
}

func SnapshotKey(userID string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", userID, now.UTC().Format("20060102T150405Z"))
}
