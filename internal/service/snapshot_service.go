// Package service contains the orchestration layer between handlers and
// repositories.
package service

import (
	"context"
	"log/slog"

	"devflow/internal/aggregator"
	"devflow/internal/middleware"
	"devflow/internal/models"
	"devflow/internal/observability"
	"devflow/internal/repository"
)

// SnapshotService orchestrates the refresh pipeline (aggregate, score,
// persist) and the history read path.
type SnapshotService struct {
	agg       *aggregator.Aggregator
	snapshots repository.SnapshotRepository
}

// NewSnapshotService returns a new SnapshotService.
func NewSnapshotService(agg *aggregator.Aggregator, snapshots repository.SnapshotRepository) *SnapshotService {
	return &SnapshotService{agg: agg, snapshots: snapshots}
}

// Refresh runs one full aggregation cycle for the user and persists the
// result. An upstream failure without a fallback aborts before anything is
// written; nothing partial ever reaches the store.
func (s *SnapshotService) Refresh(ctx context.Context, userID uint) (*models.Snapshot, error) {
	span, ctx := observability.NewSpan(ctx, "snapshot.refresh")
	defer span.End()

	draft, err := s.agg.BuildDraft(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	id, err := s.snapshots.Save(ctx, userID, draft)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "snapshot saved",
		slog.Uint64("snapshot_id", uint64(id)),
		slog.Int("score", *draft.AIScore),
	)

	return &models.Snapshot{
		ID:        id,
		UserID:    userID,
		Timestamp: draft.Timestamp,
		Crypto:    draft.Crypto,
		News:      draft.News,
		Community: draft.Community,
		Weather:   draft.Weather,
		Github:    draft.Github,
		AIScore:   *draft.AIScore,
	}, nil
}

// SaveDraft persists a caller-assembled draft for the user and returns the new
// snapshot's ID. Validation is the store's: a missing or out-of-range score is
// rejected without a write.
func (s *SnapshotService) SaveDraft(ctx context.Context, userID uint, draft *models.SnapshotDraft) (uint, error) {
	return s.snapshots.Save(ctx, userID, draft)
}

// History returns the user's most recent snapshots, newest first.
func (s *SnapshotService) History(ctx context.Context, userID uint, limit int) ([]models.Snapshot, error) {
	return s.snapshots.ListRecent(ctx, userID, limit)
}
