package repository

import (
	"context"
	"time"

	"devflow/internal/cache"
	"devflow/internal/models"
	"devflow/internal/observability"

	"gorm.io/gorm"
)

const (
	// DefaultHistoryLimit applies when the caller supplies no usable limit.
	DefaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SnapshotRepository is the snapshot store: the only writer of persisted
// snapshots. Snapshots are append-only; there is no update or delete path.
type SnapshotRepository interface {
	Save(ctx context.Context, userID uint, draft *models.SnapshotDraft) (uint, error)
	ListRecent(ctx context.Context, userID uint, limit int) ([]models.Snapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository returns a new SnapshotRepository implementation.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Save validates the draft's composite score, persists the snapshot with a
// server-assigned ID and returns that ID. The timestamp is the caller's when
// supplied, otherwise the time of the write.
func (r *snapshotRepository) Save(ctx context.Context, userID uint, draft *models.SnapshotDraft) (uint, error) {
	if draft == nil || draft.AIScore == nil {
		observability.SnapshotSaves.WithLabelValues("rejected").Inc()
		return 0, models.NewValidationError("Invalid payload: aiScore missing")
	}
	score := *draft.AIScore
	if score < 0 || score > 100 {
		observability.SnapshotSaves.WithLabelValues("rejected").Inc()
		return 0, models.NewValidationError("aiScore must be within [0,100]")
	}

	ts := draft.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	snapshot := models.Snapshot{
		UserID:    userID,
		Timestamp: ts,
		Crypto:    draft.Crypto,
		News:      draft.News,
		Community: draft.Community,
		Weather:   draft.Weather,
		Github:    draft.Github,
		AIScore:   score,
	}

	if err := r.db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		observability.SnapshotSaves.WithLabelValues("error").Inc()
		return 0, models.NewInternalError(err)
	}

	observability.SnapshotSaves.WithLabelValues("ok").Inc()
	cache.InvalidateHistory(ctx, userID)
	return snapshot.ID, nil
}

// ListRecent returns at most limit snapshots owned by userID, newest first.
// Ordering is total: equal timestamps fall back to the insertion ID. Rows are
// always filtered by owner, so one user can never read another's history.
func (r *snapshotRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var snapshots []models.Snapshot
	query := func() error {
		if err := r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("timestamp DESC, id DESC").
			Limit(limit).
			Find(&snapshots).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	// Only the default first page is cached; other limits go straight through.
	if limit == DefaultHistoryLimit {
		if err := cache.Aside(ctx, cache.HistoryKey(userID), &snapshots, cache.HistoryTTL, query); err != nil {
			return nil, err
		}
		return snapshots, nil
	}

	if err := query(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
