package jobs

import (
	"context"
	"time"

	"everkeep-backend/internal/logger"
)

// pendingPhotoTTL is how long an unconfirmed upload may linger before the
// nightly cleanup removes it.
const pendingPhotoTTL = 24 * time.Hour

// CleanupPendingPhotos removes photo rows whose upload was never confirmed,
// along with any blob that did make it to storage.
func (jr *JobRunner) CleanupPendingPhotos() {
	jr.runWithRecovery("CleanupPendingPhotos", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-pendingPhotoTTL)

		query := `
			SELECT storage_key
			FROM memorial_photos
			WHERE status = 'PENDING' AND created_on < $1
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to query stale pending photos", "error", err)
			return
		}
		defer rows.Close()

		var keys []string
		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				logger.Error("Failed to scan pending photo", "error", err)
				continue
			}
			keys = append(keys, key)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Failed to iterate pending photos", "error", err)
			return
		}

		for _, key := range keys {
			if err := jr.storage.DeleteFile(ctx, key); err != nil {
				logger.Error("Failed to delete orphaned blob", "key", key, "error", err)
			}
		}

		deleted, err := jr.store.MemorialRepository.DeleteExpiredPendingPhotos(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to delete stale pending photo rows", "error", err)
			return
		}

		logger.Info("Pending photo cleanup finished", "rows_deleted", deleted, "blobs_checked", len(keys))
	})
}
