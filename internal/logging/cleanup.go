package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"gorm.io/gorm"
)

const cleanupInterval = 24 * time.Hour

// PurgeLogs deletes system_logs rows older than cutoff and returns how many went.
func PurgeLogs(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup purges expired system_logs once at startup and then daily until done
// is closed. A non-positive retention disables it.
func StartCleanup(db *gorm.DB, retentionDays int, done <-chan struct{}) {
	if retentionDays <= 0 {
		slog.Info("log cleanup disabled")
		return
	}

	purge := func() {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		deleted, err := PurgeLogs(context.Background(), db, cutoff)
		switch {
		case err != nil:
			slog.Warn("log cleanup failed", "error", err)
		case deleted > 0:
			slog.Info("log cleanup completed", "deleted", deleted, "retention_days", retentionDays)
		}
	}

	go func() {
		purge()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				purge()
			case <-done:
				return
			}
		}
	}()
}
