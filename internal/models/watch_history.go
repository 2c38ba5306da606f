package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchHistory records that a user opened a video. One row per (user, video);
// re-watching bumps WatchedAt.
type WatchHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_user_video" json:"userId"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_user_video" json:"videoId"`
	WatchedAt time.Time `gorm:"not null;index" json:"watchedAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video     Video     `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WatchHistory) TableName() string {
	return "watch_history"
}
