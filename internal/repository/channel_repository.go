package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChannelRepository answers the channel profile and watch-history read-models.
type ChannelRepository struct {
	db *gorm.DB
}

var _ services.ChannelReader = (*ChannelRepository)(nil)

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*dto.ChannelProfileResponse, error) {
	db := r.db.WithContext(ctx)

	var row models.User
	user, err := found(&row, db.Omit("password", "refresh_token").Where("username = ?", username).First(&row).Error)
	if err != nil || user == nil {
		return nil, err
	}

	profile := &dto.ChannelProfileResponse{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Email:      user.Email,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}

	if err := db.Model(&models.Subscription{}).
		Where("channel_id = ?", user.ID).
		Count(&profile.SubscribersCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Subscription{}).
		Where("subscriber_id = ?", user.ID).
		Count(&profile.ChannelsSubscribedToCount).Error; err != nil {
		return nil, err
	}

	if viewer != uuid.Nil {
		var n int64
		if err := db.Model(&models.Subscription{}).
			Where("channel_id = ? AND subscriber_id = ?", user.ID, viewer).
			Count(&n).Error; err != nil {
			return nil, err
		}
		profile.IsSubscribed = n > 0
	}

	return profile, nil
}

type watchRow struct {
	VideoID       uuid.UUID
	Title         string
	Description   string
	Thumbnail     string
	VideoFile     string
	Duration      float64
	Views         int64
	WatchedAt     time.Time
	OwnerID       uuid.UUID
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

func (r *ChannelRepository) WatchHistory(ctx context.Context, userID uuid.UUID) ([]dto.WatchHistoryItem, error) {
	var rows []watchRow
	err := r.db.WithContext(ctx).
		Table("watch_history AS wh").
		Select(`v.id AS video_id, v.title, v.description, v.thumbnail, v.video_file,
			v.duration, v.views, wh.watched_at,
			u.id AS owner_id, u.username AS owner_username,
			u.full_name AS owner_full_name, u.avatar AS owner_avatar`).
		Joins("JOIN videos AS v ON v.id = wh.video_id").
		Joins("JOIN users AS u ON u.id = v.owner_id").
		Where("wh.user_id = ?", userID).
		Order("wh.watched_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]dto.WatchHistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.WatchHistoryItem{
			VideoID:     row.VideoID,
			Title:       row.Title,
			Description: row.Description,
			Thumbnail:   row.Thumbnail,
			VideoFile:   row.VideoFile,
			Duration:    row.Duration,
			Views:       row.Views,
			WatchedAt:   row.WatchedAt,
			Owner: dto.OwnerSummary{
				ID:       row.OwnerID,
				Username: row.OwnerUsername,
				FullName: row.OwnerFullName,
				Avatar:   row.OwnerAvatar,
			},
		})
	}
	return items, nil
}
