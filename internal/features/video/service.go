package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

var (
	ErrVideoNotFound = services.NewError(services.ErrNotFound, "video not found")
	ErrNotOwner      = services.NewError(services.ErrForbidden, "only the owner is allowed to change this video")
)

// sortColumns whitelists the sortBy values accepted by List.
var sortColumns = map[string]string{
	"title":     "title",
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
}

type VideoService struct {
	db    *gorm.DB
	media storage.MediaStore
}

func NewVideoService(db *gorm.DB, media storage.MediaStore) *VideoService {
	return &VideoService{db: db, media: media}
}

func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, req PublishRequest, videoFile, thumbnail *multipart.FileHeader) (*models.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, services.Validation("title or description is missing")
	}
	if videoFile == nil {
		return nil, services.Validation("video file is missing")
	}
	if thumbnail == nil {
		return nil, services.Validation("thumbnail file is missing")
	}
	if req.Duration < 0 {
		return nil, services.Validation("duration must not be negative")
	}

	videoAsset, err := services.UploadMedia(ctx, s.media, services.FolderVideos, videoFile)
	if err != nil {
		return nil, err
	}
	thumbAsset, err := services.UploadMedia(ctx, s.media, services.FolderThumbnails, thumbnail)
	if err != nil {
		services.DiscardMedia(ctx, s.media, videoAsset.Key)
		return nil, err
	}

	video := models.Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		VideoFile:    videoAsset.URL,
		VideoKey:     videoAsset.Key,
		Thumbnail:    thumbAsset.URL,
		ThumbnailKey: thumbAsset.Key,
		Title:        title,
		Description:  description,
		Duration:     req.Duration,
		IsPublished:  true,
	}
	if err := s.db.WithContext(ctx).Create(&video).Error; err != nil {
		services.DiscardMedia(ctx, s.media, videoAsset.Key, thumbAsset.Key)
		return nil, fmt.Errorf("%w: create video: %w", services.ErrInternal, err)
	}

	slog.Info("video published", "action", "publish_video", "user_id", ownerID.String(), "video_id", video.ID.String())
	return &video, nil
}

// Get returns a video with its owner. Viewing counts a view and records the video in
// the viewer's watch history. Unpublished videos are only visible to their owner.
func (s *VideoService) Get(ctx context.Context, viewer, videoID uuid.UUID) (*models.Video, error) {
	var video models.Video
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Owner", ownerColumns).First(&video, "id = ?", videoID).Error; err != nil {
			return err
		}
		if !video.IsPublished && video.OwnerID != viewer {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.Video{}).Where("id = ?", videoID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		video.Views++

		if viewer == uuid.Nil {
			return nil
		}
		entry := models.WatchHistory{UserID: viewer, VideoID: videoID, WatchedAt: time.Now().UTC()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
		}).Omit("User", "Video").Create(&entry).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get video: %w", services.ErrInternal, err)
	}
	return &video, nil
}

// Update replaces title, description and thumbnail. The previous thumbnail object is
// deleted once the row points at the new one.
func (s *VideoService) Update(ctx context.Context, ownerID, videoID uuid.UUID, req UpdateRequest, thumbnail *multipart.FileHeader) (*models.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, services.Validation("title or description is missing")
	}
	if thumbnail == nil {
		return nil, services.Validation("thumbnail file is missing")
	}

	video, err := s.owned(ctx, ownerID, videoID)
	if err != nil {
		return nil, err
	}

	asset, err := services.UploadMedia(ctx, s.media, services.FolderThumbnails, thumbnail)
	if err != nil {
		return nil, err
	}
	oldKey := video.ThumbnailKey

	err = s.db.WithContext(ctx).Model(video).Updates(map[string]any{
		"title":         title,
		"description":   description,
		"thumbnail":     asset.URL,
		"thumbnail_key": asset.Key,
	}).Error
	if err != nil {
		services.DiscardMedia(ctx, s.media, asset.Key)
		return nil, fmt.Errorf("%w: update video: %w", services.ErrInternal, err)
	}
	services.DiscardMedia(ctx, s.media, oldKey)

	video.Title, video.Description = title, description
	video.Thumbnail, video.ThumbnailKey = asset.URL, asset.Key
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, ownerID, videoID uuid.UUID) error {
	video, err := s.owned(ctx, ownerID, videoID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Video{}, "id = ?", video.ID).Error; err != nil {
		return fmt.Errorf("%w: delete video: %w", services.ErrInternal, err)
	}
	services.DiscardMedia(ctx, s.media, video.VideoKey, video.ThumbnailKey)

	slog.Info("video deleted", "action", "delete_video", "user_id", ownerID.String(), "video_id", videoID.String())
	return nil
}

func (s *VideoService) SetPublished(ctx context.Context, ownerID, videoID uuid.UUID, published *bool) (*models.Video, error) {
	if published == nil {
		return nil, services.Validation("publishStatus must be a boolean")
	}

	video, err := s.owned(ctx, ownerID, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(video).Update("is_published", *published).Error; err != nil {
		return nil, fmt.Errorf("%w: update publish status: %w", services.ErrInternal, err)
	}
	video.IsPublished = *published
	return video, nil
}

// List pages through videos. Only published videos are returned unless the caller
// lists their own channel.
func (s *VideoService) List(ctx context.Context, viewer uuid.UUID, q ListQuery) (*ListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	column, ok := sortColumns[q.SortBy]
	if q.SortBy == "" {
		column, ok = "title", true
	}
	if !ok {
		return nil, services.Validation("unsupported sortBy value")
	}
	desc := false
	switch strings.ToLower(q.SortType) {
	case "", "asc", "ascending":
	case "desc", "descending":
		desc = true
	default:
		return nil, services.Validation("sortType must be ascending or descending")
	}

	var channelID uuid.UUID
	byChannel := q.UserID != ""
	if byChannel {
		id, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, services.Validation("invalid user ID")
		}
		channelID = id
	}

	base := s.db.WithContext(ctx).Model(&models.Video{})
	ownChannel := false
	if byChannel {
		base = base.Scopes(identity.OwnedBy(channelID))
		ownChannel = channelID == viewer
	}
	if !ownChannel {
		base = base.Where("is_published = ?", true)
	}
	if term := strings.TrimSpace(q.Query); term != "" {
		pattern := "%" + term + "%"
		base = base.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: count videos: %w", services.ErrInternal, err)
	}

	videos := make([]models.Video, 0, limit)
	err := base.Session(&gorm.Session{}).
		Preload("Owner", ownerColumns).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list videos: %w", services.ErrInternal, err)
	}

	return &ListResponse{Videos: videos, Total: total, Page: page, Limit: limit}, nil
}

func (s *VideoService) owned(ctx context.Context, ownerID, videoID uuid.UUID) (*models.Video, error) {
	var video models.Video
	err := s.db.WithContext(ctx).First(&video, "id = ?", videoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find video: %w", services.ErrInternal, err)
	}
	if video.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &video, nil
}

// ownerColumns limits preloaded owners to their public profile.
func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "full_name", "avatar")
}
