package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

var (
	ErrVideoNotFound   = services.NewError(services.ErrNotFound, "video not found")
	ErrCommentNotFound = services.NewError(services.ErrNotFound, "comment not found")
	ErrNotOwner        = services.NewError(services.ErrForbidden, "only the owner is allowed to change this comment")
	ErrContentRequired = services.NewError(services.ErrValidation, "comment content is required")
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Add(ctx context.Context, ownerID, videoID uuid.UUID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if err := s.videoExists(ctx, videoID); err != nil {
		return nil, err
	}

	comment := Comment{ID: uuid.New(), VideoID: videoID, OwnerID: ownerID, Content: content}
	if err := s.db.WithContext(ctx).Omit("Video", "Owner").Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("%w: create comment: %w", services.ErrInternal, err)
	}
	return &comment, nil
}

func (s *CommentService) Update(ctx context.Context, ownerID, commentID uuid.UUID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	comment, err := s.owned(ctx, ownerID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(comment).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("%w: update comment: %w", services.ErrInternal, err)
	}
	comment.Content = content
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, ownerID, commentID uuid.UUID) error {
	comment, err := s.owned(ctx, ownerID, commentID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&Comment{}, "id = ?", comment.ID).Error; err != nil {
		return fmt.Errorf("%w: delete comment: %w", services.ErrInternal, err)
	}
	return nil
}

// List returns a page of a video's comments, newest first.
func (s *CommentService) List(ctx context.Context, videoID uuid.UUID, q ListQuery) (*ListResponse, error) {
	if err := s.videoExists(ctx, videoID); err != nil {
		return nil, err
	}

	page := max(q.Page, 1)
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	base := s.db.WithContext(ctx).Model(&Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: count comments: %w", services.ErrInternal, err)
	}

	comments := make([]Comment, 0, limit)
	err := base.Session(&gorm.Session{}).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "full_name", "avatar")
		}).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list comments: %w", services.ErrInternal, err)
	}

	return &ListResponse{Comments: comments, Total: total, Page: page, Limit: limit}, nil
}

func (s *CommentService) videoExists(ctx context.Context, videoID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: find video: %w", services.ErrInternal, err)
	}
	if count == 0 {
		return ErrVideoNotFound
	}
	return nil
}

func (s *CommentService) owned(ctx context.Context, ownerID, commentID uuid.UUID) (*Comment, error) {
	var comment Comment
	err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find comment: %w", services.ErrInternal, err)
	}
	if comment.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &comment, nil
}
