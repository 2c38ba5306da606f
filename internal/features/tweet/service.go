package tweet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxContentLength = 280

var (
	ErrTweetNotFound = services.NewError(services.ErrNotFound, "tweet not found")
	ErrNotOwner      = services.NewError(services.ErrForbidden, "only the owner is allowed to change this tweet")
)

type TweetService struct {
	db *gorm.DB
}

func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{db: db}
}

func (s *TweetService) Create(ctx context.Context, ownerID uuid.UUID, content string) (*Tweet, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}

	tweet := Tweet{ID: uuid.New(), OwnerID: ownerID, Content: content}
	if err := s.db.WithContext(ctx).Create(&tweet).Error; err != nil {
		return nil, fmt.Errorf("%w: create tweet: %w", services.ErrInternal, err)
	}
	return &tweet, nil
}

// ListByUser returns a user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID uuid.UUID) ([]Tweet, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: find user: %w", services.ErrInternal, err)
	}
	if count == 0 {
		return nil, services.ErrUserNotFound
	}

	tweets := []Tweet{}
	err := s.db.WithContext(ctx).
		Scopes(identity.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&tweets).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list tweets: %w", services.ErrInternal, err)
	}
	return tweets, nil
}

func (s *TweetService) Update(ctx context.Context, ownerID, tweetID uuid.UUID, content string) (*Tweet, error) {
	content, err := validContent(content)
	if err != nil {
		return nil, err
	}

	tweet, err := s.owned(ctx, ownerID, tweetID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(tweet).Update("content", content).Error; err != nil {
		return nil, fmt.Errorf("%w: update tweet: %w", services.ErrInternal, err)
	}
	tweet.Content = content
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, ownerID, tweetID uuid.UUID) error {
	tweet, err := s.owned(ctx, ownerID, tweetID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(tweet).Error; err != nil {
		return fmt.Errorf("%w: delete tweet: %w", services.ErrInternal, err)
	}
	return nil
}

func (s *TweetService) owned(ctx context.Context, ownerID, tweetID uuid.UUID) (*Tweet, error) {
	var tweet Tweet
	err := s.db.WithContext(ctx).First(&tweet, "id = ?", tweetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find tweet: %w", services.ErrInternal, err)
	}
	if tweet.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &tweet, nil
}

func validContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", services.Validation("tweet content is required")
	}
	if len([]rune(content)) > maxContentLength {
		return "", services.Validation(fmt.Sprintf("tweet must be at most %d characters", maxContentLength))
	}
	return content, nil
}
