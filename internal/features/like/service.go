package like

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Set records or removes the user's like on the target. Repeating the same state is a no-op.
func (s *LikeService) Set(ctx context.Context, userID uuid.UUID, target Target, targetID uuid.UUID, liked bool) (*ToggleResponse, error) {
	var count int64
	if err := s.db.WithContext(ctx).Table(target.table()).Where("id = ?", targetID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: find %s: %w", services.ErrInternal, target, err)
	}
	if count == 0 {
		return nil, services.NewError(services.ErrNotFound, fmt.Sprintf("%s not found", target))
	}

	db := s.db.WithContext(ctx)
	var err error
	if liked {
		row := Like{ID: uuid.New(), LikedByID: userID}
		switch target {
		case TargetVideo:
			row.VideoID = &targetID
		case TargetComment:
			row.CommentID = &targetID
		case TargetTweet:
			row.TweetID = &targetID
		}
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	} else {
		err = db.Where("liked_by_id = ? AND "+target.column()+" = ?", userID, targetID).Delete(&Like{}).Error
	}
	if err != nil {
		return nil, fmt.Errorf("%w: set %s like: %w", services.ErrInternal, target, err)
	}

	likes, err := s.Count(ctx, target, targetID)
	if err != nil {
		return nil, err
	}
	return &ToggleResponse{Target: target, ID: targetID, IsLiked: liked, Likes: likes}, nil
}

// Count returns how many users like the target.
func (s *LikeService) Count(ctx context.Context, target Target, targetID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Like{}).Where(target.column()+" = ?", targetID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count likes: %w", services.ErrInternal, err)
	}
	return count, nil
}
