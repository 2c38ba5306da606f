package subscription

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSelfSubscribe   = services.NewError(services.ErrValidation, "you cannot subscribe to your own channel")
	ErrChannelNotFound = services.NewError(services.ErrNotFound, "channel does not exist")
)

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Set subscribes or unsubscribes the user. Repeating the current state is a no-op.
func (s *SubscriptionService) Set(ctx context.Context, subscriberID, channelID uuid.UUID, subscribed bool) (*ToggleResponse, error) {
	if subscriberID == channelID {
		return nil, ErrSelfSubscribe
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", channelID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: find channel: %w", services.ErrInternal, err)
	}
	if count == 0 {
		return nil, ErrChannelNotFound
	}

	db := s.db.WithContext(ctx)
	var err error
	if subscribed {
		row := models.Subscription{ID: uuid.New(), SubscriberID: subscriberID, ChannelID: channelID}
		err = db.Clauses(clause.OnConflict{DoNothing: true}).Omit("Subscriber", "Channel").Create(&row).Error
	} else {
		err = db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			Delete(&models.Subscription{}).Error
	}
	if err != nil {
		return nil, fmt.Errorf("%w: set subscription: %w", services.ErrInternal, err)
	}

	return &ToggleResponse{ChannelID: channelID, IsSubscribed: subscribed}, nil
}
