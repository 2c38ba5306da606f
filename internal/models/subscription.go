package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links a subscriber to a channel (both users).
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair" json:"subscriberId"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair;index" json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
	Subscriber   User      `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"-"`
	Channel      User      `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"-"`
}
