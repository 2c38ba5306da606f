package tweet

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/google/uuid"
)

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"ownerId"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Owner     *models.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

func (Tweet) TableName() string {
	return "tweets"
}

// --- DTOs ---

type ContentRequest struct {
	Content string `json:"content"`
	Tweet   string `json:"tweet"`
}

func (r ContentRequest) text() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Tweet
}
