package comment

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VideoID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"videoId"`
	OwnerID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"ownerId"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Video     models.Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
	Owner     *models.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// --- DTOs ---

type ContentRequest struct {
	Content        string `json:"content"`
	UpdatedContent string `json:"updatedContent"`
}

func (r ContentRequest) text() string {
	if r.UpdatedContent != "" {
		return r.UpdatedContent
	}
	return r.Content
}

type ListQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type ListResponse struct {
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
