package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	VideoFile    string    `gorm:"type:text;not null" json:"videoFile"`
	VideoKey     string    `gorm:"size:255;not null" json:"-"`
	Thumbnail    string    `gorm:"type:text;not null" json:"thumbnail"`
	ThumbnailKey string    `gorm:"size:255;not null" json:"-"`
	Title        string    `gorm:"size:200;not null;index" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Duration     float64   `gorm:"default:0" json:"duration"`
	Views        int64     `gorm:"default:0" json:"views"`
	IsPublished  bool      `gorm:"default:true;index" json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Owner        *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
