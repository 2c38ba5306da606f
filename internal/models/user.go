package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrFullNameRequired = errors.New("full name is required")
	ErrAvatarRequired   = errors.New("avatar is required")
)

// User is a channel owner and viewer. Password holds the bcrypt hash and RefreshToken
// the single refresh token currently accepted for the user; neither is ever serialized.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username      string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FullName      string    `gorm:"size:120;not null;index" json:"fullName"`
	Avatar        string    `gorm:"type:text;not null" json:"avatar"`
	AvatarKey     string    `gorm:"size:255" json:"-"`
	CoverImage    string    `gorm:"type:text" json:"coverImage"`
	CoverImageKey string    `gorm:"size:255" json:"-"`
	Password      string    `gorm:"not null" json:"-"`
	RefreshToken  *string   `gorm:"type:text" json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the record-level constraints. Single-field writes (refresh token,
// password hash) skip it.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrUsernameRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrEmailInvalid
	}
	if strings.TrimSpace(u.FullName) == "" {
		return ErrFullNameRequired
	}
	if u.Avatar == "" {
		return ErrAvatarRequired
	}
	return nil
}

// Sanitized returns a copy without credential material.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = nil
	return u
}
