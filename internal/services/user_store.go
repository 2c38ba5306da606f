package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/google/uuid"
)

// SaveOptions controls a full-record write.
type SaveOptions struct {
	// Validate runs models.User.Validate before writing.
	Validate bool
}

// UserStore is the credential store used by the session and token services.
// Find methods return (nil, nil) when no user matches.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByIdentifier(ctx context.Context, username, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindSanitizedByID loads the user without the password and refresh-token columns.
	FindSanitizedByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Save(ctx context.Context, user *models.User, opts SaveOptions) error
	// UpdateField writes a single column without record validation. A nil value
	// stores SQL NULL.
	UpdateField(ctx context.Context, id uuid.UUID, field string, value any) error
	// SwapRefreshToken replaces the stored refresh token only if it still equals
	// current. It reports whether the swap happened.
	SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error)
}
