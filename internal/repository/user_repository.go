package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// updatableFields lists the columns UpdateField may touch.
var updatableFields = map[string]bool{
	"refresh_token":   true,
	"password":        true,
	"full_name":       true,
	"email":           true,
	"avatar":          true,
	"avatar_key":      true,
	"cover_image":     true,
	"cover_image_key": true,
}

// UserRepository is the GORM-backed credential store.
type UserRepository struct {
	db *gorm.DB
}

var _ services.UserStore = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return uniqueViolation(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("(username = ? AND username <> '') OR (email = ? AND email <> '')", username, email).
		First(&user).Error
	return found(&user, err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return found(&user, err)
}

func (r *UserRepository) FindSanitizedByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Omit("password", "refresh_token").
		First(&user, "id = ?", id).Error
	return found(&user, err)
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// Save writes the whole record except the refresh-token slot, which only
// UpdateField and SwapRefreshToken change.
func (r *UserRepository) Save(ctx context.Context, user *models.User, opts services.SaveOptions) error {
	if opts.Validate {
		if err := user.Validate(); err != nil {
			return err
		}
	}
	return uniqueViolation(r.db.WithContext(ctx).Omit("refresh_token").Save(user).Error)
}

// uniqueViolation reports a duplicate username or email as a conflict. The pool is
// opened with TranslateError so the driver error arrives as gorm.ErrDuplicatedKey.
func uniqueViolation(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", services.ErrConflict, err)
	}
	return err
}

func (r *UserRepository) UpdateField(ctx context.Context, id uuid.UUID, field string, value any) error {
	if !updatableFields[field] {
		return fmt.Errorf("field %q is not updatable", field)
	}
	if value == nil {
		value = gorm.Expr("NULL")
	}
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update(field, value).Error
}

func (r *UserRepository) SwapRefreshToken(ctx context.Context, id uuid.UUID, current, next string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func found(user *models.User, err error) (*models.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
