package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/storage"
	"github.com/google/uuid"
)

// Media folders in the bucket.
const (
	FolderAvatars     = "avatars"
	FolderCoverImages = "cover-images"
	FolderVideos      = "videos"
	FolderThumbnails  = "thumbnails"
)

var ErrChannelNotFound = NewError(ErrNotFound, "channel does not exist")

// ChannelReader serves the channel read-models.
type ChannelReader interface {
	ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*dto.ChannelProfileResponse, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]dto.WatchHistoryItem, error)
}

type UserService struct {
	store    UserStore
	auth     *AuthService
	media    storage.MediaStore
	channels ChannelReader
}

func NewUserService(store UserStore, auth *AuthService, media storage.MediaStore, channels ChannelReader) *UserService {
	return &UserService{store: store, auth: auth, media: media, channels: channels}
}

// Register checks the form, uploads the avatar (required) and cover image (optional)
// and creates the user. Uploaded objects are removed again if creation fails.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest, avatar, cover *multipart.FileHeader) (*models.User, error) {
	in := RegisterInput{
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		FullName: strings.TrimSpace(req.FullName),
		Password: req.Password,
	}
	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return nil, Validation("all fields are required")
	}

	exists, err := s.store.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: check existing user: %w", ErrInternal, err)
	}
	if exists {
		return nil, ErrUserExists
	}

	if avatar == nil {
		return nil, Validation("avatar file is required")
	}
	avatarAsset, err := s.upload(ctx, FolderAvatars, avatar)
	if err != nil {
		return nil, err
	}
	in.Avatar, in.AvatarKey = avatarAsset.URL, avatarAsset.Key

	uploaded := []string{avatarAsset.Key}
	if cover != nil {
		coverAsset, err := s.upload(ctx, FolderCoverImages, cover)
		if err != nil {
			s.discard(ctx, uploaded...)
			return nil, err
		}
		in.CoverImage, in.CoverImageKey = coverAsset.URL, coverAsset.Key
		uploaded = append(uploaded, coverAsset.Key)
	}

	user, err := s.auth.Register(ctx, in)
	if err != nil {
		s.discard(ctx, uploaded...)
		return nil, err
	}
	return user, nil
}

func (s *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.FindSanitizedByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, req dto.UpdateAccountRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, Validation("all fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, Validation("email is invalid")
	}

	other, err := s.store.FindByIdentifier(ctx, "", email)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if other != nil && other.ID != userID {
		return nil, NewError(ErrConflict, "email is already in use")
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.FullName = fullName
	user.Email = email
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("account updated", "action", "update_account", "user_id", userID.String())
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*models.User, error) {
	if file == nil {
		return nil, Validation("avatar file is missing")
	}
	return s.replaceImage(ctx, userID, FolderAvatars, file, func(u *models.User, a *storage.Asset) string {
		old := u.AvatarKey
		u.Avatar, u.AvatarKey = a.URL, a.Key
		return old
	})
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*models.User, error) {
	if file == nil {
		return nil, Validation("cover image file is missing")
	}
	return s.replaceImage(ctx, userID, FolderCoverImages, file, func(u *models.User, a *storage.Asset) string {
		old := u.CoverImageKey
		u.CoverImage, u.CoverImageKey = a.URL, a.Key
		return old
	})
}

func (s *UserService) ChannelProfile(ctx context.Context, username string, viewer uuid.UUID) (*dto.ChannelProfileResponse, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, Validation("username is missing")
	}
	profile, err := s.channels.ChannelProfile(ctx, username, viewer)
	if err != nil {
		return nil, fmt.Errorf("%w: channel profile: %w", ErrInternal, err)
	}
	if profile == nil {
		return nil, ErrChannelNotFound
	}
	return profile, nil
}

func (s *UserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]dto.WatchHistoryItem, error) {
	items, err := s.channels.WatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: watch history: %w", ErrInternal, err)
	}
	if items == nil {
		items = []dto.WatchHistoryItem{}
	}
	return items, nil
}

// replaceImage uploads file, lets apply swap it onto the user and deletes the
// object apply reports as replaced.
func (s *UserService) replaceImage(ctx context.Context, userID uuid.UUID, folder string, file *multipart.FileHeader,
	apply func(*models.User, *storage.Asset) string) (*models.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	asset, err := s.upload(ctx, folder, file)
	if err != nil {
		return nil, err
	}
	oldKey := apply(user, asset)

	if err := s.save(ctx, user); err != nil {
		s.discard(ctx, asset.Key)
		return nil, err
	}
	s.discard(ctx, oldKey)

	slog.Info("user image replaced", "action", "update_"+folder, "user_id", userID.String())
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *UserService) save(ctx context.Context, user *models.User) error {
	err := s.store.Save(ctx, user, SaveOptions{Validate: true})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrUsernameRequired), errors.Is(err, models.ErrEmailInvalid),
		errors.Is(err, models.ErrFullNameRequired), errors.Is(err, models.ErrAvatarRequired):
		return Validation(err.Error())
	case errors.Is(err, ErrConflict):
		return ErrUserExists
	default:
		return fmt.Errorf("%w: save user: %w", ErrInternal, err)
	}
}

func (s *UserService) upload(ctx context.Context, folder string, file *multipart.FileHeader) (*storage.Asset, error) {
	return UploadMedia(ctx, s.media, folder, file)
}

func (s *UserService) discard(ctx context.Context, keys ...string) {
	DiscardMedia(ctx, s.media, keys...)
}

// UploadMedia stores file and maps media-host failures onto error kinds.
func UploadMedia(ctx context.Context, media storage.MediaStore, folder string, file *multipart.FileHeader) (*storage.Asset, error) {
	asset, err := media.Upload(ctx, folder, file)
	switch {
	case err == nil:
		return asset, nil
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrTooLarge):
		return nil, Validation(err.Error())
	default:
		return nil, fmt.Errorf("%w: upload to %s: %w", ErrInternal, folder, err)
	}
}

// DiscardMedia deletes objects best-effort; failures are only logged.
func DiscardMedia(ctx context.Context, media storage.MediaStore, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := media.Delete(ctx, key); err != nil {
			slog.Warn("media delete failed", "key", key, "error", err)
		}
	}
}
