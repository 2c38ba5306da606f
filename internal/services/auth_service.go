package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService struct {
	store    UserStore
	tokens   *TokenService
	hashCost int
}

func NewAuthService(store UserStore, tokens *TokenService) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// RegisterInput is a registration request whose images were already uploaded.
type RegisterInput struct {
	Username      string
	Email         string
	FullName      string
	Password      string
	Avatar        string
	AvatarKey     string
	CoverImage    string
	CoverImageKey string
}

// LoginResult is the sanitized user plus a fresh token pair.
type LoginResult struct {
	User   models.User
	Tokens TokenPair
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return nil, Validation("all fields are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	exists, err := s.store.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: check existing user: %w", ErrInternal, err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}

	user := models.User{
		ID:            uuid.New(),
		Username:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		Avatar:        in.Avatar,
		AvatarKey:     in.AvatarKey,
		CoverImage:    in.CoverImage,
		CoverImageKey: in.CoverImageKey,
		Password:      string(hash),
	}
	if err := user.Validate(); err != nil {
		return nil, Validation(err.Error())
	}

	if err := s.store.Create(ctx, &user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%w: create user: %w", ErrInternal, err)
	}

	slog.Info("user registered", "action", "register", "user_id", user.ID.String())
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login accepts either identifier; a user matching the username or the email wins.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, Validation("username or email is required")
	}

	user, err := s.store.FindByIdentifier(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if user == nil {
		metrics.AuthEvent("login", "not_found")
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.AuthEvent("login", "invalid_credentials")
		return nil, ErrWrongPassword
	}

	pair, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.AuthEvent("login", "success")
	slog.Info("user logged in", "action", "login", "user_id", user.ID.String())
	return &LoginResult{User: user.Sanitized(), Tokens: *pair}, nil
}

// Refresh exchanges the presented refresh token for a new pair. The presented token
// must be the one currently stored for its user; a superseded token is rejected even
// when its signature and expiry are still valid.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, ErrTokenMissing
	}

	claims, err := s.tokens.Verify(presented, KindRefresh)
	if err != nil {
		metrics.AuthEvent("refresh", "invalid")
		return nil, err
	}
	userID, _ := claims.UserID()

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if user == nil {
		metrics.AuthEvent("refresh", "unknown_user")
		return nil, ErrRefreshUnknownID
	}

	if user.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshToken)) != 1 {
		metrics.AuthEvent("refresh", "reused")
		slog.Warn("refresh token mismatch", "action", "refresh", "user_id", user.ID.String())
		return nil, ErrRefreshReused
	}

	pair, err := s.tokens.RotatePair(ctx, user, presented)
	if err != nil {
		if errors.Is(err, ErrRefreshReused) {
			metrics.AuthEvent("refresh", "reused")
		}
		return nil, err
	}

	metrics.AuthEvent("refresh", "success")
	return pair, nil
}

// Logout clears the stored refresh token. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.UpdateField(ctx, userID, "refresh_token", nil); err != nil {
		return fmt.Errorf("%w: clear refresh token: %w", ErrInternal, err)
	}
	metrics.AuthEvent("logout", "success")
	slog.Info("user logged out", "action", "logout", "user_id", userID.String())
	return nil
}

// ChangePassword replaces the password hash. The stored refresh token is left as is.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return Validation("old and new password are required")
	}
	if len(newPassword) < minPasswordLength {
		return Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: find user: %w", ErrInternal, err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return NewError(ErrInvalidCredentials, "invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("%w: hash password: %w", ErrInternal, err)
	}
	user.Password = string(hash)

	if err := s.store.Save(ctx, user, SaveOptions{Validate: false}); err != nil {
		return fmt.Errorf("%w: save password: %w", ErrInternal, err)
	}

	slog.Info("password changed", "action", "change_password", "user_id", userID.String())
	return nil
}
