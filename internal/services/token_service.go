package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the payload of both token kinds. Kind is checked on verification so an
// access token is never accepted where a refresh token is expected.
type Claims struct {
	Kind     TokenKind `json:"typ"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat/exp and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

type TokenService struct {
	store         UserStore
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(store UserStore, cfg *config.Config, opts ...TokenOption) *TokenService {
	s := &TokenService{
		store:         store,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenExpiry,
		refreshTTL:    cfg.RefreshTokenExpiry,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccessSecret is the HS256 key the authorization guard verifies against.
func (s *TokenService) AccessSecret() []byte {
	return s.accessSecret
}

func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	claims := s.claims(KindAccess, user.ID, s.accessTTL)
	claims.Username = user.Username
	claims.Email = user.Email
	return s.sign(claims, s.accessSecret)
}

func (s *TokenService) IssueRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(s.claims(KindRefresh, userID, s.refreshTTL), s.refreshSecret)
}

// IssuePair mints both tokens and makes the new refresh token the only one accepted
// for the user, whatever was stored before.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateField(ctx, user.ID, "refresh_token", pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("%w: persist refresh token: %w", ErrTokenIssuance, err)
	}
	return pair, nil
}

// RotatePair mints both tokens and stores the new refresh token only if presented is
// still the stored one. A concurrent rotation that got there first makes this fail
// with ErrRefreshReused.
func (s *TokenService) RotatePair(ctx context.Context, user *models.User, presented string) (*TokenPair, error) {
	pair, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	swapped, err := s.store.SwapRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: rotate refresh token: %w", ErrTokenIssuance, err)
	}
	if !swapped {
		return nil, ErrRefreshReused
	}
	return pair, nil
}

// Verify checks signature, expiry and kind. It does not consult the store.
func (s *TokenService) Verify(raw string, kind TokenKind) (*Claims, error) {
	secret := s.accessSecret
	if kind == KindRefresh {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) mint(user *models.User) (*TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}
	refresh, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) claims(kind TokenKind, userID uuid.UUID, ttl time.Duration) *Claims {
	now := s.now()
	return &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (s *TokenService) sign(claims *Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("signing secret is empty")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
