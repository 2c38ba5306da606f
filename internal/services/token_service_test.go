package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/testsupport"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 240 * time.Hour,
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := services.NewTokenService(testsupport.NewUserStore(), testConfig())
	user := &models.User{ID: uuid.New(), Username: "alice", Email: "alice@x.com"}

	access, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	claims, err := tokens.Verify(access, services.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)

	claims, err = tokens.Verify(refresh, services.KindRefresh)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Empty(t, claims.Email)
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	tokens := services.NewTokenService(testsupport.NewUserStore(), testConfig())
	user := &models.User{ID: uuid.New()}

	access, err := tokens.IssueAccessToken(user)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	_, err = tokens.Verify(access, services.KindRefresh)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = tokens.Verify(refresh, services.KindAccess)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestTokenService_SameSecretWrongKindRejected(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	tokens := services.NewTokenService(testsupport.NewUserStore(), cfg)

	refresh, err := tokens.IssueRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = tokens.Verify(refresh, services.KindAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	t.Parallel()

	past := func() time.Time { return time.Now().Add(-time.Hour) }
	issuer := services.NewTokenService(testsupport.NewUserStore(), testConfig(), services.WithClock(past))
	verifier := services.NewTokenService(testsupport.NewUserStore(), testConfig())

	access, err := issuer.IssueAccessToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = verifier.Verify(access, services.KindAccess)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestTokenService_WrongSecretAndMalformed(t *testing.T) {
	t.Parallel()

	other := testConfig()
	other.AccessTokenSecret = "someone-elses-secret"
	forger := services.NewTokenService(testsupport.NewUserStore(), other)
	tokens := services.NewTokenService(testsupport.NewUserStore(), testConfig())

	forged, err := forger.IssueAccessToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = tokens.Verify(forged, services.KindAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = tokens.Verify("not.a.jwt", services.KindAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tokens := services.NewTokenService(testsupport.NewUserStore(), testConfig())
	claims := &services.Claims{
		Kind: services.KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = tokens.Verify(raw, services.KindAccess)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenService_PairsAreUnique(t *testing.T) {
	t.Parallel()

	store := testsupport.NewUserStore()
	tokens := services.NewTokenService(store, testConfig())
	user := &models.User{ID: uuid.New(), Username: "bob", Email: "bob@x.com"}
	require.NoError(t, store.Create(context.Background(), user))

	first, err := tokens.IssuePair(context.Background(), user)
	require.NoError(t, err)
	second, err := tokens.IssuePair(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	stored := store.StoredRefreshToken(user.ID)
	require.NotNil(t, stored)
	assert.Equal(t, second.RefreshToken, *stored)
}

func TestTokenService_RotatePairRequiresCurrentToken(t *testing.T) {
	t.Parallel()

	store := testsupport.NewUserStore()
	tokens := services.NewTokenService(store, testConfig())
	user := &models.User{ID: uuid.New(), Username: "carol", Email: "carol@x.com"}
	require.NoError(t, store.Create(context.Background(), user))

	pair, err := tokens.IssuePair(context.Background(), user)
	require.NoError(t, err)

	rotated, err := tokens.RotatePair(context.Background(), user, pair.RefreshToken)
	require.NoError(t, err)

	_, err = tokens.RotatePair(context.Background(), user, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrRefreshReused)

	stored := store.StoredRefreshToken(user.ID)
	require.NotNil(t, stored)
	assert.Equal(t, rotated.RefreshToken, *stored)
}

func TestTokenService_PersistFailureIsInternal(t *testing.T) {
	t.Parallel()

	store := testsupport.NewUserStore()
	store.Err = errors.New("connection reset")
	tokens := services.NewTokenService(store, testConfig())

	_, err := tokens.IssuePair(context.Background(), &models.User{ID: uuid.New()})
	assert.ErrorIs(t, err, services.ErrInternal)
	assert.ErrorIs(t, err, services.ErrTokenIssuance)
	assert.NotErrorIs(t, err, services.ErrUnauthorized)
}

func TestTokenService_EmptySecretIsIssuanceFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AccessTokenSecret = ""
	tokens := services.NewTokenService(testsupport.NewUserStore(), cfg)

	_, err := tokens.IssuePair(context.Background(), &models.User{ID: uuid.New()})
	assert.ErrorIs(t, err, services.ErrTokenIssuance)
}
