package like

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/comment"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/features/tweet"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/testsupport"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(db *gorm.DB, user *models.User) *fiber.App {
	handler := NewLikeHandler(NewLikeService(db))
	app := fiber.New()
	r := app.Group("/likes", testsupport.AsUser(user))
	r.Post("/like-video/:videoId", handler.LikeVideo)
	r.Post("/like-comment/:commentId", handler.LikeComment)
	r.Post("/like-tweet/:tweetId", handler.LikeTweet)
	return app
}

func post(t *testing.T, app *fiber.App, target, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestOnlyBooleansAccepted(t *testing.T) {
	app := newTestApp(nil, &models.User{ID: uuid.New()})
	target := "/likes/like-video/" + uuid.NewString()

	for _, body := range []string{`{}`, `{"isLiked":"true"}`, `{"isLiked":1}`, `{"isLiked":null}`, `not json`} {
		t.Run(body, func(t *testing.T) {
			code, raw := post(t, app, target, body)
			assert.Equal(t, http.StatusBadRequest, code)
			var out dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &out))
			assert.Equal(t, "Only boolean data is accepted", out.Message)
		})
	}

	code, _ := post(t, app, "/likes/like-tweet/nope", `{"isLiked":true}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLikesAreIdempotent(t *testing.T) {
	db := testsupport.OpenPostgres(t, &tweet.Tweet{}, &comment.Comment{}, &Like{})
	owner := testsupport.SeedUser(t, db, "owner")
	fan := testsupport.SeedUser(t, db, "fan")
	video := testsupport.SeedVideo(t, db, owner.ID, "clip")
	tw := tweet.Tweet{ID: uuid.New(), OwnerID: owner.ID, Content: "hello"}
	require.NoError(t, db.Create(&tw).Error)
	cm := comment.Comment{ID: uuid.New(), VideoID: video.ID, OwnerID: owner.ID, Content: "nice"}
	require.NoError(t, db.Omit("Video", "Owner").Create(&cm).Error)

	app := newTestApp(db, fan)
	targets := []struct {
		path   string
		target Target
		id     uuid.UUID
	}{
		{"/likes/like-video/", TargetVideo, video.ID},
		{"/likes/like-comment/", TargetComment, cm.ID},
		{"/likes/like-tweet/", TargetTweet, tw.ID},
	}
	svc := NewLikeService(db)

	for _, tt := range targets {
		t.Run(string(tt.target), func(t *testing.T) {
			for range 2 {
				code, raw := post(t, app, tt.path+tt.id.String(), `{"isLiked":true}`)
				require.Equal(t, http.StatusOK, code, string(raw))
				var out ToggleResponse
				require.NoError(t, json.Unmarshal(raw, &out))
				assert.True(t, out.IsLiked)
				assert.EqualValues(t, 1, out.Likes)
			}

			for range 2 {
				code, _ := post(t, app, tt.path+tt.id.String(), `{"isLiked":false}`)
				require.Equal(t, http.StatusOK, code)
			}
			count, err := svc.Count(t.Context(), tt.target, tt.id)
			require.NoError(t, err)
			assert.Zero(t, count)

			code, _ := post(t, app, tt.path+uuid.NewString(), `{"isLiked":true}`)
			assert.Equal(t, http.StatusNotFound, code)
		})
	}
}
