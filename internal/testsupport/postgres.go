package testsupport

import (
	"os"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenPostgres connects to TEST_DATABASE_DSN, migrates the core models plus extra, and
// empties every table when the test finishes. The test is skipped without a DSN.
func OpenPostgres(t *testing.T, extra ...any) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	all := append(database.CoreModels(), extra...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tables := make([]string, 0, len(all))
	for _, m := range all {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			t.Fatalf("parse model: %v", err)
		}
		tables = append(tables, stmt.Schema.Table)
	}
	truncate := func() {
		db.Exec("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE")
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedUser inserts a user with the given username.
func SeedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Avatar:   "https://media.test/avatars/" + username,
		Password: "hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedVideo inserts a published video owned by ownerID.
func SeedVideo(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string) *models.Video {
	t.Helper()
	video := &models.Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		VideoFile:    "https://media.test/videos/" + title,
		VideoKey:     "videos/" + title,
		Thumbnail:    "https://media.test/thumbnails/" + title,
		ThumbnailKey: "thumbnails/" + title,
		Title:        title,
		Description:  title + " description",
		IsPublished:  true,
	}
	if err := db.Omit("Owner").Create(video).Error; err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return video
}

// AsUser is a stand-in for the guard that authenticates every request as user.
func AsUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity.SetUser(c, user)
		return c.Next()
	}
}
