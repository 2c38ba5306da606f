package testsupport

import (
	"context"
	"mime/multipart"
	"sync"

	"github.com/ahmetcoskunkizilkaya/videotube-backend/internal/storage"
	"github.com/google/uuid"
)

// MediaStore records uploads and deletes instead of talking to a bucket.
type MediaStore struct {
	mu      sync.Mutex
	Uploads []string
	Deletes []string

	// UploadErr, when set, fails every upload.
	UploadErr error
}

var _ storage.MediaStore = (*MediaStore)(nil)

func (m *MediaStore) Upload(_ context.Context, folder string, file *multipart.FileHeader) (*storage.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	if file == nil || file.Size == 0 {
		return nil, storage.ErrEmptyFile
	}
	key := folder + "/" + uuid.NewString() + "-" + file.Filename
	m.Uploads = append(m.Uploads, key)
	return &storage.Asset{Key: key, URL: "https://media.test/" + key}, nil
}

func (m *MediaStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key != "" {
		m.Deletes = append(m.Deletes, key)
	}
	return nil
}

// Counts returns the number of recorded uploads and deletes.
func (m *MediaStore) Counts() (uploads, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads), len(m.Deletes)
}
