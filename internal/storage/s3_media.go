package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	appconfig "github.com/ahmetcoskunkizilkaya/videotube-backend/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	ErrEmptyFile = errors.New("uploaded file is empty")
	ErrTooLarge  = errors.New("uploaded file exceeds the size limit")
)

// Asset is a stored media object: Key addresses it in the bucket, URL is what clients load.
type Asset struct {
	Key string
	URL string
}

// MediaStore uploads and removes user media (avatars, cover images, videos, thumbnails).
type MediaStore interface {
	Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*Asset, error)
	Delete(ctx context.Context, key string) error
}

// ObjectClient is the subset of *s3.Client the media store calls.
type ObjectClient interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3MediaStore struct {
	client    ObjectClient
	bucket    string
	publicURL string
	maxBytes  int64
	now       func() time.Time
}

// NewS3Client builds an S3 client against the configured endpoint (MinIO or AWS).
func NewS3Client(ctx context.Context, cfg *appconfig.Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	}), nil
}

func NewS3MediaStore(client ObjectClient, cfg *appconfig.Config) *S3MediaStore {
	public := strings.TrimRight(cfg.S3PublicURL, "/")
	if public == "" {
		public = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return &S3MediaStore{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: public,
		maxBytes:  int64(cfg.MediaMaxUploadMB) << 20,
		now:       time.Now,
	}
}

func (s *S3MediaStore) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*Asset, error) {
	if file == nil || file.Size == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, ErrTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := s.objectKey(folder, file.Filename)
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
	}
	if ct := file.Header.Get("Content-Type"); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Asset{Key: key, URL: s.publicURL + "/" + key}, nil
}

// Delete removes an object. An empty key is a no-op so callers can pass optional assets.
func (s *S3MediaStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3MediaStore) objectKey(folder, filename string) string {
	d := s.now().UTC()
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folder, fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()), uuid.NewString()+ext)
}
