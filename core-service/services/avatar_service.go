package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"staffhub-backend/shared/config"
	"staffhub-backend/shared/utils/retry"
)

// AvatarService stores profile pictures in a MinIO bucket, one object
// per user keyed as avatars/<user_id><ext>.
type AvatarService struct {
	client       *minio.Client
	bucketName   string
	maxFileSize  int64
	allowedTypes map[string]bool
}

func NewAvatarService() (*AvatarService, error) {
	cfg := config.GetConfig()

	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	allowed := make(map[string]bool)
	for _, ext := range strings.Split(cfg.AvatarAllowedTypes, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			allowed[ext] = true
		}
	}

	service := &AvatarService{
		client:       minioClient,
		bucketName:   cfg.MinIOBucketName,
		maxFileSize:  parseFileSize(cfg.AvatarMaxFileSize),
		allowedTypes: allowed,
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

// parseFileSize reads sizes like "5MB" or "512KB". Bare numbers are bytes.
func parseFileSize(value string) int64 {
	value = strings.ToUpper(strings.TrimSpace(value))

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(value, "MB"):
		multiplier = 1024 * 1024
		value = strings.TrimSuffix(value, "MB")
	case strings.HasSuffix(value, "KB"):
		multiplier = 1024
		value = strings.TrimSuffix(value, "KB")
	}

	size, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || size <= 0 {
		return 5 * 1024 * 1024
	}
	return size * multiplier
}

func (s *AvatarService) initializeBucket() error {
	ctx := context.Background()

	log.Printf("🪣 Checking bucket: %s", s.bucketName)

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// MaxFileSize returns the configured upload size limit in bytes.
func (s *AvatarService) MaxFileSize() int64 {
	return s.maxFileSize
}

// ValidateUpload checks extension and size before accepting an avatar.
func (s *AvatarService) ValidateUpload(fileName string, fileSize int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !s.allowedTypes[ext] {
		return fmt.Errorf("file type %s not allowed", ext)
	}
	if fileSize > s.maxFileSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", s.maxFileSize)
	}
	return nil
}

func (s *AvatarService) objectKey(userID uuid.UUID, ext string) string {
	return fmt.Sprintf("avatars/%s%s", userID, strings.ToLower(ext))
}

// UploadAvatar replaces the user's avatar and returns the stored object key.
func (s *AvatarService) UploadAvatar(ctx context.Context, userID uuid.UUID, fileName string, file io.Reader, fileSize int64) (string, error) {
	if err := s.ValidateUpload(fileName, fileSize); err != nil {
		return "", err
	}

	// An old avatar may live under a different extension
	if err := s.DeleteAvatar(ctx, userID); err != nil {
		log.Printf("⚠️ Could not clear previous avatar for %s: %v", userID, err)
	}

	key := s.objectKey(userID, filepath.Ext(fileName))
	contentType := avatarContentType(filepath.Ext(fileName))

	log.Printf("⬆️ Uploading avatar to: %s/%s (size: %d bytes)", s.bucketName, key, fileSize)

	// Buffer the upload so each retry attempt can rewind the reader.
	data, err := io.ReadAll(io.LimitReader(file, fileSize))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar upload: %v", err)
	}

	err = putWithRetry(ctx, retry.Config{
		OnRetry: func(attempt int, err error) {
			log.Printf("⚠️ Avatar upload attempt %d failed: %v", attempt, err)
		},
	}, data, func(ctx context.Context, r io.Reader, size int64) error {
		_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %v", err)
	}

	log.Printf("✅ Avatar for user '%s' uploaded successfully", userID)
	return key, nil
}

// putWithRetry re-runs put until it succeeds, handing each attempt a
// fresh reader over the buffered upload.
func putWithRetry(ctx context.Context, cfg retry.Config, data []byte, put func(ctx context.Context, r io.Reader, size int64) error) error {
	return retry.Do(ctx, cfg, func(ctx context.Context) error {
		return put(ctx, bytes.NewReader(data), int64(len(data)))
	})
}

// GetAvatar streams the stored avatar object for a user.
func (s *AvatarService) GetAvatar(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar: %v", err)
	}
	return object, nil
}

// DeleteAvatar removes every stored avatar object for a user.
func (s *AvatarService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	prefix := fmt.Sprintf("avatars/%s", userID)

	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix: prefix,
	})

	for object := range objectCh {
		if object.Err != nil {
			return object.Err
		}
		if err := s.client.RemoveObject(ctx, s.bucketName, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete %s: %v", object.Key, err)
		}
		log.Printf("🗑️ Deleted object: %s", object.Key)
	}

	return nil
}

func avatarContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
