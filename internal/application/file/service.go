package file

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	s3infra "github.com/nano-banana/admin-api/internal/infrastructure/s3"
	"github.com/nano-banana/admin-api/internal/pkg/id"
)

const presignTTL = 15 * time.Minute

type UploadRequest struct {
	Name   string `json:"name" validate:"required"`
	Data   string `json:"data" validate:"required"` // base64-encoded content
	UserID string `json:"-"`
}

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.File, error)
	Get(ctx context.Context, fileID string) (*domain.File, error)
	Delete(ctx context.Context, fileID string) error
}

type fileStore interface {
	Put(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, fileID string) (*domain.File, error)
	SoftDelete(ctx context.Context, fileID string) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo  fileStore
	store objectStore
}

func NewService(repo fileStore, store *s3infra.Store) Service {
	return &service{repo: repo, store: store}
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*domain.File, error) {
	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", domain.ErrBadRequest)
	}

	fileID := id.New()
	key := fileID + "/" + req.Name
	if _, err := s.store.UploadBase64(ctx, key, req.Data); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f := &domain.File{
		FileID:           fileID,
		Object:           key,
		Size:             int64(len(decoded)),
		Type:             contentTypeOf(req.Name),
		Name:             req.Name,
		UploadedByUserID: req.UserID,
		Enable:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Get returns file metadata with a fresh presigned download URL.
func (s *service) Get(ctx context.Context, fileID string) (*domain.File, error) {
	f, err := s.repo.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignedURL(ctx, f.Object, presignTTL)
	if err != nil {
		slog.Warn("failed to presign file URL", "file_id", fileID, "err", err)
		return f, nil
	}
	f.URL = &url
	return f, nil
}

func (s *service) Delete(ctx context.Context, fileID string) error {
	f, err := s.repo.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.Object); err != nil {
		slog.Warn("failed to delete S3 object", "file_id", fileID, "key", f.Object, "err", err)
	}
	return s.repo.SoftDelete(ctx, fileID)
}

func contentTypeOf(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
