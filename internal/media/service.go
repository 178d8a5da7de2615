package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/storage"
)

const (
	thumbnailWidth  = 200
	thumbnailHeight = 200
	maxImagePixels  = 40_000_000
)

// UploadInput is one uploaded image.
type UploadInput struct {
	Owner    string
	Filename string
	Content  io.Reader
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
	// Delete removes an image. Only its owner may delete it.
	Delete(ctx context.Context, id, caller string) error
}

type service struct {
	repo     Repository
	storage  storage.Storage
	imgProc  *storage.ImageProcessor
	maxBytes int64
	log      *slog.Logger
}

// NewService stores images in store. Uploads larger than maxBytes are rejected; zero disables the limit.
func NewService(repo Repository, store storage.Storage, maxBytes int64, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		storage:  store,
		imgProc:  storage.NewImageProcessor(maxImagePixels),
		maxBytes: maxBytes,
		log:      logger,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Image, error) {
	if in.Owner == "" {
		return nil, ErrUnauthorized
	}

	src := in.Content
	if s.maxBytes > 0 {
		src = io.LimitReader(in.Content, s.maxBytes+1)
	}
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read image content: %w", err)
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return nil, ErrTooLarge
	}

	// The declared content type is ignored; the bytes decide.
	format, err := s.imgProc.Inspect(content)
	if err != nil {
		return nil, ErrUnsupportedType
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, ErrUnsupportedType
	}

	id := uuid.NewString()
	shard := id[:2]
	storagePath := fmt.Sprintf("images/%s/%s%s", shard, id, extensions[format])
	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save image to storage: %w", err)
	}

	var thumbnailPath *string
	if thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(content), thumbnailWidth, thumbnailHeight); err != nil {
		s.log.WarnContext(ctx, "thumbnail generation failed", "image", id, "error", err)
	} else {
		tPath := fmt.Sprintf("images/%s/%s_thumb.jpg", shard, id)
		if err := s.storage.Save(ctx, tPath, thumb); err != nil {
			s.log.WarnContext(ctx, "thumbnail save failed", "image", id, "error", err)
		} else {
			thumbnailPath = &tPath
		}
	}

	img := &Image{
		ID:            id,
		Owner:         in.Owner,
		Filename:      in.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
	}
	if err := s.repo.Create(ctx, img); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	s.log.InfoContext(ctx, "image uploaded", "image", id, "owner", in.Owner, "size", img.Size)
	return img, nil
}

func (s *service) Get(ctx context.Context, id string) (*Image, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, img, img.StoragePath)
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if img.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}
	return s.open(ctx, img, *img.ThumbnailPath)
}

func (s *service) open(ctx context.Context, img *Image, path string) (io.ReadCloser, *Image, error) {
	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve image from storage: %w", err)
	}
	return stream, img, nil
}

func (s *service) Delete(ctx context.Context, id, caller string) error {
	img, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if caller == "" || img.Owner != caller {
		return ErrForbidden
	}
	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		s.log.WarnContext(ctx, "failed to delete image object", "image", id, "error", err)
	}
	if img.ThumbnailPath != nil {
		_ = s.storage.Delete(ctx, *img.ThumbnailPath)
	}
	return s.repo.Delete(ctx, id)
}
