package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ErrNotImage is returned when content cannot be decoded as a supported image.
var ErrNotImage = errors.New("storage: content is not a supported image")

// ImageProcessor decodes listing photos and renders their thumbnails.
type ImageProcessor struct {
	// MaxPixels bounds width*height of accepted images. Zero means no bound.
	MaxPixels int
}

func NewImageProcessor(maxPixels int) *ImageProcessor {
	return &ImageProcessor{MaxPixels: maxPixels}
}

// Inspect reads only the image header and returns its format ("jpeg", "png" or "gif").
func (p *ImageProcessor) Inspect(content []byte) (string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if p.MaxPixels > 0 && cfg.Width*cfg.Height > p.MaxPixels {
		return "", fmt.Errorf("%w: %dx%d exceeds the pixel limit", ErrNotImage, cfg.Width, cfg.Height)
	}
	return format, nil
}

// GenerateThumbnail fits the image into maxWidth x maxHeight and encodes it as JPEG.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumbnail, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
