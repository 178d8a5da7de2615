package http

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/media"
)

type ImageResponse struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewImageResponse(img *media.Image) ImageResponse {
	var thumbURL *string
	if img.ThumbnailPath != nil {
		t := media.ThumbnailURL(img.ID)
		thumbURL = &t
	}
	return ImageResponse{
		ID:           img.ID,
		URL:          media.URL(img.ID),
		ThumbnailURL: thumbURL,
		Filename:     img.Filename,
		ContentType:  img.ContentType,
		Size:         img.Size,
		CreatedAt:    img.CreatedAt,
	}
}
