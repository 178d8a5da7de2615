package media

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "image not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "thumbnail not available for this image")
	ErrTooLarge        = apperror.New(http.StatusRequestEntityTooLarge, "image exceeds the upload limit")
	ErrUnsupportedType = apperror.New(http.StatusUnsupportedMediaType, "only jpeg, png and gif images are accepted")
	ErrUnauthorized    = apperror.New(http.StatusUnauthorized, "uploading requires an authenticated account")
	ErrForbidden       = apperror.New(http.StatusForbidden, "only the uploader may delete an image")
)

// Image is an uploaded listing photo. Resources reference it by URL.
type Image struct {
	ID            string
	Owner         string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// URL returns the public path of the image.
func URL(id string) string {
	return "/v1/images/" + id
}

func ThumbnailURL(id string) string {
	return "/v1/images/" + id + "/thumbnail"
}

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}
