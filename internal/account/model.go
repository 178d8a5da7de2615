package account

import (
	"net/http"
	"regexp"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "account not found")
	ErrAlreadyExists      = apperror.New(http.StatusConflict, "account id already taken")
	ErrInvalidID          = apperror.New(http.StatusBadRequest, "account id must be 2-64 lowercase characters separated by '-', '_' or '.'")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid account id or password")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
)

const (
	minIDLength = 2
	maxIDLength = 64
)

// idPattern follows NEAR account naming: lowercase alphanumeric parts joined by single
// '-' or '_', with '.' separating sub-accounts.
var idPattern = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// ValidID reports whether id is a well-formed account id.
func ValidID(id string) bool {
	if len(id) < minIDLength || len(id) > maxIDLength {
		return false
	}
	return idPattern.MatchString(id)
}

// Account is an identity that can own resources and pay for bookings.
type Account struct {
	ID           string // e.g. "bob.near"
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
