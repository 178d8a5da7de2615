package registry

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrNameUnavailable     = apperror.New(http.StatusConflict, "resource name is unavailable")
	ErrInvalidName         = apperror.New(http.StatusBadRequest, "resource name must be a valid account name without '.'")
	ErrInvalidPrice        = apperror.New(http.StatusBadRequest, "price must be greater than zero")
	ErrInvalidRooms        = apperror.New(http.StatusBadRequest, "rooms must be between 1 and 9223372036854775807 when given")
	ErrInvalidLocation     = apperror.New(http.StatusBadRequest, "location must be \"<latitude>,<longitude>\"")
	ErrInsufficientPayment = apperror.New(http.StatusPaymentRequired, "attached deposit does not cover the creation fee")
	ErrUnauthorized        = apperror.New(http.StatusForbidden, "caller is not allowed to create resources")
	ErrResourceNotFound    = apperror.New(http.StatusNotFound, "resource not found")
	ErrAlreadyInitialized  = apperror.New(http.StatusConflict, "registry already initialized")
	ErrNotInitialized      = apperror.New(http.StatusServiceUnavailable, "registry not initialized")
	ErrInvalidOwner        = apperror.New(http.StatusBadRequest, "registry owner must be a valid account id")
	ErrInvalidAddress      = apperror.New(http.StatusBadRequest, "registry address must be a valid account id")
	ErrUnknownPolicy       = apperror.New(http.StatusBadRequest, "unknown creation policy")
)

// Meta is the registry's own identity, written once by New.
type Meta struct {
	Address   string
	Owner     string
	CreatedAt time.Time
}

// Handle identifies a minted resource.
type Handle struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Record is a resource as registered. It is never modified after creation.
type Record struct {
	Seq             int64 // registration order within the registry
	RegistryAddress string
	Name            string
	Address         string
	Owner           string
	Price           amount.Amount
	Rooms           *uint64 // set for flats; nil for single-unit houses
	Location        string
	Features        []string
	Image           *string
	Deposit         amount.Amount
	CreatedAt       time.Time
}

func (r *Record) Handle() Handle {
	return Handle{Name: r.Name, Address: r.Address}
}

// clone returns a copy that shares no slices or pointers with r.
func (r *Record) clone() *Record {
	c := *r
	c.Features = append([]string(nil), r.Features...)
	if r.Rooms != nil {
		rooms := *r.Rooms
		c.Rooms = &rooms
	}
	if r.Image != nil {
		img := *r.Image
		c.Image = &img
	}
	return &c
}

// CreateRequest carries the descriptive fields of a new resource.
type CreateRequest struct {
	Name     string
	Price    amount.Amount
	Rooms    *uint64
	Location string
	Features []string
	Image    *string
}
