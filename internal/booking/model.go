package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

var (
	ErrInvalidDate         = calendar.ErrInvalidDate
	ErrDateAlreadyBooked   = apperror.New(http.StatusConflict, "date already booked")
	ErrInsufficientPayment = apperror.New(http.StatusPaymentRequired, "attached payment is below the nightly price")
	ErrUnauthorized        = apperror.New(http.StatusUnauthorized, "booking requires an authenticated payer")
	ErrResourceNotFound    = registry.ErrResourceNotFound
	ErrNotFound            = apperror.New(http.StatusNotFound, "booking not found")
)

// Booking is a confirmed reservation of one date. It is never mutated.
type Booking struct {
	ID              string
	ResourceAddress string
	ResourceName    string
	Date            calendar.Date
	Payer           string
	Amount          amount.Amount
	PaidAt          time.Time
}

// Info is the public description of a resource together with its booking count.
type Info struct {
	Name     string
	Address  string
	Owner    string
	Price    amount.Amount
	Rooms    *uint64
	Location string
	Features []string
	Image    *string
	Bookings int64
}

// Filter selects bookings by resource or by payer. Empty fields match everything.
type Filter struct {
	ResourceAddress string
	Payer           string
	Page            int
	PageSize        int
}

func (f *Filter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
}
