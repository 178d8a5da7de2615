package http

import (
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
)

type AvailabilityRequest struct {
	Date string `form:"date" binding:"required"`
}

type AvailabilityResponse struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// BookRequest mirrors a book call. Date is YYYY-MM-DD.
type BookRequest struct {
	Date    string        `json:"date" binding:"required"`
	Deposit amount.Amount `json:"deposit"`
	Gas     amount.U64    `json:"gas"`
}

type VerifyRequest struct {
	Date string     `json:"date" binding:"required"`
	Gas  amount.U64 `json:"gas"`
}

type VerifyResponse struct {
	Date   string `json:"date"`
	Booked bool   `json:"booked"`
	// Guest is true when the date is booked by the authenticated caller.
	Guest bool `json:"guest"`
}

type ListBookingsRequest struct {
	request.PageRequest
}

type BookingResponse struct {
	ID       string        `json:"id"`
	Resource ResourceTag   `json:"resource"`
	Date     string        `json:"date"`
	Payer    string        `json:"payer"`
	Amount   amount.Amount `json:"amount"`
	PaidAt   time.Time     `json:"paid_at"`
}

type ResourceTag struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:       b.ID,
		Resource: ResourceTag{Name: b.ResourceName, Address: b.ResourceAddress},
		Date:     b.Date.String(),
		Payer:    b.Payer,
		Amount:   b.Amount,
		PaidAt:   b.PaidAt,
	}
}

type InfoResponse struct {
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Owner    string        `json:"owner"`
	Price    amount.Amount `json:"price"`
	Rooms    *uint64       `json:"rooms"`
	Location string        `json:"location"`
	Features []string      `json:"features"`
	Image    *string       `json:"image"`
	Bookings int64         `json:"bookings"`
}

func NewInfoResponse(i *booking.Info) InfoResponse {
	return InfoResponse{
		Name:     i.Name,
		Address:  i.Address,
		Owner:    i.Owner,
		Price:    i.Price,
		Rooms:    i.Rooms,
		Location: i.Location,
		Features: i.Features,
		Image:    i.Image,
		Bookings: i.Bookings,
	}
}
