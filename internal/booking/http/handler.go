package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	log     *slog.Logger
}

func NewHandler(service booking.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, log: logger}
}

// ledger binds the :name parameter and resolves its ledger, writing the error response on failure.
func (h *Handler) ledger(c *gin.Context) (*booking.Ledger, bool) {
	var uri request.ByNameRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return nil, false
	}

	ledger, err := h.service.Ledger(c.Request.Context(), uri.Name)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return ledger, true
}

func (h *Handler) Availability(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}

	var q AvailabilityRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	// An unparseable date is as unavailable as an impossible one.
	available := false
	if date, err := calendar.Parse(q.Date); err == nil {
		if available, err = ledger.IsAvailable(c.Request.Context(), date); err != nil {
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Date: q.Date, Available: available})
}

func (h *Handler) Book(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}

	var body BookRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := calendar.Parse(body.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	payer := auth.GetAccountID(c)
	h.log.DebugContext(c.Request.Context(), "book call", "resource", ledger.Address(), "payer", payer, "gas", body.Gas)

	b, err := ledger.Book(c.Request.Context(), date, payer, body.Deposit)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Verify(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}

	var body VerifyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	h.log.DebugContext(c.Request.Context(), "verify call", "resource", ledger.Address(), "gas", body.Gas)

	resp := VerifyResponse{Date: body.Date}
	date, err := calendar.Parse(body.Date)
	if err != nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	if resp.Booked, err = ledger.Verify(c.Request.Context(), date); err != nil {
		response.Error(c, err)
		return
	}
	if caller := auth.GetAccountID(c); resp.Booked && caller != "" {
		if resp.Guest, err = ledger.VerifyGuest(c.Request.Context(), date, caller); err != nil {
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Info(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}

	info, err := ledger.Info(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewInfoResponse(info))
}

func (h *Handler) List(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}

	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	bookings, total, err := ledger.List(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(toResponses(bookings), q.Page, q.PageSize, total))
}

// Mine lists the caller's bookings across every resource.
func (h *Handler) Mine(c *gin.Context) {
	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	bookings, total, err := h.service.BookingsOf(c.Request.Context(), auth.GetAccountID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(toResponses(bookings), q.Page, q.PageSize, total))
}

func toResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
