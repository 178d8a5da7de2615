package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/events"
	"github.com/nekogravitycat/stay-booking-backend/internal/metrics"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

var tracer = otel.Tracer("github.com/nekogravitycat/stay-booking-backend/internal/booking")

// Deps are the collaborators shared by every ledger.
type Deps struct {
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

func (d *Deps) defaults() {
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
}

// BookingCreated is the payload of the booking.created event.
type BookingCreated struct {
	ID       string        `json:"id"`
	Resource string        `json:"resource"`
	Date     calendar.Date `json:"date"`
	Payer    string        `json:"payer"`
	Amount   amount.Amount `json:"amount"`
}

// Ledger is the booking calendar of one resource. At most one booking exists per date.
// A Ledger holds no booking state itself; the Repository is the single source of truth.
type Ledger struct {
	rec  *registry.Record
	repo Repository
	cal  calendar.Calendar
	deps Deps
	log  *slog.Logger
}

func NewLedger(rec *registry.Record, repo Repository, cal calendar.Calendar, deps Deps) *Ledger {
	deps.defaults()
	return &Ledger{
		rec:  rec,
		repo: repo,
		cal:  cal,
		deps: deps,
		log:  deps.Logger.With("resource", rec.Address),
	}
}

func (l *Ledger) Address() string {
	return l.rec.Address
}

// Owner returns the account that created the resource.
func (l *Ledger) Owner() string {
	return l.rec.Owner
}

// IsAvailable is false for impossible dates and for dates that are already booked.
func (l *Ledger) IsAvailable(ctx context.Context, date calendar.Date) (bool, error) {
	if l.cal.Validate(date) != nil {
		return false, nil
	}
	booked, err := l.repo.Exists(ctx, l.rec.Address, date)
	if err != nil {
		return false, err
	}
	return !booked, nil
}

// Book reserves date for payer. The checks run in order: payer, date, occupancy, payment.
// The final insert is arbitrated by the repository, so a concurrent booking of the same date
// still fails with ErrDateAlreadyBooked and nothing is stored.
func (l *Ledger) Book(ctx context.Context, date calendar.Date, payer string, paid amount.Amount) (_ *Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.Book")
	defer span.End()
	defer l.observe("book", time.Now())
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if l.deps.Metrics != nil {
				l.deps.Metrics.IncrementBookingRejected(rejectionReason(err))
			}
		}
	}()
	span.SetAttributes(
		attribute.String("resource.address", l.rec.Address),
		attribute.String("booking.date", date.String()),
		attribute.String("payer", payer),
	)

	if payer == "" {
		return nil, ErrUnauthorized
	}
	if err := l.cal.Validate(date); err != nil {
		return nil, err
	}

	booked, err := l.repo.Exists(ctx, l.rec.Address, date)
	if err != nil {
		return nil, err
	}
	if booked {
		return nil, ErrDateAlreadyBooked
	}
	if paid.Less(l.rec.Price) {
		return nil, ErrInsufficientPayment
	}

	b := &Booking{
		ID:              uuid.NewString(),
		ResourceAddress: l.rec.Address,
		ResourceName:    l.rec.Name,
		Date:            date,
		Payer:           payer,
		Amount:          paid,
	}
	if err := l.repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	if l.deps.Metrics != nil {
		l.deps.Metrics.IncrementBookingsCreated()
	}
	l.log.InfoContext(ctx, "booking confirmed", "date", date.String(), "payer", payer, "amount", paid.String())

	evt := BookingCreated{ID: b.ID, Resource: b.ResourceAddress, Date: b.Date, Payer: b.Payer, Amount: b.Amount}
	if pubErr := l.deps.Publisher.PublishJSON(ctx, events.KeyBookingCreated, evt); pubErr != nil {
		l.log.WarnContext(ctx, "failed to publish event", "key", events.KeyBookingCreated, "error", pubErr)
	}
	return b, nil
}

// Verify reports whether date is booked. It never mutates the ledger.
func (l *Ledger) Verify(ctx context.Context, date calendar.Date) (bool, error) {
	defer l.observe("verify", time.Now())
	if l.cal.Validate(date) != nil {
		l.countVerification(false)
		return false, nil
	}
	booked, err := l.repo.Exists(ctx, l.rec.Address, date)
	if err != nil {
		return false, err
	}
	l.countVerification(booked)
	return booked, nil
}

// VerifyGuest reports whether date is booked by guest, for on-site check-in.
func (l *Ledger) VerifyGuest(ctx context.Context, date calendar.Date, guest string) (bool, error) {
	if guest == "" || l.cal.Validate(date) != nil {
		return false, nil
	}
	b, err := l.repo.Get(ctx, l.rec.Address, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return b.Payer == guest, nil
}

// Get returns the booking on date, or ErrNotFound.
func (l *Ledger) Get(ctx context.Context, date calendar.Date) (*Booking, error) {
	if l.cal.Validate(date) != nil {
		return nil, ErrNotFound
	}
	return l.repo.Get(ctx, l.rec.Address, date)
}

func (l *Ledger) Info(ctx context.Context) (*Info, error) {
	n, err := l.Size(ctx)
	if err != nil {
		return nil, err
	}
	return &Info{
		Name:     l.rec.Name,
		Address:  l.rec.Address,
		Owner:    l.rec.Owner,
		Price:    l.rec.Price,
		Rooms:    l.rec.Rooms,
		Location: l.rec.Location,
		Features: append([]string{}, l.rec.Features...),
		Image:    l.rec.Image,
		Bookings: n,
	}, nil
}

// Size is the number of bookings in the ledger.
func (l *Ledger) Size(ctx context.Context) (int64, error) {
	return l.repo.Count(ctx, l.rec.Address)
}

// List pages through the ledger in date order.
func (l *Ledger) List(ctx context.Context, page, pageSize int) ([]*Booking, int, error) {
	return l.repo.List(ctx, Filter{ResourceAddress: l.rec.Address, Page: page, PageSize: pageSize})
}

func (l *Ledger) observe(op string, start time.Time) {
	if l.deps.Metrics != nil {
		l.deps.Metrics.Observe(op, start)
	}
}

func (l *Ledger) countVerification(booked bool) {
	if l.deps.Metrics != nil {
		l.deps.Metrics.ObserveVerification(booked)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrDateAlreadyBooked):
		return "date_booked"
	case errors.Is(err, ErrInsufficientPayment):
		return "insufficient_payment"
	default:
		return "internal"
	}
}
