package ops

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

// Dispatcher sequences typed requests onto the registry and the resource ledgers.
type Dispatcher struct {
	registry registry.Service
	bookings booking.Service
	log      *slog.Logger
}

func NewDispatcher(reg registry.Service, bookings booking.Service, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{registry: reg, bookings: bookings, log: logger}
}

// Execute runs req on behalf of sess. Only createResource and book look at call.Deposit.
func (d *Dispatcher) Execute(ctx context.Context, sess Session, call Call, req Request) (Response, error) {
	d.log.DebugContext(ctx, "execute", "method", req.Method(), "caller", sess.Caller, "gas", call.Gas)

	switch r := req.(type) {
	case CheckNameAvailable:
		ok, err := d.registry.CheckNameAvailable(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		return BoolResponse{Value: ok}, nil

	case CreateResource:
		h, err := d.registry.CreateResource(ctx, sess.Caller, call.Deposit, r.toRegistry())
		if err != nil {
			return nil, err
		}
		return AddressResponse{Address: h.Address}, nil

	case ListResources:
		handles, err := d.registry.ListResources(ctx)
		if err != nil {
			return nil, err
		}
		return ResourcesResponse{Resources: handles}, nil

	case GetOwner:
		owner, err := d.registry.GetOwner(ctx)
		if err != nil {
			return nil, err
		}
		return OwnerResponse{Owner: owner}, nil

	case IsAvailable:
		ledger, err := d.bookings.Ledger(ctx, r.Resource)
		if err != nil {
			return nil, err
		}
		ok, err := ledger.IsAvailable(ctx, r.Date)
		if err != nil {
			return nil, err
		}
		return BoolResponse{Value: ok}, nil

	case Book:
		ledger, err := d.bookings.Ledger(ctx, r.Resource)
		if err != nil {
			return nil, err
		}
		if _, err := ledger.Book(ctx, r.Date, sess.Caller, call.Deposit); err != nil {
			return nil, err
		}
		return BoolResponse{Value: true}, nil

	case Verify:
		ledger, err := d.bookings.Ledger(ctx, r.Resource)
		if err != nil {
			return nil, err
		}
		ok, err := ledger.Verify(ctx, r.Date)
		if err != nil {
			return nil, err
		}
		return BoolResponse{Value: ok}, nil

	case Info:
		ledger, err := d.bookings.Ledger(ctx, r.Resource)
		if err != nil {
			return nil, err
		}
		info, err := ledger.Info(ctx)
		if err != nil {
			return nil, err
		}
		return InfoResponse{
			Name:     info.Name,
			Price:    info.Price,
			Rooms:    info.Rooms,
			Location: info.Location,
			Features: info.Features,
			Image:    info.Image,
			Bookings: info.Bookings,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMethod, req)
	}
}
