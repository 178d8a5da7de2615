package booking

import (
	"context"

	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

// Service resolves resources to their ledgers and answers cross-ledger queries.
type Service interface {
	// Ledger returns the ledger of the resource registered as name, or ErrResourceNotFound.
	Ledger(ctx context.Context, name string) (*Ledger, error)
	// BookingsOf lists every booking paid by payer across all resources.
	BookingsOf(ctx context.Context, payer string, page, pageSize int) ([]*Booking, int, error)
	Calendar() calendar.Calendar
}

type service struct {
	registry registry.Service
	repo     Repository
	cal      calendar.Calendar
	deps     Deps
}

func NewService(reg registry.Service, repo Repository, cal calendar.Calendar, deps Deps) Service {
	deps.defaults()
	return &service{registry: reg, repo: repo, cal: cal, deps: deps}
}

func (s *service) Ledger(ctx context.Context, name string) (*Ledger, error) {
	rec, err := s.registry.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewLedger(rec, s.repo, s.cal, s.deps), nil
}

func (s *service) BookingsOf(ctx context.Context, payer string, page, pageSize int) ([]*Booking, int, error) {
	if payer == "" {
		return nil, 0, ErrUnauthorized
	}
	return s.repo.List(ctx, Filter{Payer: payer, Page: page, PageSize: pageSize})
}

func (s *service) Calendar() calendar.Calendar {
	return s.cal
}
