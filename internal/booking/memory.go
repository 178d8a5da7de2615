package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
)

type memoryRepository struct {
	mu      sync.RWMutex
	ledgers map[string]map[calendar.Date]*Booking
}

// NewMemoryRepository keeps all ledgers in process memory behind one writer lock.
func NewMemoryRepository() Repository {
	return &memoryRepository{ledgers: make(map[string]map[calendar.Date]*Booking)}
}

func (r *memoryRepository) Insert(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger, ok := r.ledgers[b.ResourceAddress]
	if !ok {
		ledger = make(map[calendar.Date]*Booking)
		r.ledgers[b.ResourceAddress] = ledger
	}
	if _, taken := ledger[b.Date]; taken {
		return ErrDateAlreadyBooked
	}
	b.PaidAt = time.Now().UTC()
	stored := *b
	ledger[b.Date] = &stored
	return nil
}

func (r *memoryRepository) Get(_ context.Context, resourceAddress string, d calendar.Date) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.ledgers[resourceAddress][d]
	if !ok {
		return nil, ErrNotFound
	}
	c := *b
	return &c, nil
}

func (r *memoryRepository) Exists(_ context.Context, resourceAddress string, d calendar.Date) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ledgers[resourceAddress][d]
	return ok, nil
}

func (r *memoryRepository) Count(_ context.Context, resourceAddress string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.ledgers[resourceAddress])), nil
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	filter.normalize()

	r.mu.RLock()
	matched := make([]*Booking, 0)
	for address, ledger := range r.ledgers {
		if filter.ResourceAddress != "" && address != filter.ResourceAddress {
			continue
		}
		for _, b := range ledger {
			if filter.Payer != "" && b.Payer != filter.Payer {
				continue
			}
			c := *b
			matched = append(matched, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ResourceAddress < b.ResourceAddress
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return []*Booking{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}
