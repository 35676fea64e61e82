package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
)

// MemBookingRepository is the in-memory counterpart of the Postgres booking
// gateway, used by tests and demo runs.
type MemBookingRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Booking

	// FailSaves makes every Save return ErrPersistence.
	FailSaves bool
}

func NewMemBookingRepository() *MemBookingRepository {
	return &MemBookingRepository{byID: make(map[string]domain.Booking)}
}

func (r *MemBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(b), nil
}

func (r *MemBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.byID {
		if b.Reference == reference && reference != "" {
			return cloneBooking(b), nil
		}
	}
	return nil, nil
}

func (r *MemBookingRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.FlightID == flightID }), nil
}

func (r *MemBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool { return b.CustomerID == customerID }), nil
}

func (r *MemBookingRepository) ListStalePending(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	return r.filter(func(b domain.Booking) bool {
		return b.Status == domain.BookingStatusPending && !b.CreatedAt.After(before)
	}), nil
}

func (r *MemBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	if r.FailSaves {
		return domain.ErrPersistence
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *cloneBooking(*booking)
	stored.UpdatedAt = time.Now()
	r.byID[stored.ID] = stored
	return nil
}

func (r *MemBookingRepository) filter(keep func(domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range r.byID {
		if keep(b) {
			bookings = append(bookings, *cloneBooking(b))
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].CreatedAt.Before(bookings[j].CreatedAt) })
	return bookings
}

func cloneBooking(b domain.Booking) *domain.Booking {
	c := b
	c.Passengers = append([]domain.Passenger(nil), b.Passengers...)
	c.AddOns = append([]domain.AddOn(nil), b.AddOns...)
	return &c
}

var _ BookingRepository = (*MemBookingRepository)(nil)
