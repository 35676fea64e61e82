package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
)

// MemFlightRepository keeps flights in process memory. It backs the demo
// seed data and the service tests; saves replace the whole record, the same
// contract the Postgres implementation honors.
type MemFlightRepository struct {
	mu       sync.RWMutex
	byID     map[string]domain.Flight
	byNumber map[string]string

	// FailSaves makes every Save return ErrPersistence. Tests use it to
	// drive the rollback paths.
	FailSaves bool
}

func NewMemFlightRepository() *MemFlightRepository {
	return &MemFlightRepository{
		byID:     make(map[string]domain.Flight),
		byNumber: make(map[string]string),
	}
}

func (r *MemFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flights := make([]domain.Flight, 0, len(r.byID))
	for _, f := range r.byID {
		flights = append(flights, f)
	}
	return flights, nil
}

func (r *MemFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *MemFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byNumber[number]
	if !ok {
		return nil, nil
	}
	f := r.byID[id]
	return &f, nil
}

func (r *MemFlightRepository) ListByStatus(ctx context.Context, status domain.FlightStatus) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flights := make([]domain.Flight, 0)
	for _, f := range r.byID {
		if f.Status == status {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

func (r *MemFlightRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := date.Truncate(24 * time.Hour)
	flights := make([]domain.Flight, 0)
	for _, f := range r.byID {
		if f.Origin != origin || f.Destination != destination {
			continue
		}
		if f.DepartureTime.Before(day) || !f.DepartureTime.Before(day.AddDate(0, 0, 1)) {
			continue
		}
		flights = append(flights, f)
	}
	return flights, nil
}

func (r *MemFlightRepository) Save(ctx context.Context, flight *domain.Flight) error {
	if r.FailSaves {
		return domain.ErrPersistence
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *flight
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	r.byID[stored.ID] = stored
	r.byNumber[stored.Number] = stored.ID
	return nil
}

var _ FlightRepository = (*MemFlightRepository)(nil)
