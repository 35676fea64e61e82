package seats

import (
	"context"
	"sync"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/Domenick1991/airdesk/internal/repository"
	"github.com/sirupsen/logrus"
)

type ReservationUseCase interface {
	CheckAvailability(ctx context.Context, flightNumber string, requested int) (bool, error)
	ReserveSeats(ctx context.Context, flightNumber string, count int) error
	ReleaseSeats(ctx context.Context, flightNumber string, count int) error
}

// SeatService owns every mutation of a flight's available-seat count.
// The read-check-decrement sequence is serialized per flight so two
// concurrent reservations cannot both pass the availability check.
type SeatService struct {
	flights repository.FlightRepository
	log     *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSeatService(flights repository.FlightRepository, log *logrus.Logger) *SeatService {
	return &SeatService{
		flights: flights,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *SeatService) CheckAvailability(ctx context.Context, flightNumber string, requested int) (bool, error) {
	flight, err := s.flights.GetByNumber(ctx, flightNumber)
	if err != nil {
		return false, err
	}
	if flight == nil {
		// Unknown flight reads as "nothing available", not as an error.
		return false, nil
	}
	return flight.IsBookable() && flight.HasAvailableSeats(requested), nil
}

func (s *SeatService) ReserveSeats(ctx context.Context, flightNumber string, count int) error {
	if count <= 0 {
		return domain.ErrValidation
	}

	lock := s.flightLock(flightNumber)
	lock.Lock()
	defer lock.Unlock()

	flight, err := s.flights.GetByNumber(ctx, flightNumber)
	if err != nil {
		return err
	}
	if flight == nil {
		return domain.ErrFlightNotFound
	}
	if !flight.IsBookable() {
		return domain.ErrFlightNotBookable
	}
	if err := flight.DecrementSeats(count); err != nil {
		return err
	}

	if err := s.flights.Save(ctx, flight); err != nil {
		// The decrement above is local; only a successful save commits it.
		s.log.WithError(err).WithFields(logrus.Fields{
			"flight": flightNumber,
			"seats":  count,
		}).Error("reserve seats: persist failed")
		return domain.ErrPersistence
	}
	return nil
}

// ReleaseSeats clamps at total capacity instead of failing, so compensating
// rollbacks always succeed. Over-releases are logged for reconciliation.
func (s *SeatService) ReleaseSeats(ctx context.Context, flightNumber string, count int) error {
	if count <= 0 {
		return domain.ErrValidation
	}

	lock := s.flightLock(flightNumber)
	lock.Lock()
	defer lock.Unlock()

	flight, err := s.flights.GetByNumber(ctx, flightNumber)
	if err != nil {
		return err
	}
	if flight == nil {
		return domain.ErrFlightNotFound
	}

	if flight.AvailableSeats+count > flight.TotalSeats {
		s.log.WithFields(logrus.Fields{
			"flight":    flightNumber,
			"seats":     count,
			"available": flight.AvailableSeats,
			"total":     flight.TotalSeats,
		}).Warn("release seats: clamped to total capacity")
	}
	flight.IncrementSeats(count)

	if err := s.flights.Save(ctx, flight); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"flight": flightNumber,
			"seats":  count,
		}).Error("release seats: persist failed")
		return domain.ErrPersistence
	}
	return nil
}

func (s *SeatService) flightLock(flightNumber string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[flightNumber]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[flightNumber] = lock
	}
	return lock
}

var _ ReservationUseCase = (*SeatService)(nil)
