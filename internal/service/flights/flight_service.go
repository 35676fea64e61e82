package flights

import (
	"context"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/Domenick1991/airdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	SearchAvailable(ctx context.Context, origin, destination string, date time.Time, passengers int) ([]domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	UpdateStatus(ctx context.Context, number string, status domain.FlightStatus) error
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
	log   *logrus.Logger
}

type CreateFlightInput struct {
	Number        string    `json:"number"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	TotalSeats    int       `json:"total_seats"`
	BaseFareCents int64     `json:"base_fare_cents"`
}

func NewFlightService(repo repository.FlightRepository, cache Cache, log *logrus.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	flight, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, domain.ErrFlightNotFound
	}
	return flight, nil
}

// SearchAvailable lists flights on the route and date that are open for
// booking and still have room for the whole party.
func (s *FlightService) SearchAvailable(ctx context.Context, origin, destination string, date time.Time, passengers int) ([]domain.Flight, error) {
	if origin == "" || destination == "" || passengers <= 0 {
		return nil, domain.ErrValidation
	}

	flights, err := s.repo.Search(ctx, origin, destination, date)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		if f.IsBookable() && f.HasAvailableSeats(passengers) {
			available = append(available, f)
		}
	}
	return available, nil
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.Number == "" || input.Origin == "" || input.Destination == "" {
		return nil, domain.ErrValidation
	}
	if input.TotalSeats <= 0 || input.BaseFareCents <= 0 {
		return nil, domain.ErrValidation
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, domain.ErrValidation
	}

	existing, err := s.repo.GetByNumber(ctx, input.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrValidation
	}

	flight := &domain.Flight{
		ID:             uuid.NewString(),
		Number:         input.Number,
		Airline:        input.Airline,
		Origin:         input.Origin,
		Destination:    input.Destination,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		TotalSeats:     input.TotalSeats,
		AvailableSeats: input.TotalSeats,
		BaseFareCents:  input.BaseFareCents,
		Status:         domain.FlightStatusScheduled,
	}
	if err := s.repo.Save(ctx, flight); err != nil {
		s.log.WithError(err).WithField("flight", input.Number).Error("create flight: persist failed")
		return nil, domain.ErrPersistence
	}

	s.invalidateCache(ctx)
	return flight, nil
}

func (s *FlightService) UpdateStatus(ctx context.Context, number string, status domain.FlightStatus) error {
	switch status {
	case domain.FlightStatusScheduled, domain.FlightStatusBoarding, domain.FlightStatusDeparted,
		domain.FlightStatusArrived, domain.FlightStatusDelayed, domain.FlightStatusCancelled:
	default:
		return domain.ErrValidation
	}

	flight, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	if flight == nil {
		return domain.ErrFlightNotFound
	}

	flight.Status = status
	if err := s.repo.Save(ctx, flight); err != nil {
		s.log.WithError(err).WithField("flight", number).Error("update flight status: persist failed")
		return domain.ErrPersistence
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *FlightService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.WithError(err).Warn("invalidate flight cache failed")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
