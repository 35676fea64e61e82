package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/Domenick1991/airdesk/internal/kafka"
	"github.com/Domenick1991/airdesk/internal/payment"
	"github.com/Domenick1991/airdesk/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, requestingCustomerID string) error
	ModifyBooking(ctx context.Context, bookingID, newFlightNumber string) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ExpireStalePending(ctx context.Context) ([]domain.Booking, error)
	CompleteArrivedBookings(ctx context.Context) (int, error)
}

// SeatReserver is the only path to the flight ledger; the lifecycle manager
// never mutates seat counts directly.
type SeatReserver interface {
	CheckAvailability(ctx context.Context, flightNumber string, requested int) (bool, error)
	ReserveSeats(ctx context.Context, flightNumber string, count int) error
	ReleaseSeats(ctx context.Context, flightNumber string, count int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	seats              SeatReserver
	payments           payment.Gateway
	producer           Producer
	log                *logrus.Logger
	bookingTopic       string
	notificationsTopic string
	pendingTTL         time.Duration
}

type CreateBookingInput struct {
	CustomerID   string
	FlightNumber string
	Passengers   []domain.Passenger
	AddOns       []domain.AddOn
	Payment      *domain.PaymentDetails
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPendingTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.pendingTTL = ttl
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	seats SeatReserver,
	payments payment.Gateway,
	producer Producer,
	log *logrus.Logger,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		seats:        seats,
		payments:     payments,
		producer:     producer,
		log:          log,
		bookingTopic: bookingTopic,
		pendingTTL:   30 * time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves seats first and persists the booking second. A
// failed persist releases the seats again, so a failed attempt leaves no
// stranded decrement and no orphan booking.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.CustomerID == "" || input.FlightNumber == "" || input.Payment == nil {
		return nil, domain.ErrValidation
	}
	if len(input.Passengers) == 0 || len(input.Passengers) > domain.MaxPassengersPerBooking {
		return nil, domain.ErrValidation
	}

	flight, err := s.flights.GetByNumber(ctx, input.FlightNumber)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, domain.ErrFlightNotFound
	}

	ok, err := s.seats.CheckAvailability(ctx, input.FlightNumber, len(input.Passengers))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInsufficientSeats
	}

	if err := s.seats.ReserveSeats(ctx, input.FlightNumber, len(input.Passengers)); err != nil {
		// Nothing was reserved, nothing to compensate.
		return nil, err
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		CustomerID:    input.CustomerID,
		FlightID:      flight.ID,
		FlightNumber:  flight.Number,
		Status:        domain.BookingStatusPending,
		Passengers:    input.Passengers,
		AddOns:        input.AddOns,
		Payment:       *input.Payment,
		BaseFareCents: flight.BaseFareCents,
		CreatedAt:     time.Now(),
	}
	booking.RecalculateTotalPrice()
	booking.Payment.AmountCents = booking.TotalPriceCents

	if err := s.bookings.Save(ctx, booking); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking": booking.ID,
			"flight":  booking.FlightNumber,
		}).Error("create booking: persist failed, releasing seats")
		// Mandatory compensation: without it the seats are silently lost.
		if relErr := s.seats.ReleaseSeats(ctx, input.FlightNumber, len(input.Passengers)); relErr != nil {
			s.log.WithError(relErr).WithField("flight", input.FlightNumber).
				Error("create booking: compensating release failed, needs reconciliation")
		}
		return nil, domain.ErrPersistence
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, domain.ErrInvalidStatus
	}

	if err := s.payments.Capture(ctx, booking.Payment); err != nil {
		return nil, fmt.Errorf("capture payment: %w", err)
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.ConfirmedAt = time.Now()
	booking.Reference = newReference()

	// Seats were already held since PENDING; this is a status-only change.
	if err := s.bookings.Save(ctx, booking); err != nil {
		s.log.WithError(err).WithField("booking", booking.ID).Error("confirm booking: persist failed")
		return nil, domain.ErrPersistence
	}

	s.publish(ctx, kafka.EventBookingConfirmed, booking)
	return booking, nil
}

// CancelBooking releases the booking's seats before flipping the status:
// the seat ledger is the source of truth, so a failed release fails the
// whole cancellation rather than being treated as done.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, requestingCustomerID string) error {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.CustomerID != requestingCustomerID {
		return domain.ErrUnauthorized
	}
	if booking.IsTerminal() {
		return domain.ErrInvalidStatus
	}

	if err := s.seats.ReleaseSeats(ctx, booking.FlightNumber, booking.SeatCount()); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = time.Now()

	if err := s.bookings.Save(ctx, booking); err != nil {
		s.log.WithError(err).WithField("booking", booking.ID).Error("cancel booking: persist failed, re-reserving seats")
		if resErr := s.seats.ReserveSeats(ctx, booking.FlightNumber, booking.SeatCount()); resErr != nil {
			s.log.WithError(resErr).WithField("flight", booking.FlightNumber).
				Error("cancel booking: compensating re-reserve failed, needs reconciliation")
		}
		return domain.ErrPersistence
	}

	s.publish(ctx, kafka.EventBookingCancelled, booking)
	return nil
}

// ModifyBooking moves a booking to another flight as release-old plus
// reserve-new; if either half fails the original reservation is restored.
func (s *BookingService) ModifyBooking(ctx context.Context, bookingID, newFlightNumber string) (*domain.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsTerminal() {
		return nil, domain.ErrInvalidStatus
	}
	if booking.FlightNumber == newFlightNumber {
		return booking, nil
	}

	newFlight, err := s.flights.GetByNumber(ctx, newFlightNumber)
	if err != nil {
		return nil, err
	}
	if newFlight == nil {
		return nil, domain.ErrFlightNotFound
	}

	oldFlightNumber := booking.FlightNumber
	seatCount := booking.SeatCount()

	if err := s.seats.ReleaseSeats(ctx, oldFlightNumber, seatCount); err != nil {
		return nil, err
	}

	if err := s.seats.ReserveSeats(ctx, newFlightNumber, seatCount); err != nil {
		s.reReserve(ctx, oldFlightNumber, seatCount)
		return nil, err
	}

	booking.FlightID = newFlight.ID
	booking.FlightNumber = newFlight.Number
	booking.BaseFareCents = newFlight.BaseFareCents
	booking.RecalculateTotalPrice()
	booking.Payment.AmountCents = booking.TotalPriceCents

	if err := s.bookings.Save(ctx, booking); err != nil {
		s.log.WithError(err).WithField("booking", booking.ID).Error("modify booking: persist failed, restoring old flight")
		if relErr := s.seats.ReleaseSeats(ctx, newFlightNumber, seatCount); relErr != nil {
			s.log.WithError(relErr).WithField("flight", newFlightNumber).
				Error("modify booking: release on new flight failed, needs reconciliation")
		}
		s.reReserve(ctx, oldFlightNumber, seatCount)
		return nil, domain.ErrPersistence
	}

	s.publish(ctx, kafka.EventBookingModified, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.loadBooking(ctx, bookingID)
}

func (s *BookingService) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// ExpireStalePending cancels PENDING bookings older than the hold TTL,
// releasing their seats through the normal path. Failures are logged and
// skipped so one poisoned booking does not stall the sweep.
func (s *BookingService) ExpireStalePending(ctx context.Context) ([]domain.Booking, error) {
	cutoff := time.Now().Add(-s.pendingTTL)
	stale, err := s.bookings.ListStalePending(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	expired := make([]domain.Booking, 0, len(stale))
	for i := range stale {
		b := stale[i]
		if err := s.seats.ReleaseSeats(ctx, b.FlightNumber, b.SeatCount()); err != nil {
			s.log.WithError(err).WithField("booking", b.ID).Error("expire sweep: release failed")
			continue
		}
		b.Status = domain.BookingStatusCancelled
		b.CancelledAt = time.Now()
		if err := s.bookings.Save(ctx, &b); err != nil {
			s.log.WithError(err).WithField("booking", b.ID).Error("expire sweep: persist failed, re-reserving")
			s.reReserve(ctx, b.FlightNumber, b.SeatCount())
			continue
		}
		s.publish(ctx, kafka.EventBookingExpired, &b)
		expired = append(expired, b)
	}
	return expired, nil
}

// CompleteArrivedBookings moves CONFIRMED bookings to COMPLETED once their
// flight has ARRIVED. No seat change: the flight is over.
func (s *BookingService) CompleteArrivedBookings(ctx context.Context) (int, error) {
	arrived, err := s.flights.ListByStatus(ctx, domain.FlightStatusArrived)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, flight := range arrived {
		bookings, err := s.bookings.ListByFlight(ctx, flight.ID)
		if err != nil {
			s.log.WithError(err).WithField("flight", flight.Number).Error("complete sweep: list failed")
			continue
		}
		for i := range bookings {
			b := bookings[i]
			if b.Status != domain.BookingStatusConfirmed {
				continue
			}
			b.Status = domain.BookingStatusCompleted
			if err := s.bookings.Save(ctx, &b); err != nil {
				s.log.WithError(err).WithField("booking", b.ID).Error("complete sweep: persist failed")
				continue
			}
			s.publish(ctx, kafka.EventBookingCompleted, &b)
			completed++
		}
	}
	return completed, nil
}

func (s *BookingService) loadBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) reReserve(ctx context.Context, flightNumber string, count int) {
	if err := s.seats.ReserveSeats(ctx, flightNumber, count); err != nil {
		s.log.WithError(err).WithField("flight", flightNumber).
			Error("compensating re-reserve failed, needs reconciliation")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		Reference:       booking.Reference,
		CustomerID:      booking.CustomerID,
		FlightNumber:    booking.FlightNumber,
		Seats:           booking.SeatCount(),
		Status:          string(booking.Status),
		TotalPriceCents: booking.TotalPriceCents,
		OccurredAt:      time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		s.log.WithError(err).WithField("booking", booking.ID).Warn("publish booking event failed")
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
			s.log.WithError(err).WithField("booking", booking.ID).Warn("publish notification event failed")
		}
	}
}

func newReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PK" + raw[:6]
}

var _ BookingUseCase = (*BookingService)(nil)
