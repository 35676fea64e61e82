package booking

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/Domenick1991/airdesk/internal/payment"
	"github.com/Domenick1991/airdesk/internal/repository"
	"github.com/Domenick1991/airdesk/internal/service/seats"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario tests run the real seat service against the in-memory gateway,
// so every assertion below checks the actual seat ledger rather than mock
// call counts.

type scenarioEnv struct {
	svc      *BookingService
	flights  *repository.MemFlightRepository
	bookings *repository.MemBookingRepository
}

func newScenarioEnv(t *testing.T, flights ...*domain.Flight) *scenarioEnv {
	t.Helper()

	flightRepo := repository.NewMemFlightRepository()
	bookingRepo := repository.NewMemBookingRepository()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ctx := context.Background()
	for _, f := range flights {
		require.NoError(t, flightRepo.Save(ctx, f))
	}

	seatSvc := seats.NewSeatService(flightRepo, log)
	svc := NewBookingService(bookingRepo, flightRepo, seatSvc, payment.NewProcessor(), nil, log, "")

	return &scenarioEnv{svc: svc, flights: flightRepo, bookings: bookingRepo}
}

func (e *scenarioEnv) availableSeats(t *testing.T, number string) int {
	t.Helper()
	flight, err := e.flights.GetByNumber(context.Background(), number)
	require.NoError(t, err)
	require.NotNil(t, flight)
	return flight.AvailableSeats
}

func scenarioFlight(number string, total, available int) *domain.Flight {
	now := time.Now()
	return &domain.Flight{
		ID:             "id-" + number,
		Number:         number,
		Airline:        "AirDesk",
		Origin:         "JFK",
		Destination:    "LAX",
		DepartureTime:  now.Add(24 * time.Hour),
		ArrivalTime:    now.Add(30 * time.Hour),
		TotalSeats:     total,
		AvailableSeats: available,
		BaseFareCents:  15000,
		Status:         domain.FlightStatusScheduled,
	}
}

func TestScenario_LastSeat_OneWinner(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL1", 100, 1))
	ctx := context.Background()

	input := func(customer string) CreateBookingInput {
		return CreateBookingInput{
			CustomerID:   customer,
			FlightNumber: "FL1",
			Passengers:   []domain.Passenger{{FirstName: "Solo", LastName: "Traveler"}},
			Payment:      testPayment(),
		}
	}

	first, err := env.svc.CreateBooking(ctx, input("customer-a"))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, first.Status)
	assert.Equal(t, 0, env.availableSeats(t, "FL1"))

	second, err := env.svc.CreateBooking(ctx, input("customer-b"))
	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)
	assert.Nil(t, second)
	assert.Equal(t, 0, env.availableSeats(t, "FL1"), "the losing attempt must not change the count")
}

func TestScenario_Cancel_ReturnsSeats(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL2", 100, 5))
	ctx := context.Background()

	existing := pendingBooking()
	existing.FlightID = "id-FL2"
	existing.FlightNumber = "FL2"
	existing.Status = domain.BookingStatusConfirmed
	require.NoError(t, env.bookings.Save(ctx, existing))

	require.NoError(t, env.svc.CancelBooking(ctx, existing.ID, existing.CustomerID))
	assert.Equal(t, 7, env.availableSeats(t, "FL2"), "two seats returned")

	cancelled, err := env.svc.GetBooking(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	// Cancelling again is rejected and must not add the seats twice.
	err = env.svc.CancelBooking(ctx, existing.ID, existing.CustomerID)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Equal(t, 7, env.availableSeats(t, "FL2"))
}

func TestScenario_Cancel_WrongCustomer_NoMutation(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL2", 100, 5))
	ctx := context.Background()

	existing := pendingBooking()
	existing.FlightID = "id-FL2"
	existing.FlightNumber = "FL2"
	require.NoError(t, env.bookings.Save(ctx, existing))

	err := env.svc.CancelBooking(ctx, existing.ID, "somebody-else")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 5, env.availableSeats(t, "FL2"))

	unchanged, err := env.svc.GetBooking(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, unchanged.Status)
}

func TestScenario_CreatePersistFails_SeatsRolledBack(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL3", 100, 10))
	ctx := context.Background()

	env.bookings.FailSaves = true

	created, err := env.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID:   "cust-1",
		FlightNumber: "FL3",
		Passengers:   twoPassengers(),
		Payment:      testPayment(),
	})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Nil(t, created)
	assert.Equal(t, 10, env.availableSeats(t, "FL3"), "reserved seats released after failed persist")
}

func TestScenario_Modify_MovesSeatsBetweenFlights(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL1", 100, 10), scenarioFlight("FL4", 100, 3))
	ctx := context.Background()

	created, err := env.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID:   "cust-1",
		FlightNumber: "FL1",
		Passengers:   twoPassengers(),
		Payment:      testPayment(),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, env.availableSeats(t, "FL1"))

	modified, err := env.svc.ModifyBooking(ctx, created.ID, "FL4")
	require.NoError(t, err)
	assert.Equal(t, "FL4", modified.FlightNumber)
	assert.Equal(t, 10, env.availableSeats(t, "FL1"))
	assert.Equal(t, 1, env.availableSeats(t, "FL4"))
}

func TestScenario_Modify_NewFlightFull_OldRestored(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL1", 100, 10), scenarioFlight("FL5", 100, 1))
	ctx := context.Background()

	created, err := env.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID:   "cust-1",
		FlightNumber: "FL1",
		Passengers:   twoPassengers(),
		Payment:      testPayment(),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, env.availableSeats(t, "FL1"))

	modified, err := env.svc.ModifyBooking(ctx, created.ID, "FL5")
	assert.ErrorIs(t, err, domain.ErrInsufficientSeats)
	assert.Nil(t, modified)

	assert.Equal(t, 8, env.availableSeats(t, "FL1"), "original hold restored")
	assert.Equal(t, 1, env.availableSeats(t, "FL5"), "target flight untouched")

	unchanged, err := env.svc.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "FL1", unchanged.FlightNumber)
}

func TestScenario_ConfirmThenComplete(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL1", 100, 10))
	ctx := context.Background()

	created, err := env.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID:   "cust-1",
		FlightNumber: "FL1",
		Passengers:   twoPassengers(),
		Payment:      testPayment(),
	})
	require.NoError(t, err)

	confirmed, err := env.svc.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmed.Reference)

	byRef, err := env.svc.GetByReference(ctx, confirmed.Reference)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byRef.ID)

	flight, err := env.flights.GetByNumber(ctx, "FL1")
	require.NoError(t, err)
	flight.Status = domain.FlightStatusArrived
	require.NoError(t, env.flights.Save(ctx, flight))

	count, err := env.svc.CompleteArrivedBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	completed, err := env.svc.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, completed.Status)
	assert.Equal(t, 8, env.availableSeats(t, "FL1"), "completion never changes the ledger")
}

func TestScenario_ExpireStalePending_ReleasesSeats(t *testing.T) {
	env := newScenarioEnv(t, scenarioFlight("FL1", 100, 10))
	ctx := context.Background()

	created, err := env.svc.CreateBooking(ctx, CreateBookingInput{
		CustomerID:   "cust-1",
		FlightNumber: "FL1",
		Passengers:   twoPassengers(),
		Payment:      testPayment(),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, env.availableSeats(t, "FL1"))

	// Age the booking past the hold TTL.
	created.CreatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, env.bookings.Save(ctx, created))

	expired, err := env.svc.ExpireStalePending(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, domain.BookingStatusCancelled, expired[0].Status)
	assert.Equal(t, 10, env.availableSeats(t, "FL1"))
}
