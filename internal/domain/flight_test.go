package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlight_HasAvailableSeats(t *testing.T) {
	f := &Flight{TotalSeats: 10, AvailableSeats: 3}

	assert.True(t, f.HasAvailableSeats(1))
	assert.True(t, f.HasAvailableSeats(3))
	assert.False(t, f.HasAvailableSeats(4))
	assert.False(t, f.HasAvailableSeats(0))
	assert.False(t, f.HasAvailableSeats(-1))
}

func TestFlight_DecrementSeats(t *testing.T) {
	f := &Flight{TotalSeats: 10, AvailableSeats: 2}

	assert.NoError(t, f.DecrementSeats(2))
	assert.Equal(t, 0, f.AvailableSeats)

	err := f.DecrementSeats(1)
	assert.ErrorIs(t, err, ErrInsufficientSeats)
	assert.Equal(t, 0, f.AvailableSeats, "failed decrement must not mutate")
}

func TestFlight_DecrementSeats_InvalidCount(t *testing.T) {
	f := &Flight{TotalSeats: 10, AvailableSeats: 5}

	assert.ErrorIs(t, f.DecrementSeats(0), ErrValidation)
	assert.ErrorIs(t, f.DecrementSeats(-2), ErrValidation)
	assert.Equal(t, 5, f.AvailableSeats)
}

func TestFlight_IncrementSeats_Clamped(t *testing.T) {
	f := &Flight{TotalSeats: 10, AvailableSeats: 9}

	f.IncrementSeats(5)
	assert.Equal(t, 10, f.AvailableSeats, "release clamps at total capacity")

	f.IncrementSeats(-1)
	assert.Equal(t, 10, f.AvailableSeats)
}

func TestFlight_LedgerNeverLeavesBounds(t *testing.T) {
	f := &Flight{TotalSeats: 5, AvailableSeats: 5}

	ops := []struct {
		reserve bool
		n       int
	}{
		{true, 3}, {true, 3}, {false, 1}, {true, 3}, {false, 10}, {true, 5}, {false, 2},
	}
	for _, op := range ops {
		if op.reserve {
			_ = f.DecrementSeats(op.n)
		} else {
			f.IncrementSeats(op.n)
		}
		assert.GreaterOrEqual(t, f.AvailableSeats, 0)
		assert.LessOrEqual(t, f.AvailableSeats, f.TotalSeats)
	}
}

func TestFlight_IsBookable(t *testing.T) {
	for status, want := range map[FlightStatus]bool{
		FlightStatusScheduled: true,
		FlightStatusBoarding:  true,
		FlightStatusDeparted:  false,
		FlightStatusArrived:   false,
		FlightStatusDelayed:   false,
		FlightStatusCancelled: false,
	} {
		f := &Flight{Status: status}
		assert.Equal(t, want, f.IsBookable(), "status %s", status)
	}
}
