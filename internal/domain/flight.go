package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusBoarding  FlightStatus = "BOARDING"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusArrived   FlightStatus = "ARRIVED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

type Flight struct {
	ID             string
	Number         string
	Airline        string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	TotalSeats     int
	AvailableSeats int
	BaseFareCents  int64
	Status         FlightStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsBookable reports whether new reservations are accepted for this flight.
func (f *Flight) IsBookable() bool {
	return f.Status == FlightStatusScheduled || f.Status == FlightStatusBoarding
}

// HasAvailableSeats reports whether n seats could be reserved right now.
// Pure read, no side effect.
func (f *Flight) HasAvailableSeats(n int) bool {
	return n > 0 && f.AvailableSeats >= n
}

// DecrementSeats takes n seats off the ledger. The check and the decrement
// stay in one call so the count can never go negative.
func (f *Flight) DecrementSeats(n int) error {
	if n <= 0 {
		return ErrValidation
	}
	if n > f.AvailableSeats {
		return ErrInsufficientSeats
	}
	f.AvailableSeats -= n
	return nil
}

// IncrementSeats returns n seats to the ledger, clamped so the count never
// exceeds TotalSeats. Callers must not rely on the clamp to mask a
// double-release.
func (f *Flight) IncrementSeats(n int) {
	if n <= 0 {
		return
	}
	f.AvailableSeats += n
	if f.AvailableSeats > f.TotalSeats {
		f.AvailableSeats = f.TotalSeats
	}
}
