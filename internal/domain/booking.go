package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// MaxPassengersPerBooking caps one booking at nine seats.
const MaxPassengersPerBooking = 9

type Passenger struct {
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	SeatAssignment string
}

type AddOn struct {
	Name       string
	PriceCents int64
}

type Booking struct {
	ID              string
	Reference       string
	CustomerID      string
	FlightID        string
	FlightNumber    string
	Status          BookingStatus
	Passengers      []Passenger
	AddOns          []AddOn
	Payment         PaymentDetails
	BaseFareCents   int64
	TotalPriceCents int64
	CreatedAt       time.Time
	ConfirmedAt     time.Time
	CancelledAt     time.Time
	UpdatedAt       time.Time
}

// SeatCount is the number of seats this booking consumes on its flight.
func (b *Booking) SeatCount() int {
	return len(b.Passengers)
}

// HoldsSeats reports whether the booking currently accounts for seats on
// the flight ledger. CANCELLED bookings hold none.
func (b *Booking) HoldsSeats() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal reports whether no further transition is defined.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}

// RecalculateTotalPrice recomputes the total as base fare per passenger
// plus add-ons. Call after changing the flight, passengers or add-ons.
func (b *Booking) RecalculateTotalPrice() {
	total := b.BaseFareCents * int64(len(b.Passengers))
	for _, a := range b.AddOns {
		total += a.PriceCents
	}
	b.TotalPriceCents = total
}

// AddAddOn appends an add-on and keeps the total in sync.
func (b *Booking) AddAddOn(a AddOn) {
	b.AddOns = append(b.AddOns, a)
	b.RecalculateTotalPrice()
}
