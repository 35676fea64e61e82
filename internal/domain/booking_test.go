package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_RecalculateTotalPrice(t *testing.T) {
	b := &Booking{
		BaseFareCents: 15000,
		Passengers:    []Passenger{{FirstName: "Anna"}, {FirstName: "Boris"}},
	}

	b.RecalculateTotalPrice()
	assert.Equal(t, int64(30000), b.TotalPriceCents)

	b.AddAddOn(AddOn{Name: "Extra Baggage", PriceCents: 2500})
	assert.Equal(t, int64(32500), b.TotalPriceCents)

	b.BaseFareCents = 10000
	b.RecalculateTotalPrice()
	assert.Equal(t, int64(22500), b.TotalPriceCents)
}

func TestBooking_HoldsSeats(t *testing.T) {
	for status, want := range map[BookingStatus]bool{
		BookingStatusPending:   true,
		BookingStatusConfirmed: true,
		BookingStatusCancelled: false,
		BookingStatusCompleted: false,
	} {
		b := &Booking{Status: status}
		assert.Equal(t, want, b.HoldsSeats(), "status %s", status)
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).IsTerminal())
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 4242", MaskCardNumber("4242424242424242"))
	assert.Equal(t, "****", MaskCardNumber("42"))
}
