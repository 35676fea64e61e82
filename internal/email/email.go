package email

import (
	"context"

	"github.com/Domenick1991/airdesk/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender is a stand-in for a real mail integration; it logs the message
// that would be sent for each booking event.
type Sender struct {
	log *logrus.Logger
}

func NewSender(log *logrus.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.WithFields(logrus.Fields{
		"customer":  event.CustomerID,
		"event":     event.Type,
		"flight":    event.FlightNumber,
		"seats":     event.Seats,
		"reference": event.Reference,
	}).Info("send booking notification email")
	return nil
}
