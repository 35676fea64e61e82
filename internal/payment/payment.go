package payment

import (
	"context"
	"errors"

	"github.com/Domenick1991/airdesk/internal/domain"
)

var ErrDeclined = errors.New("payment declined")

// Gateway is the abstraction boundary in front of a real payment provider.
// Callers may not assume anything beyond success or failure of a capture.
type Gateway interface {
	Capture(ctx context.Context, details domain.PaymentDetails) error
}

// Processor is the stand-in gateway: a capture succeeds iff the amount is
// positive.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Capture(ctx context.Context, details domain.PaymentDetails) error {
	if details.AmountCents <= 0 {
		return ErrDeclined
	}
	return nil
}

var _ Gateway = (*Processor)(nil)
