package payment

import (
	"context"

	"github.com/JaserAkuly/EvolveTMS/internal/ports/repository"
	"go.uber.org/zap"
)

// Status is the provider-agnostic outcome of a payment event.
type Status string

const (
	PaymentSucceeded Status = "succeeded"
	PaymentFailed    Status = "failed"
)

// NormalizedEvent is a provider webhook event mapped into domain terms.
// InvoiceNumber is the external reference the provider echoes back from the
// payment's metadata.
type NormalizedEvent struct {
	Provider          string
	ProviderPaymentID string
	InvoiceNumber     string
	Status            Status
	ErrorCode         *string
	ErrorMessage      *string
}

// Processor verifies and parses one provider's webhook payload. Returning
// (nil, nil) means the event type is not one we act on.
type Processor interface {
	Provider() string
	VerifyAndParse(payload []byte, headers map[string]string) (*NormalizedEvent, error)
}

// Service applies normalized payment events to invoices.
type Service struct {
	invoices repository.InvoiceStore
	log      *zap.SugaredLogger
}

func NewService(invoices repository.InvoiceStore, log *zap.SugaredLogger) *Service {
	return &Service{invoices: invoices, log: log}
}

// HandleEvent marks the referenced invoice paid on a successful payment.
// Failures are logged and acknowledged; the provider retries delivery on
// error returns only, and a failed payment is not our error.
func (s *Service) HandleEvent(ctx context.Context, ev *NormalizedEvent) error {
	if ev == nil {
		return nil
	}
	if ev.Status != PaymentSucceeded {
		s.log.Infow("payment did not succeed, invoice left untouched",
			"provider", ev.Provider, "invoice_number", ev.InvoiceNumber,
			"payment_id", ev.ProviderPaymentID)
		return nil
	}

	inv, err := s.invoices.GetInvoiceByNumber(ctx, ev.InvoiceNumber)
	if err != nil {
		return err
	}
	if err := s.invoices.MarkInvoicePaid(ctx, inv.ID, ev.ProviderPaymentID); err != nil {
		return err
	}
	s.log.Infow("invoice marked paid",
		"invoice_number", ev.InvoiceNumber, "payment_id", ev.ProviderPaymentID)
	return nil
}
