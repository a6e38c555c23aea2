package stripe

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/JaserAkuly/EvolveTMS/internal/payment"
)

// Processor verifies Stripe webhook signatures and maps payment-intent
// events into domain terms. The invoice number rides in the payment
// intent's metadata.
type Processor struct {
	secret string
}

func New(secret string) *Processor {
	return &Processor{secret: secret}
}

func (p *Processor) Provider() string {
	return "Stripe"
}

func (p *Processor) VerifyAndParse(payload []byte, headers map[string]string) (*payment.NormalizedEvent, error) {
	event, err := webhook.ConstructEvent(
		payload,
		headers["Stripe-Signature"],
		p.secret,
	)
	if err != nil {
		return nil, fmt.Errorf("stripe signature invalid: %w", err)
	}

	var pi stripe.PaymentIntent
	if event.Data != nil {
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			// Not an object shape we care about.
			return nil, nil
		}
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return &payment.NormalizedEvent{
			Provider:          "Stripe",
			ProviderPaymentID: pi.ID,
			InvoiceNumber:     pi.Metadata["invoice_number"],
			Status:            payment.PaymentSucceeded,
		}, nil

	case "payment_intent.payment_failed":
		var code, msg *string
		if pi.LastPaymentError != nil {
			c := string(pi.LastPaymentError.Code)
			m := pi.LastPaymentError.Msg
			code, msg = &c, &m
		}
		return &payment.NormalizedEvent{
			Provider:          "Stripe",
			ProviderPaymentID: pi.ID,
			InvoiceNumber:     pi.Metadata["invoice_number"],
			Status:            payment.PaymentFailed,
			ErrorCode:         code,
			ErrorMessage:      msg,
		}, nil
	}

	// Event types we ignore.
	return nil, nil
}
