package invoice

import (
	"time"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates an invoice status string from storage or a request.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return Status(s), nil
	}
	return "", domainErr.ErrInvalidInput
}

// Invoice bills a shipper for a delivered load. Payment confirmation arrives
// asynchronously through the payment webhook, which moves pending -> paid.
type Invoice struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	LoadID        *uuid.UUID `json:"load_id,omitempty"`
	ShipperID     *uuid.UUID `json:"shipper_id,omitempty"`
	Amount        float64    `json:"amount"`
	Status        Status     `json:"status"`
	IssuedAt      time.Time  `json:"issued_at"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (i Invoice) Validate() error {
	if i.InvoiceNumber == "" || i.Amount <= 0 {
		return domainErr.ErrInvalidInput
	}
	switch i.Status {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return nil
	}
	return domainErr.ErrInvalidInput
}
