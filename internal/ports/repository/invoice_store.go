package repository

import (
	"context"

	"github.com/JaserAkuly/EvolveTMS/internal/domain/invoice"
	"github.com/google/uuid"
)

// InvoiceStore manages invoice records.
type InvoiceStore interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (invoice.Invoice, error)

	// GetInvoiceByNumber resolves the external reference payment providers
	// echo back in webhook events.
	GetInvoiceByNumber(ctx context.Context, number string) (invoice.Invoice, error)

	ListInvoices(ctx context.Context, status invoice.Status) ([]invoice.Invoice, error)
	CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error)

	// MarkInvoicePaid stamps paid_at and flips status to paid. Idempotent:
	// marking an already-paid invoice is a no-op, not an error.
	MarkInvoicePaid(ctx context.Context, id uuid.UUID, transactionID string) error
}
