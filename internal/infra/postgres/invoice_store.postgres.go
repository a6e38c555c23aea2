package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/invoice"
	"github.com/google/uuid"
)

// InvoiceStore manages invoice rows.
type InvoiceStore struct {
	db *sql.DB
}

func NewInvoiceStore(db *sql.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

const invoiceColumns = `
	id, invoice_number, load_id, shipper_id, amount, status, issued_at, due_at,
	paid_at, notes, created_at, updated_at`

func (s *InvoiceStore) GetInvoice(ctx context.Context, id uuid.UUID) (invoice.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return invoice.Invoice{}, domainErr.ErrInvoiceNotFound
	}
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceStore) GetInvoiceByNumber(ctx context.Context, number string) (invoice.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE invoice_number = $1`
	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, number))
	if errors.Is(err, sql.ErrNoRows) {
		return invoice.Invoice{}, domainErr.ErrInvoiceNotFound
	}
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to get invoice by number: %w", err)
	}
	return inv, nil
}

func (s *InvoiceStore) ListInvoices(ctx context.Context, status invoice.Status) ([]invoice.Invoice, error) {
	query := `SELECT` + invoiceColumns + `
		FROM invoices
		WHERE ($1 = '' OR status = $1)
		ORDER BY issued_at DESC`

	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	query := `
		INSERT INTO invoices (invoice_number, load_id, shipper_id, amount, status,
			issued_at, due_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		inv.InvoiceNumber,
		inv.LoadID,
		inv.ShipperID,
		inv.Amount,
		inv.Status,
		inv.IssuedAt,
		inv.DueAt,
		nullIfEmpty(inv.Notes),
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return invoice.Invoice{}, fmt.Errorf("failed to insert invoice: %w", err)
	}
	return inv, nil
}

// MarkInvoicePaid flips a pending invoice to paid. Idempotent: an invoice
// already paid is left untouched (webhooks redeliver).
func (s *InvoiceStore) MarkInvoicePaid(ctx context.Context, id uuid.UUID, transactionID string) error {
	query := `
		UPDATE invoices
		SET status = 'paid', paid_at = now(), updated_at = now(),
			notes = COALESCE(NULLIF(notes, ''), '') || ' txn:' || $2
		WHERE id = $1 AND status <> 'paid'`

	res, err := s.db.ExecContext(ctx, query, id, transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		if !exists {
			return domainErr.ErrInvoiceNotFound
		}
		// Already paid: redelivered webhook, nothing to do.
	}
	return nil
}

func scanInvoice(sc scanner) (invoice.Invoice, error) {
	var inv invoice.Invoice
	var status string
	var notes sql.NullString
	err := sc.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.LoadID,
		&inv.ShipperID,
		&inv.Amount,
		&status,
		&inv.IssuedAt,
		&inv.DueAt,
		&inv.PaidAt,
		&notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return invoice.Invoice{}, err
	}
	inv.Status = invoice.Status(status)
	inv.Notes = notes.String
	return inv, nil
}
