package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/biztime/backend/internal/billing/errors"
	"github.com/biztime/backend/internal/billing/events"
	"github.com/biztime/backend/internal/billing/models"
	"go.uber.org/zap"
)

// InvoiceService provides methods to manage invoices, including the
// paid-state transition applied on updates.
type InvoiceService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewInvoiceService constructs an InvoiceService with a repository,
// an event producer, and a logger.
func NewInvoiceService(repo Repository, producer EventProducer, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("invoice_service"),
	}
}

// ResolvePaidDate computes the paid_date resulting from an invoice
// update. The decision is driven by the stored paid flag compared to
// the requested one:
//   - unpaid -> paid: paid_date becomes now
//   - requested unpaid: paid_date is cleared, regardless of prior state
//   - paid -> paid: the stored paid_date is kept unchanged
func ResolvePaidDate(storedPaid bool, storedPaidDate *time.Time, requestedPaid bool, now time.Time) *time.Time {
	switch {
	case requestedPaid && !storedPaid:
		return &now
	case !requestedPaid:
		return nil
	default:
		return storedPaidDate
	}
}

// ListInvoices returns all invoices in storage order.
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.repo.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice retrieves an invoice by id with its company joined in,
// returning ErrNotFound if the invoice does not exist.
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	invoice, err := s.repo.GetInvoiceWithCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// CreateInvoice inserts a new unpaid invoice for the given company and
// fires a creation event. The company reference is enforced by the
// store's foreign key, not pre-checked; a dangling comp_code surfaces
// as a storage failure.
func (s *InvoiceService) CreateInvoice(ctx context.Context, compCode string, amt float64) (*models.Invoice, error) {
	invoice := &models.Invoice{
		CompCode: compCode,
		Amt:      amt,
		Paid:     false,
		PaidDate: nil,
	}
	if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	go func() {
		s.producer.Produce(events.Event{Type: events.InvoiceCreated, Invoice: invoice})
	}()
	return invoice, nil
}

// UpdateInvoice writes a new amount and paid flag to an invoice,
// applying the paid-state transition to derive paid_date from the
// previously stored flag. The prior state is read first; if the invoice
// does not exist, ErrNotFound is returned and nothing is written.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id int64, amt float64, paid bool) (*models.Invoice, error) {
	current, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get invoice for update: %w", err)
	}

	update := &models.InvoiceUpdate{
		ID:       id,
		Amt:      amt,
		Paid:     paid,
		PaidDate: ResolvePaidDate(current.Paid, current.PaidDate, paid, time.Now()),
	}
	if err := s.repo.UpdateInvoice(ctx, update); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	updated, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get invoice after update",
			zap.Error(err),
			zap.Int64("invoice_id", id),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.Event{Type: events.InvoiceUpdated, Invoice: updated})
	}()
	return updated, nil
}

// DeleteInvoice removes an invoice by id and fires a deletion event.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	invoice, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get invoice for deletion: %w", err)
	}

	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	go func() {
		s.producer.Produce(events.Event{Type: events.InvoiceDeleted, Invoice: invoice})
	}()

	return nil
}
