// Package controller implements the business logic (service layer) for
// the companies and invoices resources, orchestrating repository
// operations and sending lifecycle events.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/biztime/backend/internal/billing/db"
	e "github.com/biztime/backend/internal/billing/errors"
	"github.com/biztime/backend/internal/billing/events"
	"github.com/biztime/backend/internal/billing/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Repository defines the storage interface for companies and invoices.
type Repository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, code string) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, code string) error
	ListCompanyInvoiceIDs(ctx context.Context, code string) ([]int64, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	GetInvoiceWithCompany(ctx context.Context, id int64) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	UpdateInvoice(ctx context.Context, update *models.InvoiceUpdate) error
	DeleteInvoice(ctx context.Context, id int64) error
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, and a logger.
func NewCompanyService(repo Repository, producer EventProducer, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// ListCompanies returns all companies in storage order.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany retrieves a company by code together with the ids of its
// invoices, returning ErrNotFound if the company does not exist.
func (s *CompanyService) GetCompany(ctx context.Context, code string) (*models.CompanyDetail, error) {
	company, err := s.repo.GetCompany(ctx, code)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	ids, err := s.repo.ListCompanyInvoiceIDs(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list company invoices: %w", err)
	}

	return &models.CompanyDetail{Company: *company, InvoiceIDs: ids}, nil
}

// CreateCompany inserts a new company and fires a creation event.
// Uniqueness of the code is enforced by the store, not pre-checked;
// a duplicate surfaces as a storage failure.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	go func() {
		s.producer.Produce(events.Event{Type: events.CompanyCreated, Company: company})
	}()
	return company, nil
}

// UpdateCompany modifies the name and description of a company, then
// fetches the updated version for returning and event production.
func (s *CompanyService) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error) {
	err := s.repo.UpdateCompany(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	updated, err := s.repo.GetCompany(ctx, update.Code)
	if err != nil {
		s.logger.Error("Failed to get company after update",
			zap.Error(err),
			zap.String("company_code", update.Code),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.Event{Type: events.CompanyUpdated, Company: updated})
	}()
	return updated, nil
}

// DeleteCompany removes a company by code and fires a deletion event.
func (s *CompanyService) DeleteCompany(ctx context.Context, code string) error {
	company, err := s.repo.GetCompany(ctx, code)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get company for deletion: %w", err)
	}

	if err := s.repo.DeleteCompany(ctx, code); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	go func() {
		s.producer.Produce(events.Event{Type: events.CompanyDeleted, Company: company})
	}()

	return nil
}
