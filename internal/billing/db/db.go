package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/biztime/backend/internal/billing/errors"
	"github.com/biztime/backend/internal/billing/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Company{}, &models.Invoice{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, code string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("code = ?", update.Code).
		Updates(update)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Delete(&models.Company{}, "code = ?", code)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ListCompanyInvoiceIDs returns the ids of all invoices billed to the
// given company. The result is empty, never nil, when there are none.
func (r *Repository) ListCompanyInvoiceIDs(ctx context.Context, code string) ([]int64, error) {
	ids := make([]int64, 0)
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("comp_code = ?", code).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

func (r *Repository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	result := r.db.WithContext(ctx).Find(&invoices)
	if result.Error != nil {
		return nil, result.Error
	}
	return invoices, nil
}

func (r *Repository) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	result := r.db.WithContext(ctx).First(&invoice, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &invoice, nil
}

// GetInvoiceWithCompany fetches an invoice with its company row joined in.
func (r *Repository) GetInvoiceWithCompany(ctx context.Context, id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	result := r.db.WithContext(ctx).Preload("Company").First(&invoice, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &invoice, nil
}

func (r *Repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.AddDate.IsZero() {
		invoice.AddDate = time.Now()
	}
	result := r.db.WithContext(ctx).Create(invoice)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// UpdateInvoice writes amt, paid and paid_date for the matching row.
// A map is used so a nil PaidDate clears the column instead of being
// skipped as a zero value.
func (r *Repository) UpdateInvoice(ctx context.Context, update *models.InvoiceUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", update.ID).
		Updates(map[string]interface{}{
			"amt":       update.Amt,
			"paid":      update.Paid,
			"paid_date": update.PaidDate,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteInvoice(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
