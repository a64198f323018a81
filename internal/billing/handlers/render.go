package handlers

import (
	"time"

	"github.com/biztime/backend/internal/billing/models"
)

// dateLayout renders add_date and paid_date; both are DATE-typed in
// the schema so the time of day is not exposed.
const dateLayout = "2006-01-02"

type companyJSON struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type companyListItemJSON struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type companyDetailJSON struct {
	companyJSON
	Invoices []int64 `json:"invoices"`
}

type invoiceListItemJSON struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}

type invoiceJSON struct {
	ID       int64   `json:"id"`
	CompCode string  `json:"comp_code"`
	Amt      float64 `json:"amt"`
	Paid     bool    `json:"paid"`
	AddDate  string  `json:"add_date"`
	PaidDate *string `json:"paid_date"`
}

// invoiceDetailJSON is the joined read shape: the company columns are
// nested under "company" and comp_code is not repeated at the top level.
type invoiceDetailJSON struct {
	ID       int64       `json:"id"`
	Amt      float64     `json:"amt"`
	Paid     bool        `json:"paid"`
	AddDate  string      `json:"add_date"`
	PaidDate *string     `json:"paid_date"`
	Company  companyJSON `json:"company"`
}

func modelToCompanyJSON(company *models.Company) companyJSON {
	return companyJSON{
		Code:        company.Code,
		Name:        company.Name,
		Description: company.Description,
	}
}

func modelToCompanyDetailJSON(detail *models.CompanyDetail) companyDetailJSON {
	return companyDetailJSON{
		companyJSON: modelToCompanyJSON(&detail.Company),
		Invoices:    detail.InvoiceIDs,
	}
}

func modelToInvoiceJSON(invoice *models.Invoice) invoiceJSON {
	return invoiceJSON{
		ID:       invoice.ID,
		CompCode: invoice.CompCode,
		Amt:      invoice.Amt,
		Paid:     invoice.Paid,
		AddDate:  invoice.AddDate.Format(dateLayout),
		PaidDate: formatDate(invoice.PaidDate),
	}
}

func modelToInvoiceDetailJSON(invoice *models.Invoice) invoiceDetailJSON {
	detail := invoiceDetailJSON{
		ID:       invoice.ID,
		Amt:      invoice.Amt,
		Paid:     invoice.Paid,
		AddDate:  invoice.AddDate.Format(dateLayout),
		PaidDate: formatDate(invoice.PaidDate),
	}
	if invoice.Company != nil {
		detail.Company = modelToCompanyJSON(invoice.Company)
	}
	return detail
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
