// Package models defines the domain models for the billing service:
// the Company and Invoice entities and their update payloads. The structs
// double as GORM models; the invoices table keeps a foreign key on
// companies.code so referential integrity is enforced by the store.
package models

import (
	"time"
)

// Company is a billable company. The code is the primary key and is
// immutable after creation; invoices reference it via CompCode.
type Company struct {
	// Code is the unique, caller-chosen identifier for the company.
	Code string `gorm:"primaryKey;size:32"`
	// Name is the company's display name.
	Name string `gorm:"size:128;not null"`
	// Description provides details about the company. May be empty.
	Description string `gorm:"size:3000"`
}

// CompanyDetail is a Company together with the identifiers of the
// invoices that reference it. Assembled by the service layer for reads.
type CompanyDetail struct {
	Company
	// InvoiceIDs holds the ids of all invoices billed to this company.
	// Empty (never nil) when the company has no invoices.
	InvoiceIDs []int64
}

// CompanyUpdate carries the mutable Company fields for an update.
// Pointer types allow distinguishing "unset" from "set to zero value".
type CompanyUpdate struct {
	// Code identifies the company to update.
	Code string
	// Name is the new name for the company.
	Name *string
	// Description is the new description.
	Description *string
}

// Invoice is a single invoice issued to a company.
//
// Invariant: PaidDate is non-nil if and only if Paid is true. The
// invariant is maintained by the paid-state transition in the
// controller package, never by ad-hoc writes.
type Invoice struct {
	// ID is the store-generated invoice identifier.
	ID int64 `gorm:"primaryKey;autoIncrement"`
	// CompCode references the company the invoice is billed to.
	CompCode string `gorm:"size:32;not null;index"`
	// Company is the associated company row, populated on joined reads.
	Company *Company `gorm:"foreignKey:CompCode;references:Code"`
	// Amt is the invoice amount.
	Amt float64 `gorm:"not null"`
	// Paid reports whether the invoice has been paid.
	Paid bool `gorm:"not null;default:false"`
	// AddDate is the date the invoice was created. Immutable.
	AddDate time.Time `gorm:"not null"`
	// PaidDate is the date the invoice was paid, nil while unpaid.
	PaidDate *time.Time
}

// InvoiceUpdate carries the writable invoice fields for an update.
// PaidDate is the value computed by the paid-state transition; a nil
// PaidDate clears the column.
type InvoiceUpdate struct {
	ID       int64
	Amt      float64
	Paid     bool
	PaidDate *time.Time
}
