package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	e "github.com/biztime/backend/internal/billing/errors"
	"github.com/biztime/backend/internal/billing/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceController defines the business logic interface that the
// invoice HTTP handlers invoke.
type InvoiceController interface {
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, compCode string, amt float64) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, amt float64, paid bool) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

// InvoiceHandler serves the /invoices routes.
type InvoiceHandler struct {
	service InvoiceController
	logger  *zap.Logger
}

// NewInvoiceHandler constructs an InvoiceHandler with the given service and logger.
func NewInvoiceHandler(service InvoiceController, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.Named("invoice_handler"),
	}
}

type createInvoiceRequest struct {
	CompCode string  `json:"comp_code"`
	Amt      float64 `json:"amt"`
}

type updateInvoiceRequest struct {
	Amt  float64 `json:"amt"`
	Paid bool    `json:"paid"`
}

// List responds with every invoice as {invoices: [{id, comp_code}, ...]}.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.service.ListInvoices(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	items := make([]invoiceListItemJSON, 0, len(invoices))
	for _, invoice := range invoices {
		items = append(items, invoiceListItemJSON{ID: invoice.ID, CompCode: invoice.CompCode})
	}
	c.JSON(http.StatusOK, gin.H{"invoices": items})
}

// Get responds with a single invoice with its company nested in.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := parseInvoiceID(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	invoice, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": modelToInvoiceDetailJSON(invoice)})
}

// Create adds an unpaid invoice from {comp_code, amt}.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: malformed request body", e.ErrInvalidInput))
		return
	}

	created, err := h.service.CreateInvoice(c.Request.Context(), req.CompCode, req.Amt)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": modelToInvoiceJSON(created)})
}

// Update writes a new amount and paid flag, applying the paid-state
// transition to paid_date.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := parseInvoiceID(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: malformed request body", e.ErrInvalidInput))
		return
	}

	updated, err := h.service.UpdateInvoice(c.Request.Context(), id, req.Amt, req.Paid)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": modelToInvoiceJSON(updated)})
}

// Delete removes an invoice by id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := parseInvoiceID(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	if err := h.service.DeleteInvoice(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func parseInvoiceID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid invoice id", e.ErrInvalidInput)
	}
	return id, nil
}
