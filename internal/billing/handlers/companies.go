package handlers

import (
	"context"
	"fmt"
	"net/http"

	e "github.com/biztime/backend/internal/billing/errors"
	"github.com/biztime/backend/internal/billing/models"
	"github.com/biztime/backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface that the
// company HTTP handlers invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, code string) (*models.CompanyDetail, error)
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, code string) error
}

// CompanyHandler serves the /companies routes.
type CompanyHandler struct {
	service CompanyController
	logger  *zap.Logger
}

// NewCompanyHandler constructs a CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("company_handler"),
	}
}

type createCompanyRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateCompanyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List responds with every company as {companies: [{code, name}, ...]}.
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.service.ListCompanies(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	items := make([]companyListItemJSON, 0, len(companies))
	for _, company := range companies {
		items = append(items, companyListItemJSON{Code: company.Code, Name: company.Name})
	}
	c.JSON(http.StatusOK, gin.H{"companies": items})
}

// Get responds with a single company and the ids of its invoices.
func (h *CompanyHandler) Get(c *gin.Context) {
	detail, err := h.service.GetCompany(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": modelToCompanyDetailJSON(detail)})
}

// Create adds a company from {code, name, description} and responds 201.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: malformed request body", e.ErrInvalidInput))
		return
	}

	created, err := h.service.CreateCompany(c.Request.Context(), &models.Company{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": modelToCompanyJSON(created)})
}

// Update replaces a company's name and description.
func (h *CompanyHandler) Update(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: malformed request body", e.ErrInvalidInput))
		return
	}

	updated, err := h.service.UpdateCompany(c.Request.Context(), &models.CompanyUpdate{
		Code:        c.Param("code"),
		Name:        utils.Ptr(req.Name),
		Description: utils.Ptr(req.Description),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": modelToCompanyJSON(updated)})
}

// Delete removes a company by code.
func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteCompany(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
