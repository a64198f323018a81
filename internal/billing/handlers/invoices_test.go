package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/biztime/backend/internal/billing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceListShape(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	paidAt := time.Now()
	invoices.invoices[1] = &models.Invoice{
		ID: 1, CompCode: "apple", Amt: 100, Paid: true, AddDate: time.Now(), PaidDate: &paidAt,
	}
	router := setupRouter(t, companies, invoices)

	status, body := doJSON(t, router, http.MethodGet, "/invoices", nil)
	assert.Equal(t, http.StatusOK, status)

	list, ok := body["invoices"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	// only id and comp_code per entry, never amt/paid/date fields
	assert.Equal(t, map[string]any{"id": float64(1), "comp_code": "apple"}, list[0])
}

func TestGetInvoiceEmbedsCompany(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	invoices.companies = companies
	router := setupRouter(t, companies, invoices)

	status, _ := doJSON(t, router, http.MethodPost, "/companies", map[string]any{
		"code": "apple", "name": "Apple Inc.", "description": "Maker of iPhone",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, router, http.MethodPost, "/invoices", map[string]any{
		"comp_code": "apple", "amt": 100,
	})
	require.Equal(t, http.StatusOK, status)
	id := body["invoice"].(map[string]any)["id"].(float64)

	status, body = doJSON(t, router, http.MethodGet, "/invoices/1", nil)
	assert.Equal(t, http.StatusOK, status)

	invoice := body["invoice"].(map[string]any)
	assert.Equal(t, id, invoice["id"])
	assert.Equal(t, float64(100), invoice["amt"])
	assert.Equal(t, false, invoice["paid"])
	assert.Nil(t, invoice["paid_date"])
	assert.NotContains(t, invoice, "comp_code", "the joined shape nests the company instead of a flat comp_code")
	assert.Equal(t, map[string]any{
		"code": "apple", "name": "Apple Inc.", "description": "Maker of iPhone",
	}, invoice["company"])
}

func TestGetInvoiceNotFound(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	router := setupRouter(t, companies, invoices)

	status, body := doJSON(t, router, http.MethodGet, "/invoices/42", nil)
	assert.Equal(t, http.StatusNotFound, status)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, float64(http.StatusNotFound), errBody["status"])
}

func TestGetInvoiceInvalidID(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	router := setupRouter(t, companies, invoices)

	status, body := doJSON(t, router, http.MethodGet, "/invoices/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, float64(http.StatusBadRequest), errBody["status"])
}

func TestInvoicePaymentScenario(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	companies.companies["testco"] = &models.Company{Code: "testco", Name: "Test Co"}
	router := setupRouter(t, companies, invoices)

	today := time.Now().Format("2006-01-02")

	// Create: unpaid, no paid date
	status, body := doJSON(t, router, http.MethodPost, "/invoices", map[string]any{
		"comp_code": "testco", "amt": 50,
	})
	require.Equal(t, http.StatusOK, status)
	invoice := body["invoice"].(map[string]any)
	assert.Equal(t, "testco", invoice["comp_code"])
	assert.Equal(t, false, invoice["paid"])
	assert.Nil(t, invoice["paid_date"])
	assert.Equal(t, today, invoice["add_date"])

	// Pay: paid date becomes today
	status, body = doJSON(t, router, http.MethodPut, "/invoices/1", map[string]any{
		"amt": 50, "paid": true,
	})
	require.Equal(t, http.StatusOK, status)
	invoice = body["invoice"].(map[string]any)
	assert.Equal(t, true, invoice["paid"])
	assert.Equal(t, today, invoice["paid_date"])

	// Redundant pay: paid date unchanged
	status, body = doJSON(t, router, http.MethodPut, "/invoices/1", map[string]any{
		"amt": 50, "paid": true,
	})
	require.Equal(t, http.StatusOK, status)
	invoice = body["invoice"].(map[string]any)
	assert.Equal(t, today, invoice["paid_date"])

	// Un-pay: paid date cleared
	status, body = doJSON(t, router, http.MethodPut, "/invoices/1", map[string]any{
		"amt": 50, "paid": false,
	})
	require.Equal(t, http.StatusOK, status)
	invoice = body["invoice"].(map[string]any)
	assert.Equal(t, false, invoice["paid"])
	assert.Nil(t, invoice["paid_date"])
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	router := setupRouter(t, companies, invoices)

	status, _ := doJSON(t, router, http.MethodPut, "/invoices/42", map[string]any{
		"amt": 50, "paid": true,
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteInvoice(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	invoices.invoices[1] = &models.Invoice{ID: 1, CompCode: "testco", Amt: 50, AddDate: time.Now()}
	router := setupRouter(t, companies, invoices)

	status, body := doJSON(t, router, http.MethodDelete, "/invoices/1", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"message": "Deleted"}, body)

	status, _ = doJSON(t, router, http.MethodDelete, "/invoices/1", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateInvoiceMalformedBody(t *testing.T) {
	invoices := newFakeInvoiceService()
	companies := newFakeCompanyService(invoices)
	router := setupRouter(t, companies, invoices)

	status, body := doJSON(t, router, http.MethodPost, "/invoices", map[string]any{
		"comp_code": "testco", "amt": "not a number",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, float64(http.StatusBadRequest), errBody["status"])
}
