package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/controllers"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/pdf"
	"github.com/yeremiapane/restaurant-manager/services"
)

func TestInvoiceEndpoints(t *testing.T) {
	db := setupTestDB(t)
	renderer := pdf.NewInvoiceRenderer(pdf.Restaurant{Name: "Chez Test"}, decimal.RequireFromString("0.10"))
	ic := controllers.NewInvoiceController(services.NewBillingService(db, kds.Nop, renderer))
	r := newEngine()
	r.POST("/api/invoices/order/:order_id", ic.GenerateInvoice)
	r.PATCH("/api/invoices/:id/pay", ic.PayInvoice)
	r.GET("/api/invoices/:id/pdf", ic.DownloadInvoicePDF)

	order := models.Order{Status: models.OrderServed, Total: decimal.NewFromInt(22)}
	require.NoError(t, db.Create(&order).Error)

	w, env := doJSON(t, r, http.MethodPost, "/api/invoices/order/1", nil)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	assert.Equal(t, "/api/invoices/1", w.Header().Get("Location"))

	w, _ = doJSON(t, r, http.MethodPost, "/api/invoices/order/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/api/invoices/1/pay", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/api/invoices/1/pay", map[string]string{"payment_method": "Gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodPatch, "/api/invoices/1/pay", map[string]string{"payment_method": "cheque"})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var res services.PaymentResult
	decode(t, env.Data, &res)
	assert.Equal(t, models.InvoicePaid, res.Invoice.Status)
	assert.Equal(t, models.OrderPaid, res.Order.Status)

	w, _ = doJSON(t, r, http.MethodPatch, "/api/invoices/1/pay", map[string]string{"payment_method": "Cash"})
	assert.Equal(t, http.StatusConflict, w.Code)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices/1/pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Invoice_000001.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}
