package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-manager/services"
	"github.com/yeremiapane/restaurant-manager/utils"
)

type InvoiceController struct {
	Billing *services.BillingService
}

func NewInvoiceController(billing *services.BillingService) *InvoiceController {
	return &InvoiceController{Billing: billing}
}

func (ic *InvoiceController) GetAllInvoices(c *gin.Context) {
	invoices, err := ic.Billing.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of invoices", invoices)
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	invoice, err := ic.Billing.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice details", invoice)
}

func (ic *InvoiceController) DownloadInvoicePDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, filename, err := ic.Billing.RenderPDF(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (ic *InvoiceController) GenerateInvoice(c *gin.Context) {
	orderID, ok := paramID(c, "order_id")
	if !ok {
		return
	}
	invoice, err := ic.Billing.Generate(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.InfoLogger.Printf("Invoice %d generated for order %d", invoice.ID, orderID)
	utils.RespondCreated(c, fmt.Sprintf("/api/invoices/%d", invoice.ID), "Invoice generated successfully", invoice)
}

func (ic *InvoiceController) PayInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	res, err := ic.Billing.Pay(c.Request.Context(), id, body.PaymentMethod)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice paid", res)
}

func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ic.Billing.Delete(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice deleted", nil)
}
