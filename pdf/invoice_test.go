package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-manager/models"
)

func TestSplitVAT(t *testing.T) {
	r := NewInvoiceRenderer(Restaurant{Name: "Chez Test"}, decimal.RequireFromString("0.10"))

	net, vat := r.Split(decimal.RequireFromString("22.00"))
	assert.True(t, net.Equal(decimal.RequireFromString("20.00")), "net = %s", net)
	assert.True(t, vat.Equal(decimal.RequireFromString("2.00")), "vat = %s", vat)
}

func TestRenderInvoice(t *testing.T) {
	r := NewInvoiceRenderer(Restaurant{Name: "Chez Léon", Address: "1 rue de la Paix", Phone: "0102030405"}, decimal.RequireFromString("0.10"))

	category := "Main"
	method := models.PaymentCard
	invoice := &models.Invoice{
		ID:            42,
		OrderID:       7,
		Date:          time.Date(2024, 1, 15, 20, 30, 0, 0, time.UTC),
		TotalAmount:   decimal.RequireFromString("20.00"),
		PaymentMethod: &method,
		Status:        models.InvoicePaid,
		Order: &models.Order{
			ID:     7,
			Table:  &models.Table{Number: 3},
			Client: &models.Person{Name: "Zoé", Surname: "Martin"},
			Lines: []models.OrderLine{{
				DishID:    1,
				Dish:      &models.Dish{Name: "Crème brûlée", Category: &category},
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("10.00"),
			}},
		},
	}

	doc, err := r.Render(invoice)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderInvoiceWithoutOrder(t *testing.T) {
	r := NewInvoiceRenderer(Restaurant{Name: "Restaurant"}, decimal.Zero)

	doc, err := r.Render(&models.Invoice{ID: 1, TotalAmount: decimal.Zero, Status: models.InvoiceUnpaid})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
