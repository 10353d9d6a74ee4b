package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// InvoiceRenderer turns a fully loaded invoice into a printable document.
type InvoiceRenderer interface {
	Render(invoice *models.Invoice) ([]byte, error)
}

type BillingService struct {
	db       *gorm.DB
	notifier kds.Notifier
	renderer InvoiceRenderer
}

func NewBillingService(db *gorm.DB, notifier kds.Notifier, renderer InvoiceRenderer) *BillingService {
	return &BillingService{db: db, notifier: notifier, renderer: renderer}
}

// PaymentResult is everything that changed when an invoice was paid.
type PaymentResult struct {
	Invoice *models.Invoice `json:"invoice"`
	Order   *models.Order   `json:"order"`
	Table   *models.Table   `json:"table,omitempty"`
}

func (s *BillingService) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).Order("issued_at DESC").Find(&invoices).Error
	return invoices, utils.FromDB(err, "invoices")
}

func (s *BillingService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	db := s.db.WithContext(ctx).Preload("Order.Lines.Dish").Preload("Order.Table").Preload("Order.Client")
	if err := findByID(db, &invoice, id, "invoice"); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Generate issues the single invoice of an order, for its current total.
func (s *BillingService) Generate(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := findByID(tx, &order, orderID, "order"); err != nil {
			return err
		}
		if order.Status == models.OrderPaid {
			return utils.Conflictf("order %d is already paid", orderID)
		}
		invoiced, err := exists(tx, &models.Invoice{}, "order_id = ?", orderID)
		if err != nil {
			return err
		}
		if invoiced {
			return utils.Conflictf("an invoice already exists for order %d", orderID)
		}

		invoice = models.Invoice{
			OrderID:     order.ID,
			Date:        time.Now().UTC(),
			TotalAmount: order.Total,
			Status:      models.InvoiceUnpaid,
		}
		return utils.FromDB(tx.Create(&invoice).Error, "invoice")
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Pay settles the invoice, then marks its order Paid and frees its table,
// all in one transaction.
func (s *BillingService) Pay(ctx context.Context, invoiceID uint, methodName string) (*PaymentResult, error) {
	method, ok := models.ParsePaymentMethod(methodName)
	if !ok {
		return nil, utils.Invalidf("invalid payment method %q", methodName)
	}

	res := &PaymentResult{Invoice: &models.Invoice{}, Order: &models.Order{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, res.Invoice, invoiceID, "invoice"); err != nil {
			return err
		}
		if res.Invoice.Status == models.InvoicePaid {
			return utils.Conflictf("invoice %d is already paid", invoiceID)
		}
		if err := casUpdate(tx, &models.Invoice{}, invoiceID, res.Invoice.Version, map[string]interface{}{
			"status":         models.InvoicePaid,
			"payment_method": method,
		}, "invoice"); err != nil {
			return err
		}

		if err := findByID(tx, res.Order, res.Invoice.OrderID, "order"); err != nil {
			return err
		}
		if err := casUpdate(tx, &models.Order{}, res.Order.ID, res.Order.Version, map[string]interface{}{
			"status": models.OrderPaid,
		}, "order"); err != nil {
			return err
		}

		if res.Order.TableID != nil {
			var table models.Table
			if err := findByID(tx, &table, *res.Order.TableID, "table"); err != nil {
				return err
			}
			if err := casUpdate(tx, &models.Table{}, table.ID, table.Version, map[string]interface{}{
				"status": models.TableAvailable,
			}, "table"); err != nil {
				return err
			}
			if err := tx.First(&table, table.ID).Error; err != nil {
				return err
			}
			res.Table = &table
		}

		if err := tx.First(res.Invoice, invoiceID).Error; err != nil {
			return err
		}
		return tx.First(res.Order, res.Order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"invoice_id": res.Invoice.ID,
		"order_id":   res.Order.ID,
		"method":     method,
		"amount":     res.Invoice.TotalAmount.StringFixed(2),
	}).Info("Invoice paid")

	s.notifier.Notify(kds.EventInvoicePaid, res.Invoice)
	s.notifier.Notify(kds.EventOrderUpdate, res.Order)
	if res.Table != nil {
		s.notifier.Notify(kds.EventTableUpdate, res.Table)
	}
	return res, nil
}

// Delete removes an unpaid invoice so the order can be billed again.
func (s *BillingService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := findByID(tx, &invoice, id, "invoice"); err != nil {
			return err
		}
		if invoice.Status == models.InvoicePaid {
			return utils.Conflictf("invoice %d is paid and cannot be deleted", id)
		}
		return utils.FromDB(tx.Delete(&invoice).Error, "invoice")
	})
}

// RenderPDF returns the invoice document and its download name.
func (s *BillingService) RenderPDF(ctx context.Context, id uint) ([]byte, string, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.renderer.Render(invoice)
	if err != nil {
		return nil, "", fmt.Errorf("render invoice %d: %w", id, err)
	}
	return doc, fmt.Sprintf("Invoice_%06d.pdf", invoice.ID), nil
}
