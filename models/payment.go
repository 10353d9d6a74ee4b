package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "Unpaid"
	InvoicePaid   InvoiceStatus = "Paid"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentCheque PaymentMethod = "Cheque"
)

// ParsePaymentMethod matches a method name regardless of case.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for _, m := range []PaymentMethod{PaymentCash, PaymentCard, PaymentCheque} {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, true
		}
	}
	return "", false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCheque:
		return true
	}
	return false
}

type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;uniqueIndex" json:"order_id"`
	Order         *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Date          time.Time       `gorm:"column:issued_at;not null;index" json:"date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod *PaymentMethod  `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'Unpaid'" json:"status"`
	Version       uint            `gorm:"not null;default:0" json:"version"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}
