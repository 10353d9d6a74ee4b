package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderOpen   OrderStatus = "Open"
	OrderInPrep OrderStatus = "InPrep"
	OrderReady  OrderStatus = "Ready"
	OrderServed OrderStatus = "Served"
	OrderPaid   OrderStatus = "Paid"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderInPrep, OrderReady, OrderServed, OrderPaid:
		return true
	}
	return false
}

// Order is a customer's order. Total always equals the sum of its lines.
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;default:'Open';index" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	ClientID  *uint           `gorm:"index" json:"client_id,omitempty"`
	Client    *Person         `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"client,omitempty"`
	ServerID  *uint           `gorm:"index" json:"server_id,omitempty"`
	Server    *Person         `gorm:"foreignKey:ServerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"server,omitempty"`
	CookID    *uint           `gorm:"index" json:"cook_id,omitempty"`
	Cook      *Person         `gorm:"foreignKey:CookID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"cook,omitempty"`
	TableID   *uint           `gorm:"index" json:"table_id,omitempty"`
	Table     *Table          `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"table,omitempty"`
	Lines     []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	Invoice   *Invoice        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"invoice,omitempty"`
	Version   uint            `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}
