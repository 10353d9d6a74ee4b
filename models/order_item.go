package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine freezes the dish price at the time it was added.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	DishID    uint            `gorm:"not null;index" json:"dish_id"`
	Dish      *Dish           `gorm:"foreignKey:DishID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"dish,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
