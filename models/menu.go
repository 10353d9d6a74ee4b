package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dish struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    *string         `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Available   bool            `gorm:"not null" json:"available"`
	Ingredients []Ingredient    `gorm:"many2many:dish_ingredients;" json:"ingredients,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

type Ingredient struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Unit           *string   `gorm:"type:varchar(20)" json:"unit,omitempty"`
	AlertThreshold int       `gorm:"not null;default:0" json:"alert_threshold"`
	Stock          *Stock    `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"stock,omitempty"`
	Dishes         []Dish    `gorm:"many2many:dish_ingredients;" json:"dishes,omitempty"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// Stock holds the on-hand quantity of exactly one ingredient.
type Stock struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	IngredientID uint        `gorm:"not null;uniqueIndex" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Quantity     int         `gorm:"not null;default:0" json:"quantity"`
	LastUpdated  time.Time   `gorm:"not null" json:"last_updated"`
	Version      uint        `gorm:"not null;default:0" json:"version"`
}

// Low reports whether the quantity has fallen to the ingredient's alert threshold.
func (s Stock) Low(threshold int) bool {
	return s.Quantity <= threshold
}
