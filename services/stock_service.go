package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// StockService manages ingredients and the stock row each of them owns.
type StockService struct {
	db       *gorm.DB
	notifier kds.Notifier
}

func NewStockService(db *gorm.DB, notifier kds.Notifier) *StockService {
	return &StockService{db: db, notifier: notifier}
}

type IngredientInput struct {
	Name           string  `json:"name"`
	Unit           *string `json:"unit"`
	AlertThreshold int     `json:"alert_threshold"`
}

func (in IngredientInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return utils.Invalidf("ingredient name is required")
	}
	if in.AlertThreshold < 0 {
		return utils.Invalidf("alert threshold cannot be negative")
	}
	return nil
}

// WithdrawResult reports the remaining stock and whether it reached the
// ingredient's alert threshold.
type WithdrawResult struct {
	Stock   *models.Stock `json:"stock"`
	Alert   bool          `json:"alert"`
	Message string        `json:"message,omitempty"`
}

func (s *StockService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).Preload("Stock").Order("name").Find(&ingredients).Error
	return ingredients, utils.FromDB(err, "ingredients")
}

func (s *StockService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := findByID(s.db.WithContext(ctx).Preload("Stock").Preload("Dishes"), &ingredient, id, "ingredient"); err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// IngredientsInAlert lists ingredients whose stock is at or below their threshold.
func (s *StockService) IngredientsInAlert(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).Preload("Stock").
		Joins("JOIN stocks ON stocks.ingredient_id = ingredients.id").
		Where("stocks.quantity <= ingredients.alert_threshold").
		Order("ingredients.name").Find(&ingredients).Error
	return ingredients, utils.FromDB(err, "ingredients")
}

// CreateIngredient creates the ingredient together with an empty stock.
func (s *StockService) CreateIngredient(ctx context.Context, in IngredientInput) (*models.Ingredient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ingredient := models.Ingredient{Name: in.Name, Unit: in.Unit, AlertThreshold: in.AlertThreshold}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ingredient).Error; err != nil {
			return utils.FromDB(err, "ingredient")
		}
		stock := models.Stock{IngredientID: ingredient.ID, Quantity: 0, LastUpdated: time.Now().UTC()}
		if err := tx.Create(&stock).Error; err != nil {
			return utils.FromDB(err, "stock")
		}
		ingredient.Stock = &stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *StockService) UpdateIngredient(ctx context.Context, id uint, in IngredientInput) (*models.Ingredient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &ingredient, id, "ingredient"); err != nil {
			return err
		}
		if err := tx.Model(&ingredient).Updates(map[string]interface{}{
			"name":            in.Name,
			"unit":            in.Unit,
			"alert_threshold": in.AlertThreshold,
		}).Error; err != nil {
			return err
		}
		return tx.Preload("Stock").First(&ingredient, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// DeleteIngredient removes the ingredient, its stock and its dish links.
func (s *StockService) DeleteIngredient(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := findByID(tx, &ingredient, id, "ingredient"); err != nil {
			return err
		}
		if err := tx.Model(&ingredient).Association("Dishes").Clear(); err != nil {
			return err
		}
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.Stock{}).Error; err != nil {
			return err
		}
		return utils.FromDB(tx.Delete(&ingredient).Error, "ingredient")
	})
}

func (s *StockService) ListStocks(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	err := s.db.WithContext(ctx).Preload("Ingredient").Order("id").Find(&stocks).Error
	return stocks, utils.FromDB(err, "stocks")
}

func (s *StockService) LowStocks(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	err := s.db.WithContext(ctx).Preload("Ingredient").
		Joins("JOIN ingredients ON ingredients.id = stocks.ingredient_id").
		Where("stocks.quantity <= ingredients.alert_threshold").
		Order("stocks.quantity").Find(&stocks).Error
	return stocks, utils.FromDB(err, "stocks")
}

func (s *StockService) GetStock(ctx context.Context, id uint) (*models.Stock, error) {
	var stock models.Stock
	if err := findByID(s.db.WithContext(ctx).Preload("Ingredient"), &stock, id, "stock"); err != nil {
		return nil, err
	}
	return &stock, nil
}

func (s *StockService) StockByIngredient(ctx context.Context, ingredientID uint) (*models.Stock, error) {
	var stock models.Stock
	err := s.db.WithContext(ctx).Preload("Ingredient").Where("ingredient_id = ?", ingredientID).First(&stock).Error
	if err != nil {
		return nil, utils.FromDB(err, "stock")
	}
	return &stock, nil
}

func (s *StockService) Add(ctx context.Context, id uint, amount int) (*models.Stock, error) {
	if amount <= 0 {
		return nil, utils.Invalidf("amount to add must be positive")
	}
	return s.update(ctx, id, func(stock *models.Stock) (int, error) {
		if amount > math.MaxInt-stock.Quantity {
			return 0, utils.Invalidf("adding %d to %d would overflow the stock quantity", amount, stock.Quantity)
		}
		return stock.Quantity + amount, nil
	})
}

func (s *StockService) Set(ctx context.Context, id uint, quantity int) (*models.Stock, error) {
	if quantity < 0 {
		return nil, utils.Invalidf("quantity cannot be negative")
	}
	return s.update(ctx, id, func(*models.Stock) (int, error) {
		return quantity, nil
	})
}

func (s *StockService) update(ctx context.Context, id uint, next func(*models.Stock) (int, error)) (*models.Stock, error) {
	var stock models.Stock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &stock, id, "stock"); err != nil {
			return err
		}
		quantity, err := next(&stock)
		if err != nil {
			return err
		}
		if err := casUpdate(tx, &models.Stock{}, id, stock.Version, map[string]interface{}{
			"quantity":     quantity,
			"last_updated": time.Now().UTC(),
		}, "stock"); err != nil {
			return err
		}
		return tx.Preload("Ingredient").First(&stock, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// Withdraw removes amount from the stock. The decrement is guarded in the
// database so concurrent withdrawals can never drive the quantity negative.
func (s *StockService) Withdraw(ctx context.Context, id uint, amount int) (*WithdrawResult, error) {
	if amount <= 0 {
		return nil, utils.Invalidf("amount to withdraw must be positive")
	}

	var stock models.Stock
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &stock, id, "stock"); err != nil {
			return err
		}
		if stock.Quantity < amount {
			return utils.Conflictf("insufficient stock: %d available, %d requested", stock.Quantity, amount)
		}

		result := tx.Model(&models.Stock{}).
			Where("id = ? AND quantity >= ?", id, amount).
			Updates(map[string]interface{}{
				"quantity":     gorm.Expr("quantity - ?", amount),
				"version":      gorm.Expr("version + 1"),
				"last_updated": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.Conflictf("insufficient stock for withdrawal of %d", amount)
		}
		return tx.Preload("Ingredient").First(&stock, id).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"stock_id": id, "amount": amount, "left": stock.Quantity}).Info("Stock withdrawn")

	res := &WithdrawResult{Stock: &stock}
	if stock.Ingredient != nil && stock.Low(stock.Ingredient.AlertThreshold) {
		res.Alert = true
		res.Message = fmt.Sprintf("stock of %s is low: %d left", stock.Ingredient.Name, stock.Quantity)
		s.notifier.Notify(kds.EventStockAlert, stock)
	}
	return res, nil
}
