package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

type DishService struct {
	db *gorm.DB
}

func NewDishService(db *gorm.DB) *DishService {
	return &DishService{db: db}
}

type DishInput struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category"`
	Available   *bool           `json:"available"`
}

func (in DishInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return utils.Invalidf("dish name is required")
	}
	if in.Price.IsNegative() {
		return utils.Invalidf("dish price cannot be negative")
	}
	return nil
}

func (s *DishService) List(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	err := s.db.WithContext(ctx).Preload("Ingredients").Order("name").Find(&dishes).Error
	return dishes, utils.FromDB(err, "dishes")
}

func (s *DishService) Available(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	err := s.db.WithContext(ctx).Where("available = ?", true).Order("name").Find(&dishes).Error
	return dishes, utils.FromDB(err, "dishes")
}

func (s *DishService) ByCategory(ctx context.Context, category string) ([]models.Dish, error) {
	var dishes []models.Dish
	err := s.db.WithContext(ctx).Where("category = ?", category).Order("name").Find(&dishes).Error
	return dishes, utils.FromDB(err, "dishes")
}

func (s *DishService) Get(ctx context.Context, id uint) (*models.Dish, error) {
	var dish models.Dish
	if err := findByID(s.db.WithContext(ctx).Preload("Ingredients.Stock"), &dish, id, "dish"); err != nil {
		return nil, err
	}
	return &dish, nil
}

func (s *DishService) Create(ctx context.Context, in DishInput) (*models.Dish, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	dish := models.Dish{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Available:   in.Available == nil || *in.Available,
	}
	if err := s.db.WithContext(ctx).Create(&dish).Error; err != nil {
		return nil, utils.FromDB(err, "dish")
	}
	return &dish, nil
}

// Update changes the catalogue entry. Lines already ordered keep the price
// they were taken at.
func (s *DishService) Update(ctx context.Context, id uint, in DishInput) (*models.Dish, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var dish models.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &dish, id, "dish"); err != nil {
			return err
		}
		dish.Name = in.Name
		dish.Description = in.Description
		dish.Price = in.Price
		dish.Category = in.Category
		if in.Available != nil {
			dish.Available = *in.Available
		}
		return utils.FromDB(tx.Omit("Ingredients").Save(&dish).Error, "dish")
	})
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (s *DishService) SetAvailability(ctx context.Context, id uint, available bool) (*models.Dish, error) {
	var dish models.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &dish, id, "dish"); err != nil {
			return err
		}
		if err := tx.Model(&dish).Update("available", available).Error; err != nil {
			return err
		}
		dish.Available = available
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (s *DishService) AddIngredient(ctx context.Context, dishID, ingredientID uint) (*models.Dish, error) {
	var dish models.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &dish, dishID, "dish"); err != nil {
			return err
		}
		var ingredient models.Ingredient
		if err := findByID(tx, &ingredient, ingredientID, "ingredient"); err != nil {
			return err
		}
		if err := tx.Model(&dish).Association("Ingredients").Append(&ingredient); err != nil {
			return err
		}
		return tx.Preload("Ingredients").First(&dish, dishID).Error
	})
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// Delete refuses to remove a dish that appears on any order line.
func (s *DishService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dish models.Dish
		if err := findByID(tx, &dish, id, "dish"); err != nil {
			return err
		}
		ordered, err := exists(tx, &models.OrderLine{}, "dish_id = ?", id)
		if err != nil {
			return err
		}
		if ordered {
			return utils.Conflictf("dish %d is referenced by order lines", id)
		}
		if err := tx.Model(&dish).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return utils.FromDB(tx.Delete(&dish).Error, "dish")
	})
}
