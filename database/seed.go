package database

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seed fills an empty database with a dining room, a small menu and,
// when credentials are given, a manager account. It is idempotent.
func Seed(db *gorm.DB, opts SeedOptions) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedManager(tx, opts); err != nil {
			return err
		}

		var tables int64
		if err := tx.Model(&models.Table{}).Count(&tables).Error; err != nil {
			return err
		}
		if tables > 0 {
			utils.InfoLogger.Println("Seed skipped: tables already present")
			return nil
		}

		for i, capacity := range []int{2, 2, 4, 4, 6, 8} {
			table := models.Table{Number: i + 1, Capacity: capacity, Status: models.TableAvailable}
			if err := tx.Create(&table).Error; err != nil {
				return err
			}
		}

		ingredients := map[string]*models.Ingredient{}
		for _, seed := range []struct {
			name      string
			unit      string
			threshold int
			quantity  int
		}{
			{"Tomato", "kg", 5, 20},
			{"Mozzarella", "kg", 3, 10},
			{"Flour", "kg", 10, 40},
			{"Beef", "kg", 5, 15},
		} {
			unit := seed.unit
			ing := &models.Ingredient{Name: seed.name, Unit: &unit, AlertThreshold: seed.threshold}
			if err := tx.Create(ing).Error; err != nil {
				return err
			}
			stock := models.Stock{IngredientID: ing.ID, Quantity: seed.quantity, LastUpdated: time.Now().UTC()}
			if err := tx.Create(&stock).Error; err != nil {
				return err
			}
			ingredients[seed.name] = ing
		}

		for _, seed := range []struct {
			name        string
			category    string
			price       string
			ingredients []string
		}{
			{"Margherita", "Pizza", "9.50", []string{"Tomato", "Mozzarella", "Flour"}},
			{"Beef Burger", "Main", "12.00", []string{"Beef", "Tomato"}},
			{"Tomato Soup", "Starter", "6.00", []string{"Tomato"}},
		} {
			category := seed.category
			dish := models.Dish{
				Name:      seed.name,
				Category:  &category,
				Price:     decimal.RequireFromString(seed.price),
				Available: true,
			}
			for _, name := range seed.ingredients {
				dish.Ingredients = append(dish.Ingredients, *ingredients[name])
			}
			if err := tx.Create(&dish).Error; err != nil {
				return err
			}
		}

		utils.InfoLogger.Println("Seed data inserted")
		return nil
	})
}

func seedManager(tx *gorm.DB, opts SeedOptions) error {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		utils.InfoLogger.Println("Skip seeding manager: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))

	var count int64
	if err := tx.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	position := "Manager"
	person := models.Person{Kind: models.KindManager, Name: "Admin", Surname: "Seed", HireDate: &now, Position: &position}
	if err := tx.Create(&person).Error; err != nil {
		return err
	}
	return tx.Create(&models.Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleManager,
		PersonID:     &person.ID,
	}).Error
}
