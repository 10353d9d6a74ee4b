package database

import (
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
var Models = []interface{}{
	&models.Table{},
	&models.Person{},
	&models.Account{},
	&models.Ingredient{},
	&models.Stock{},
	&models.Dish{},
	&models.Order{},
	&models.OrderLine{},
	&models.Invoice{},
	&models.Reservation{},
	&models.Planning{},
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
