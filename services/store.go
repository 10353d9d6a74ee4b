package services

import (
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// casUpdate writes values only if the row still carries the version the
// caller read, and bumps it. A lost race is reported as a conflict.
func casUpdate(tx *gorm.DB, model interface{}, id, version uint, values map[string]interface{}, what string) error {
	values["version"] = version + 1
	result := tx.Model(model).Where("id = ? AND version = ?", id, version).Updates(values)
	if result.Error != nil {
		return utils.FromDB(result.Error, what)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return utils.FromDB(err, what)
	}
	if count == 0 {
		return utils.NotFoundf("%s not found", what)
	}
	return utils.Conflictf("%s was modified concurrently", what)
}

func findByID(tx *gorm.DB, dst interface{}, id uint, what string) error {
	return utils.FromDB(tx.First(dst, id).Error, what)
}

func exists(tx *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
