package services

import (
	"context"

	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

type TableService struct {
	db       *gorm.DB
	notifier kds.Notifier
}

func NewTableService(db *gorm.DB, notifier kds.Notifier) *TableService {
	return &TableService{db: db, notifier: notifier}
}

type TableInput struct {
	Number   int                `json:"number"`
	Capacity int                `json:"capacity"`
	Status   models.TableStatus `json:"status"`
}

func (in *TableInput) validate() error {
	if in.Number <= 0 {
		return utils.Invalidf("table number must be positive")
	}
	if in.Capacity <= 0 {
		return utils.Invalidf("table capacity must be positive")
	}
	if in.Status != "" && !in.Status.Valid() {
		return utils.Invalidf("invalid table status %q", in.Status)
	}
	return nil
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).Order("number").Find(&tables).Error
	return tables, utils.FromDB(err, "tables")
}

func (s *TableService) Available(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).Where("status = ?", models.TableAvailable).Order("number").Find(&tables).Error
	return tables, utils.FromDB(err, "tables")
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := findByID(s.db.WithContext(ctx), &table, id, "table"); err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *TableService) Create(ctx context.Context, in TableInput) (*models.Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	table := models.Table{Number: in.Number, Capacity: in.Capacity, Status: in.Status}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Table{}, "number = ?", in.Number)
		if err != nil {
			return err
		}
		if taken {
			return utils.Conflictf("table number %d already exists", in.Number)
		}
		return utils.FromDB(tx.Create(&table).Error, "table")
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(kds.EventTableUpdate, table)
	return &table, nil
}

func (s *TableService) Update(ctx context.Context, id uint, in TableInput) (*models.Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var table models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &table, id, "table"); err != nil {
			return err
		}
		taken, err := exists(tx, &models.Table{}, "number = ? AND id <> ?", in.Number, id)
		if err != nil {
			return err
		}
		if taken {
			return utils.Conflictf("table number %d already exists", in.Number)
		}
		status := in.Status
		if status == "" {
			status = table.Status
		}
		if err := casUpdate(tx, &models.Table{}, id, table.Version, map[string]interface{}{
			"number":   in.Number,
			"capacity": in.Capacity,
			"status":   status,
		}, "table"); err != nil {
			return err
		}
		return tx.First(&table, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(kds.EventTableUpdate, table)
	return &table, nil
}

func (s *TableService) SetStatus(ctx context.Context, id uint, status models.TableStatus) (*models.Table, error) {
	if !status.Valid() {
		return nil, utils.Invalidf("invalid table status %q", status)
	}

	var table models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &table, id, "table"); err != nil {
			return err
		}
		if err := casUpdate(tx, &models.Table{}, id, table.Version, map[string]interface{}{"status": status}, "table"); err != nil {
			return err
		}
		return tx.First(&table, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(kds.EventTableUpdate, table)
	return &table, nil
}

// Delete removes a table and its reservations. Orders keep their history
// with the table reference cleared.
func (s *TableService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := findByID(tx, &table, id, "table"); err != nil {
			return err
		}
		if err := tx.Where("table_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("table_id = ?", id).Update("table_id", nil).Error; err != nil {
			return err
		}
		return utils.FromDB(tx.Delete(&table).Error, "table")
	})
}
