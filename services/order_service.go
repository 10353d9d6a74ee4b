package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-manager/kds"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// nextStatus holds the only forward step allowed from each kitchen status.
// Paid is reached exclusively through invoice payment.
var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderOpen:   models.OrderInPrep,
	models.OrderInPrep: models.OrderReady,
	models.OrderReady:  models.OrderServed,
}

type OrderService struct {
	db       *gorm.DB
	notifier kds.Notifier
}

func NewOrderService(db *gorm.DB, notifier kds.Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

type CreateOrderInput struct {
	TableID  *uint `json:"table_id"`
	ClientID *uint `json:"client_id"`
	ServerID *uint `json:"server_id"`
}

type StatusChange struct {
	Status models.OrderStatus `json:"status"`
	CookID *uint              `json:"cook_id"`
	// Override lets a manager set any status except Paid.
	Override bool `json:"override"`
}

func detailed(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id") }).
		Preload("Lines.Dish").Preload("Table").Preload("Client").Preload("Server").Preload("Cook").Preload("Invoice")
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Table").Order("created_at DESC").Find(&orders).Error
	return orders, utils.FromDB(err, "orders")
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := findByID(detailed(s.db.WithContext(ctx)), &order, id, "order"); err != nil {
		return nil, err
	}
	return &order, nil
}

// InProgress lists the orders the kitchen still has to deliver.
func (s *OrderService) InProgress(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := detailed(s.db.WithContext(ctx)).
		Where("status IN ?", []models.OrderStatus{models.OrderOpen, models.OrderInPrep, models.OrderReady}).
		Order("created_at").Find(&orders).Error
	return orders, utils.FromDB(err, "orders")
}

func (s *OrderService) ByTable(ctx context.Context, tableID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Lines.Dish").Where("table_id = ?", tableID).Order("created_at DESC").Find(&orders).Error
	return orders, utils.FromDB(err, "orders")
}

// Create opens an order, seating it at the table when one is given.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	order := models.Order{
		Status:   models.OrderOpen,
		Total:    decimal.Zero,
		TableID:  in.TableID,
		ClientID: in.ClientID,
		ServerID: in.ServerID,
	}

	var table models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ClientID != nil {
			if err := findPerson(tx, &models.Person{}, *in.ClientID, models.KindClient); err != nil {
				return err
			}
		}
		if in.ServerID != nil {
			if err := findPerson(tx, &models.Person{}, *in.ServerID, models.KindServer); err != nil {
				return err
			}
		}
		if in.TableID != nil {
			if err := findByID(tx, &table, *in.TableID, "table"); err != nil {
				return err
			}
			if table.Status != models.TableOccupied {
				if err := casUpdate(tx, &models.Table{}, table.ID, table.Version, map[string]interface{}{
					"status": models.TableOccupied,
				}, "table"); err != nil {
					return err
				}
				table.Status = models.TableOccupied
				table.Version++
			}
		}
		if err := tx.Create(&order).Error; err != nil {
			return utils.FromDB(err, "order")
		}
		return detailed(tx).First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"order_id": order.ID, "table_id": in.TableID}).Info("Order opened")

	s.notifier.Notify(kds.EventOrderUpdate, order)
	if in.TableID != nil {
		s.notifier.Notify(kds.EventTableUpdate, table)
	}
	return &order, nil
}

// AddLine appends a dish at its current price and recomputes the total.
func (s *OrderService) AddLine(ctx context.Context, orderID, dishID uint, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, utils.Invalidf("quantity must be positive")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadMutable(tx, &order, orderID); err != nil {
			return err
		}
		var dish models.Dish
		if err := findByID(tx, &dish, dishID, "dish"); err != nil {
			return err
		}
		if !dish.Available {
			return utils.Invalidf("dish %q is not available", dish.Name)
		}

		line := models.OrderLine{OrderID: order.ID, DishID: dish.ID, Quantity: quantity, UnitPrice: dish.Price}
		if err := tx.Create(&line).Error; err != nil {
			return utils.FromDB(err, "order line")
		}
		if err := recomputeTotal(tx, &order); err != nil {
			return err
		}
		return detailed(tx).First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(kds.EventOrderUpdate, order)
	return &order, nil
}

func (s *OrderService) RemoveLine(ctx context.Context, orderID, lineID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadMutable(tx, &order, orderID); err != nil {
			return err
		}
		var line models.OrderLine
		if err := findByID(tx, &line, lineID, "order line"); err != nil {
			return err
		}
		if line.OrderID != orderID {
			return utils.NotFoundf("order line not found")
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		if err := recomputeTotal(tx, &order); err != nil {
			return err
		}
		return detailed(tx).First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(kds.EventOrderUpdate, order)
	return &order, nil
}

func (s *OrderService) ListLines(ctx context.Context, orderID *uint) ([]models.OrderLine, error) {
	db := s.db.WithContext(ctx).Preload("Dish")
	if orderID != nil {
		db = db.Where("order_id = ?", *orderID)
	}
	var lines []models.OrderLine
	err := db.Order("id").Find(&lines).Error
	return lines, utils.FromDB(err, "order lines")
}

func (s *OrderService) GetLine(ctx context.Context, id uint) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := findByID(s.db.WithContext(ctx).Preload("Dish"), &line, id, "order line"); err != nil {
		return nil, err
	}
	return &line, nil
}

// ChangeStatus moves the order along Open, InPrep, Ready, Served.
// Preparation needs a cook, and a cook can only be assigned at that step.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, change StatusChange) (*models.Order, error) {
	if !change.Status.Valid() {
		return nil, utils.Invalidf("invalid order status %q", change.Status)
	}
	if change.Status == models.OrderPaid {
		return nil, utils.InvalidTransitionf("orders are paid through their invoice")
	}
	if change.Status == models.OrderInPrep && change.CookID == nil && !change.Override {
		return nil, utils.Invalidf("a cook is required to start preparation")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &order, orderID, "order"); err != nil {
			return err
		}
		if order.Status == models.OrderPaid {
			return utils.InvalidTransitionf("order %d is already paid", orderID)
		}
		if !change.Override && nextStatus[order.Status] != change.Status {
			return utils.InvalidTransitionf("cannot move order from %s to %s", order.Status, change.Status)
		}

		values := map[string]interface{}{"status": change.Status}
		if change.CookID != nil {
			if change.Status != models.OrderInPrep {
				return utils.Invalidf("a cook can only be assigned when preparation starts")
			}
			if err := findPerson(tx, &models.Person{}, *change.CookID, models.KindCook); err != nil {
				return err
			}
			values["cook_id"] = *change.CookID
		}
		if err := casUpdate(tx, &models.Order{}, orderID, order.Version, values, "order"); err != nil {
			return err
		}
		return detailed(tx).First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}

	entry := utils.InfoLogger.WithFields(logrus.Fields{"order_id": orderID, "status": change.Status})
	if change.Override {
		entry.Warn("Order status overridden by manager")
	} else {
		entry.Info("Order status changed")
	}

	s.notifier.Notify(kds.EventOrderUpdate, order)
	return &order, nil
}

// Delete removes the order with its lines and invoice. The table is freed
// when no other unpaid order remains on it.
func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	var (
		table    models.Table
		released bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := findByID(tx, &order, orderID, "order"); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return utils.FromDB(err, "order")
		}
		if order.TableID == nil {
			return nil
		}

		busy, err := exists(tx, &models.Order{}, "table_id = ? AND status <> ?", *order.TableID, models.OrderPaid)
		if err != nil || busy {
			return err
		}
		if err := tx.First(&table, *order.TableID).Error; err != nil {
			return utils.FromDB(err, "table")
		}
		if table.Status != models.TableOccupied {
			return nil
		}
		if err := casUpdate(tx, &models.Table{}, table.ID, table.Version, map[string]interface{}{
			"status": models.TableAvailable,
		}, "table"); err != nil {
			return err
		}
		table.Status = models.TableAvailable
		table.Version++
		released = true
		return nil
	})
	if err != nil {
		return err
	}

	if released {
		s.notifier.Notify(kds.EventTableUpdate, table)
	}
	return nil
}

// loadMutable loads an order whose lines may still change.
func loadMutable(tx *gorm.DB, order *models.Order, id uint) error {
	if err := findByID(tx, order, id, "order"); err != nil {
		return err
	}
	if order.Status == models.OrderPaid {
		return utils.Conflictf("order %d is already paid", id)
	}
	invoiced, err := exists(tx, &models.Invoice{}, "order_id = ?", id)
	if err != nil {
		return err
	}
	if invoiced {
		return utils.Conflictf("order %d has already been invoiced", id)
	}
	return nil
}

// recomputeTotal sets the order total to the sum of its persisted lines.
func recomputeTotal(tx *gorm.DB, order *models.Order) error {
	var lines []models.OrderLine
	if err := tx.Where("order_id = ?", order.ID).Find(&lines).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	if total.IsNegative() {
		return utils.Conflictf("order total cannot be negative")
	}

	if err := casUpdate(tx, &models.Order{}, order.ID, order.Version, map[string]interface{}{
		"total":      total,
		"updated_at": time.Now().UTC(),
	}, "order"); err != nil {
		return err
	}
	order.Total = total
	order.Version++
	return nil
}
