package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReservationService struct {
	db *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db}
}

type ReservationInput struct {
	ClientID  uint
	TableID   uint
	Date      datatypes.Date
	Time      datatypes.Time
	PartySize int
}

func (s *ReservationService) List(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).Preload("Client").Preload("Table").
		Order("reservation_date, reservation_time").Find(&reservations).Error
	return reservations, utils.FromDB(err, "reservations")
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := findByID(s.db.WithContext(ctx).Preload("Client").Preload("Table"), &reservation, id, "reservation"); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *ReservationService) ByDate(ctx context.Context, date datatypes.Date) ([]models.Reservation, error) {
	start, end := utils.DayRange(date)
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).Preload("Client").Preload("Table").
		Where("reservation_date >= ? AND reservation_date < ?", start, end).
		Order("reservation_time").Find(&reservations).Error
	return reservations, utils.FromDB(err, "reservations")
}

// Create books a table. A table holds at most one live reservation per
// date and time, and cancelled ones free the slot.
func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	if in.PartySize <= 0 {
		return nil, utils.Invalidf("party size must be positive")
	}
	in.Date = utils.DayOf(time.Time(in.Date))

	reservation := models.Reservation{
		ClientID:  in.ClientID,
		TableID:   in.TableID,
		Date:      in.Date,
		Time:      in.Time,
		PartySize: in.PartySize,
		Status:    models.ReservationPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkBooking(tx, in, 0, true); err != nil {
			return err
		}
		return utils.FromDB(tx.Create(&reservation).Error, "reservation")
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *ReservationService) Update(ctx context.Context, id uint, in ReservationInput) (*models.Reservation, error) {
	if in.PartySize <= 0 {
		return nil, utils.Invalidf("party size must be positive")
	}
	in.Date = utils.DayOf(time.Time(in.Date))

	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &reservation, id, "reservation"); err != nil {
			return err
		}
		live := reservation.Status != models.ReservationCancelled
		if err := checkBooking(tx, in, id, live); err != nil {
			return err
		}
		if err := casUpdate(tx, &models.Reservation{}, id, reservation.Version, map[string]interface{}{
			"client_id":        in.ClientID,
			"table_id":         in.TableID,
			"reservation_date": in.Date,
			"reservation_time": in.Time,
			"party_size":       in.PartySize,
		}, "reservation"); err != nil {
			return err
		}
		return tx.First(&reservation, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Confirm moves Pending to Confirmed. Confirming twice is a no-op.
func (s *ReservationService) Confirm(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationConfirmed, func(from models.ReservationStatus) error {
		if from == models.ReservationCancelled {
			return utils.InvalidTransitionf("a cancelled reservation cannot be confirmed")
		}
		return nil
	})
}

// Cancel releases the slot. Cancelling twice is a no-op.
func (s *ReservationService) Cancel(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.transition(ctx, id, models.ReservationCancelled, func(models.ReservationStatus) error {
		return nil
	})
}

func (s *ReservationService) transition(ctx context.Context, id uint, to models.ReservationStatus, allowed func(models.ReservationStatus) error) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &reservation, id, "reservation"); err != nil {
			return err
		}
		if reservation.Status == to {
			return nil
		}
		if err := allowed(reservation.Status); err != nil {
			return err
		}
		if err := casUpdate(tx, &models.Reservation{}, id, reservation.Version, map[string]interface{}{
			"status": to,
		}, "reservation"); err != nil {
			return err
		}
		return tx.First(&reservation, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := findByID(tx, &reservation, id, "reservation"); err != nil {
			return err
		}
		return utils.FromDB(tx.Delete(&reservation).Error, "reservation")
	})
}

// checkBooking validates the table, client and capacity of a booking. When
// the booking holds its slot, it also checks the slot, ignoring excludeID.
func checkBooking(tx *gorm.DB, in ReservationInput, excludeID uint, holdsSlot bool) error {
	var table models.Table
	if err := findByID(tx, &table, in.TableID, "table"); err != nil {
		return err
	}
	if err := findPerson(tx, &models.Person{}, in.ClientID, models.KindClient); err != nil {
		return err
	}
	if in.PartySize > table.Capacity {
		return utils.Invalidf("party of %d exceeds table capacity of %d", in.PartySize, table.Capacity)
	}
	if !holdsSlot {
		return nil
	}

	start, end := utils.DayRange(in.Date)
	var sameDay []models.Reservation
	err := tx.Where("table_id = ? AND status <> ? AND id <> ? AND reservation_date >= ? AND reservation_date < ?",
		in.TableID, models.ReservationCancelled, excludeID, start, end).Find(&sameDay).Error
	if err != nil {
		return err
	}
	for _, r := range sameDay {
		if r.Time == in.Time {
			return utils.Conflictf("table %d is already reserved on %s at %s",
				table.Number, time.Time(in.Date).Format(utils.DateLayout), in.Time.String())
		}
	}
	return nil
}
