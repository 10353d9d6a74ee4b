package services

import (
	"context"
	"time"

	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanningService struct {
	db *gorm.DB
}

func NewPlanningService(db *gorm.DB) *PlanningService {
	return &PlanningService{db: db}
}

type ShiftInput struct {
	EmployeeID uint
	Date       datatypes.Date
	Start      datatypes.Time
	End        datatypes.Time
}

func (s *PlanningService) List(ctx context.Context) ([]models.Planning, error) {
	var shifts []models.Planning
	err := s.db.WithContext(ctx).Preload("Employee").Order("shift_date, start_time").Find(&shifts).Error
	return shifts, utils.FromDB(err, "plannings")
}

func (s *PlanningService) Get(ctx context.Context, id uint) (*models.Planning, error) {
	var shift models.Planning
	if err := findByID(s.db.WithContext(ctx).Preload("Employee"), &shift, id, "planning"); err != nil {
		return nil, err
	}
	return &shift, nil
}

func (s *PlanningService) ByDate(ctx context.Context, date datatypes.Date) ([]models.Planning, error) {
	start, end := utils.DayRange(date)
	return s.between(ctx, start, end)
}

// Week lists the shifts from the Monday of date's week to the next Monday.
func (s *PlanningService) Week(ctx context.Context, date datatypes.Date) ([]models.Planning, error) {
	start := time.Time(utils.WeekStart(date))
	return s.between(ctx, start, start.AddDate(0, 0, 7))
}

func (s *PlanningService) between(ctx context.Context, start, end time.Time) ([]models.Planning, error) {
	var shifts []models.Planning
	err := s.db.WithContext(ctx).Preload("Employee").
		Where("shift_date >= ? AND shift_date < ?", start, end).
		Order("shift_date, start_time").Find(&shifts).Error
	return shifts, utils.FromDB(err, "plannings")
}

func (s *PlanningService) Create(ctx context.Context, in ShiftInput) (*models.Planning, error) {
	in.Date = utils.DayOf(time.Time(in.Date))
	shift := models.Planning{EmployeeID: in.EmployeeID, Date: in.Date, Start: in.Start, End: in.End}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkShift(tx, in, 0); err != nil {
			return err
		}
		return utils.FromDB(tx.Create(&shift).Error, "planning")
	})
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (s *PlanningService) Update(ctx context.Context, id uint, in ShiftInput) (*models.Planning, error) {
	in.Date = utils.DayOf(time.Time(in.Date))
	var shift models.Planning
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(tx, &shift, id, "planning"); err != nil {
			return err
		}
		if err := checkShift(tx, in, id); err != nil {
			return err
		}
		shift.EmployeeID = in.EmployeeID
		shift.Date = in.Date
		shift.Start = in.Start
		shift.End = in.End
		return utils.FromDB(tx.Omit("Employee").Save(&shift).Error, "planning")
	})
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (s *PlanningService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shift models.Planning
		if err := findByID(tx, &shift, id, "planning"); err != nil {
			return err
		}
		return tx.Delete(&shift).Error
	})
}

// checkShift rejects shifts that end before they start or overlap another
// shift of the same employee on that day. Bounds are half-open.
func checkShift(tx *gorm.DB, in ShiftInput, excludeID uint) error {
	if in.End <= in.Start {
		return utils.Invalidf("shift must end after it starts")
	}
	if err := findPerson(tx, &models.Person{}, in.EmployeeID, models.KindServer, models.KindCook, models.KindManager); err != nil {
		return err
	}

	start, end := utils.DayRange(in.Date)
	var sameDay []models.Planning
	err := tx.Where("employee_id = ? AND id <> ? AND shift_date >= ? AND shift_date < ?",
		in.EmployeeID, excludeID, start, end).Find(&sameDay).Error
	if err != nil {
		return err
	}
	for _, p := range sameDay {
		if in.Start < p.End && p.Start < in.End {
			return utils.Conflictf("shift overlaps %s-%s", p.Start.String(), p.End.String())
		}
	}
	return nil
}
