package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-manager/models"
	"github.com/yeremiapane/restaurant-manager/utils"
	"gorm.io/gorm"
)

// PersonService manages clients and employees stored in one table.
type PersonService struct {
	db *gorm.DB
}

func NewPersonService(db *gorm.DB) *PersonService {
	return &PersonService{db: db}
}

type PersonInput struct {
	Name      string           `json:"name"`
	Surname   string           `json:"surname"`
	Phone     *string          `json:"phone"`
	Email     *string          `json:"email"`
	Salary    *decimal.Decimal `json:"salary"`
	Position  *string          `json:"position"`
	Zone      *string          `json:"zone"`
	Specialty *string          `json:"specialty"`
}

func (in PersonInput) apply(p *models.Person) {
	p.Name = in.Name
	p.Surname = in.Surname
	p.Phone = in.Phone
	p.Email = in.Email
	p.Salary = in.Salary
	p.Zone = in.Zone
	p.Specialty = in.Specialty
	if in.Position != nil {
		p.Position = in.Position
	}
}

var defaultPositions = map[models.PersonKind]string{
	models.KindServer:  "Server",
	models.KindCook:    "Cook",
	models.KindManager: "Manager",
}

// newPerson builds a validated, unsaved person of the given kind.
func newPerson(kind models.PersonKind, in PersonInput) (*models.Person, error) {
	p := &models.Person{Kind: kind}
	in.apply(p)
	if kind.IsEmployee() {
		now := time.Now().UTC()
		p.HireDate = &now
		if p.Position == nil {
			position := defaultPositions[kind]
			p.Position = &position
		}
	}
	if err := p.CheckFields(); err != nil {
		return nil, utils.Invalidf("%v", err)
	}
	return p, nil
}

func (s *PersonService) Create(ctx context.Context, kind models.PersonKind, in PersonInput) (*models.Person, error) {
	p, err := newPerson(kind, in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, utils.FromDB(err, "person")
	}
	return p, nil
}

// Update replaces the editable fields. The kind and hire date never change.
func (s *PersonService) Update(ctx context.Context, id uint, kinds []models.PersonKind, in PersonInput) (*models.Person, error) {
	var p models.Person
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findPerson(tx, &p, id, kinds...); err != nil {
			return err
		}
		in.apply(&p)
		if err := p.CheckFields(); err != nil {
			return utils.Invalidf("%v", err)
		}
		return utils.FromDB(tx.Save(&p).Error, "person")
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PersonService) Get(ctx context.Context, id uint, kinds ...models.PersonKind) (*models.Person, error) {
	var p models.Person
	if err := findPerson(s.db.WithContext(ctx), &p, id, kinds...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PersonService) List(ctx context.Context, kinds ...models.PersonKind) ([]models.Person, error) {
	var people []models.Person
	err := s.db.WithContext(ctx).Where("kind IN ?", kinds).Order("surname, name").Find(&people).Error
	return people, utils.FromDB(err, "people")
}

// Delete removes the person with their reservations and shifts. Orders and
// accounts keep existing without the reference.
func (s *PersonService) Delete(ctx context.Context, id uint, kinds ...models.PersonKind) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Person
		if err := findPerson(tx, &p, id, kinds...); err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&models.Planning{}).Error; err != nil {
			return err
		}
		for _, column := range []string{"client_id", "server_id", "cook_id"} {
			if err := tx.Model(&models.Order{}).Where(column+" = ?", id).Update(column, nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Account{}).Where("person_id = ?", id).Update("person_id", nil).Error; err != nil {
			return err
		}
		return utils.FromDB(tx.Delete(&p).Error, "person")
	})
}

func (s *PersonService) ClientReservations(ctx context.Context, clientID uint) ([]models.Reservation, error) {
	db := s.db.WithContext(ctx)
	if err := findPerson(db, &models.Person{}, clientID, models.KindClient); err != nil {
		return nil, err
	}
	var reservations []models.Reservation
	err := db.Preload("Table").Where("client_id = ?", clientID).
		Order("reservation_date DESC, reservation_time DESC").Find(&reservations).Error
	return reservations, utils.FromDB(err, "reservations")
}

func (s *PersonService) ClientOrders(ctx context.Context, clientID uint) ([]models.Order, error) {
	db := s.db.WithContext(ctx)
	if err := findPerson(db, &models.Person{}, clientID, models.KindClient); err != nil {
		return nil, err
	}
	var orders []models.Order
	err := db.Preload("Lines.Dish").Preload("Table").Where("client_id = ?", clientID).
		Order("created_at DESC").Find(&orders).Error
	return orders, utils.FromDB(err, "orders")
}

func (s *PersonService) EmployeePlanning(ctx context.Context, employeeID uint) ([]models.Planning, error) {
	db := s.db.WithContext(ctx)
	if err := findPerson(db, &models.Person{}, employeeID, models.KindServer, models.KindCook, models.KindManager); err != nil {
		return nil, err
	}
	var shifts []models.Planning
	err := db.Where("employee_id = ?", employeeID).Order("shift_date, start_time").Find(&shifts).Error
	return shifts, utils.FromDB(err, "plannings")
}

// findPerson loads a person and checks it is one of kinds. A person of
// another kind is reported as missing.
func findPerson(tx *gorm.DB, dst *models.Person, id uint, kinds ...models.PersonKind) error {
	what := "person"
	if len(kinds) == 1 {
		what = string(kinds[0])
	}
	if err := findByID(tx, dst, id, what); err != nil {
		return err
	}
	if len(kinds) == 0 {
		return nil
	}
	for _, k := range kinds {
		if dst.Kind == k {
			return nil
		}
	}
	return utils.NotFoundf("%s not found", what)
}
