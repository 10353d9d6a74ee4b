package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// ValidEmail reports whether s is a bare address, without display name.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

type PersonKind string

const (
	KindClient  PersonKind = "client"
	KindServer  PersonKind = "server"
	KindCook    PersonKind = "cook"
	KindManager PersonKind = "manager"
)

func (k PersonKind) Valid() bool {
	switch k {
	case KindClient, KindServer, KindCook, KindManager:
		return true
	}
	return false
}

func (k PersonKind) IsEmployee() bool {
	return k == KindServer || k == KindCook || k == KindManager
}

// Person stores clients and every kind of employee in one table.
// Only the fields of its Kind may be set.
type Person struct {
	ID      uint       `gorm:"primaryKey" json:"id"`
	Kind    PersonKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Name    string     `gorm:"type:varchar(100);not null" json:"name"`
	Surname string     `gorm:"type:varchar(100);not null" json:"surname"`
	Phone   *string    `gorm:"type:varchar(20)" json:"phone,omitempty"`

	// client
	Email *string `gorm:"type:varchar(255)" json:"email,omitempty"`

	// employee
	HireDate *time.Time       `json:"hire_date,omitempty"`
	Salary   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"salary,omitempty"`
	Position *string          `gorm:"type:varchar(50)" json:"position,omitempty"`

	Zone      *string `gorm:"type:varchar(50)" json:"zone,omitempty"`
	Specialty *string `gorm:"type:varchar(100)" json:"specialty,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.Name + " " + p.Surname)
}

// CheckFields rejects a person carrying attributes that do not belong to its kind.
func (p Person) CheckFields() error {
	if !p.Kind.Valid() {
		return fmt.Errorf("unknown person kind %q", p.Kind)
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Surname) == "" {
		return errors.New("name and surname are required")
	}

	if p.Kind == KindClient {
		if p.HireDate != nil || p.Salary != nil || p.Position != nil {
			return errors.New("a client has no employment fields")
		}
		if p.Zone != nil || p.Specialty != nil {
			return errors.New("a client has no zone or specialty")
		}
		if p.Email != nil && *p.Email != "" {
			if !ValidEmail(*p.Email) {
				return fmt.Errorf("invalid email %q", *p.Email)
			}
		}
		return nil
	}

	if p.Email != nil {
		return errors.New("an employee email belongs to the account, not the person")
	}
	if p.Salary != nil && p.Salary.IsNegative() {
		return errors.New("salary cannot be negative")
	}
	if p.Zone != nil && p.Kind != KindServer {
		return errors.New("only servers have a zone")
	}
	if p.Specialty != nil && p.Kind != KindCook {
		return errors.New("only cooks have a specialty")
	}
	return nil
}
