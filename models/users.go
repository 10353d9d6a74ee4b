package models

import "time"

type Role string

const (
	RoleClient  Role = "Client"
	RoleServer  Role = "Server"
	RoleCook    Role = "Cook"
	RoleManager Role = "Manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleServer, RoleCook, RoleManager:
		return true
	}
	return false
}

// Kind returns the person kind created for an account of this role.
func (r Role) Kind() PersonKind {
	switch r {
	case RoleServer:
		return KindServer
	case RoleCook:
		return KindCook
	case RoleManager:
		return KindManager
	}
	return KindClient
}

// StaffRoles are the roles allowed on the floor and in the kitchen.
var StaffRoles = []Role{RoleServer, RoleCook, RoleManager}

type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	PersonID     *uint     `gorm:"index" json:"person_id,omitempty"`
	Person       *Person   `gorm:"foreignKey:PersonID;constraint:OnDelete:SET NULL" json:"person,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
