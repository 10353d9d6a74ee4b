package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

type Reservation struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Date      datatypes.Date    `gorm:"column:reservation_date;not null;index:idx_reservation_slot" json:"date"`
	Time      datatypes.Time    `gorm:"column:reservation_time;not null;index:idx_reservation_slot" json:"time"`
	PartySize int               `gorm:"not null" json:"party_size"`
	Status    ReservationStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	ClientID  uint              `gorm:"not null;index" json:"client_id"`
	Client    *Person           `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	TableID   uint              `gorm:"not null;index:idx_reservation_slot" json:"table_id"`
	Table     *Table            `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"table,omitempty"`
	Version   uint              `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
}

// Planning is one shift of an employee, Start inclusive and End exclusive.
type Planning struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	EmployeeID uint           `gorm:"not null;index" json:"employee_id"`
	Employee   *Person        `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	Date       datatypes.Date `gorm:"column:shift_date;not null;index" json:"date"`
	Start      datatypes.Time `gorm:"column:start_time;not null" json:"start"`
	End        datatypes.Time `gorm:"column:end_time;not null" json:"end"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}
