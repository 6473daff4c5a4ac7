package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking reserves a property for [CheckIn, CheckOut). The checkout day is
// free for another guest's check-in. Bookings are never hard-deleted;
// cancellation is a status transition.
type Booking struct {
	gorm.Model
	PropertyID uint            `json:"propertyID" gorm:"not null;index"`
	RenterID   uint            `json:"renterID" gorm:"not null;index"`
	CheckIn    time.Time       `json:"checkIn" gorm:"not null;index"`
	CheckOut   time.Time       `json:"checkOut" gorm:"not null"`
	Status     BookingStatus   `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:numeric(18,2)"`

	Property Property `json:"property" gorm:"foreignKey:PropertyID"`
	Renter   User     `json:"renter" gorm:"foreignKey:RenterID"`
}
