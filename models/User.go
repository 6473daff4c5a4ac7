package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// UserRole is the closed set of roles a user can hold. Hosts list
// properties, renters book them.
type UserRole string

const (
	RoleRenter UserRole = "RENTER"
	RoleHost   UserRole = "HOST"
)

func (r UserRole) Valid() bool {
	return r == RoleRenter || r == RoleHost
}

type User struct {
	gorm.Model
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email" gorm:"uniqueIndex"`
	Password       string   `json:"-"`
	SocialLogin    bool     `json:"socialLogin"`
	SocialProvider string   `json:"socialProvider"`
	AvatarURL      string   `json:"avatarURL"`
	Role           UserRole `json:"role" gorm:"type:varchar(20);default:'RENTER';index"`

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:HostID;references:ID"`
	Bookings   []Booking  `json:"bookings,omitempty" gorm:"foreignKey:RenterID;references:ID"`

	Accounts   []Account  `json:"accounts,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Categories []Category `json:"categories,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Budgets    []Budget   `json:"budgets,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// MarshalJSON strips associations that would recurse back into the user.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Properties []Property `json:"properties,omitempty"`
		Bookings   []Booking  `json:"bookings,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(u),
	}

	for _, p := range u.Properties {
		p.Host = User{}
		aux.Properties = append(aux.Properties, p)
	}
	for _, b := range u.Bookings {
		b.Renter = User{}
		aux.Bookings = append(aux.Bookings, b)
	}

	return json.Marshal(aux)
}
