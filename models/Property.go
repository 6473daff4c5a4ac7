package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	HostID        uint            `json:"hostID" gorm:"not null;index"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Location      string          `json:"location" gorm:"index"`
	PricePerNight decimal.Decimal `json:"pricePerNight" gorm:"type:numeric(18,2)"`
	Currency      string          `json:"currency" gorm:"type:varchar(8);default:'USD'"`
	MaxGuests     int             `json:"maxGuests" gorm:"default:1"`
	Bedrooms      int             `json:"bedrooms" gorm:"default:1"`
	Bathrooms     int             `json:"bathrooms" gorm:"default:1"`
	Images        datatypes.JSON  `json:"images"`
	Amenities     datatypes.JSON  `json:"amenities"`
	HouseRules    datatypes.JSON  `json:"houseRules"`

	Host     User      `json:"host" gorm:"foreignKey:HostID;references:ID"`
	Bookings []Booking `json:"bookings,omitempty"`
}

// MarshalJSON renders the JSON columns as arrays and keeps the host from
// dragging its own property list into the payload.
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images     []string `json:"images"`
		Amenities  []string `json:"amenities"`
		HouseRules []string `json:"houseRules"`
		Host       *User    `json:"host,omitempty"`
		*Alias
	}{
		Images:     []string{},
		Amenities:  []string{},
		HouseRules: []string{},
		Alias:      (*Alias)(p),
	}

	if p.Images != nil {
		var images []string
		if err := json.Unmarshal(p.Images, &images); err == nil {
			aux.Images = images
		}
	}
	if p.Amenities != nil {
		var amenities []string
		if err := json.Unmarshal(p.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}
	if p.HouseRules != nil {
		var rules []string
		if err := json.Unmarshal(p.HouseRules, &rules); err == nil {
			aux.HouseRules = rules
		}
	}

	if p.Host.ID > 0 {
		hostCopy := p.Host
		hostCopy.Properties = nil
		aux.Host = &hostCopy
	}

	return json.Marshal(aux)
}
