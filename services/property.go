package services

import (
	"errors"
	"time"

	"github.com/muhozajohn/lala-task-be/models"

	"gorm.io/gorm"
)

// DeleteProperty removes a property and its booking history. Only the host
// who owns the listing may delete it, and never while any booking still
// ends in the future, cancelled or not, so renters keep their records until
// the stay window has fully passed.
func DeleteProperty(db *gorm.DB, propertyID uint, hostID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Property not found")
			}
			return Internal(err)
		}
		if property.HostID != hostID {
			return Unauthorized("Only the host who owns this property can delete it")
		}

		var active int64
		err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND check_out > ?", propertyID, time.Now()).
			Count(&active).Error
		if err != nil {
			return Internal(err)
		}
		if active > 0 {
			return Conflict("Property has bookings that have not yet ended")
		}

		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Booking{}).Error; err != nil {
			return Internal(err)
		}
		if err := tx.Delete(&property).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
}
