package services

import (
	"errors"
	"time"

	"github.com/muhozajohn/lala-task-be/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bookings reserve half-open intervals [checkIn, checkOut): two bookings
// conflict iff a.checkIn < b.checkOut AND b.checkIn < a.checkOut, so a
// checkout day is free for another guest's check-in. Cancelled bookings
// never count.

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights returns the number of billable nights between check-in and
// check-out, at least 1.
func Nights(checkIn, checkOut time.Time) int {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}

// StayPrice is nights x nightly price.
func StayPrice(pricePerNight decimal.Decimal, checkIn, checkOut time.Time) decimal.Decimal {
	return pricePerNight.Mul(decimal.NewFromInt(int64(Nights(checkIn, checkOut))))
}

// Day truncates t to UTC midnight so date comparisons ignore clock time.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type ConflictResult struct {
	Conflict            bool             `json:"conflict"`
	ConflictingBookings []models.Booking `json:"conflictingBookings"`
}

// CheckConflict reports every non-cancelled booking on the property whose
// range overlaps [checkIn, checkOut). excludeBookingID skips a booking's
// own row when re-checking an update; pass 0 otherwise. Purely advisory:
// the write paths re-run this inside a locked transaction.
func CheckConflict(db *gorm.DB, propertyID uint, checkIn, checkOut time.Time, excludeBookingID uint) (*ConflictResult, error) {
	if !checkIn.Before(checkOut) {
		return nil, Validation("checkIn must be before checkOut")
	}

	var property models.Property
	res := db.Find(&property, propertyID)
	if res.Error != nil {
		return nil, Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFound("Property not found")
	}

	conflicts, err := findConflicts(db, propertyID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return nil, err
	}

	return &ConflictResult{
		Conflict:            len(conflicts) > 0,
		ConflictingBookings: conflicts,
	}, nil
}

func findConflicts(db *gorm.DB, propertyID uint, checkIn, checkOut time.Time, excludeBookingID uint) ([]models.Booking, error) {
	q := db.
		Where("property_id = ? AND status <> ?", propertyID, models.BookingCancelled).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	conflicts := []models.Booking{}
	if err := q.Order("check_in asc").Find(&conflicts).Error; err != nil {
		return nil, Internal(err)
	}
	return conflicts, nil
}

type CreateBookingInput struct {
	CheckIn  time.Time
	CheckOut time.Time
	Status   models.BookingStatus
}

// CreateBooking inserts a booking after re-running the conflict check under
// a row lock on the property, so two concurrent requests for the same dates
// cannot both pass the check.
func CreateBooking(db *gorm.DB, renterID uint, propertyID uint, input CreateBookingInput) (*models.Booking, error) {
	checkIn := Day(input.CheckIn)
	checkOut := Day(input.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, Validation("checkIn must be before checkOut")
	}

	status := input.Status
	if status == "" {
		status = models.BookingPending
	}
	if !status.Valid() || status == models.BookingCancelled {
		return nil, Validation("invalid booking status")
	}

	var renter models.User
	if err := db.First(&renter, renterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Renter not found")
		}
		return nil, Internal(err)
	}

	var booking models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		// Serialize booking writes per property: the lock holds from the
		// conflict check through the insert.
		var property models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&property, propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Property not found")
			}
			return Internal(err)
		}

		conflicts, err := findConflicts(tx, propertyID, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return Conflict("Property is not available for these dates")
		}

		booking = models.Booking{
			PropertyID: propertyID,
			RenterID:   renterID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Status:     status,
			TotalPrice: StayPrice(property.PricePerNight, checkIn, checkOut),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.Preload("Property").Preload("Renter").First(&booking, booking.ID)
	return &booking, nil
}

type UpdateBookingInput struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   *models.BookingStatus
}

// UpdateBooking changes a booking's dates or status. Date changes re-run
// the conflict check under the property lock, excluding the booking itself.
func UpdateBooking(db *gorm.DB, bookingID uint, input UpdateBookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Booking not found")
		}
		return nil, Internal(err)
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, Validation("invalid booking status")
	}

	checkIn := booking.CheckIn
	checkOut := booking.CheckOut
	datesChanged := false
	if input.CheckIn != nil {
		checkIn = Day(*input.CheckIn)
		datesChanged = true
	}
	if input.CheckOut != nil {
		checkOut = Day(*input.CheckOut)
		datesChanged = true
	}
	if !checkIn.Before(checkOut) {
		return nil, Validation("checkIn must be before checkOut")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if datesChanged {
			var property models.Property
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&property, booking.PropertyID).Error; err != nil {
				return Internal(err)
			}

			conflicts, err := findConflicts(tx, booking.PropertyID, checkIn, checkOut, booking.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				return Conflict("Property is not available for these dates")
			}

			booking.CheckIn = checkIn
			booking.CheckOut = checkOut
			booking.TotalPrice = StayPrice(property.PricePerNight, checkIn, checkOut)
		}
		if input.Status != nil {
			booking.Status = *input.Status
		}
		if err := tx.Save(&booking).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.Preload("Property").Preload("Renter").First(&booking, booking.ID)
	return &booking, nil
}

// CancelBooking soft-cancels: the row stays, only the status flips, and the
// dates immediately stop counting against availability.
func CancelBooking(db *gorm.DB, bookingID uint, renterID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Booking not found")
		}
		return nil, Internal(err)
	}

	if booking.RenterID != renterID {
		return nil, Unauthorized("Booking does not belong to this user")
	}
	if booking.Status == models.BookingCancelled {
		return nil, Validation("Booking is already cancelled")
	}

	booking.Status = models.BookingCancelled
	if err := db.Save(&booking).Error; err != nil {
		return nil, Internal(err)
	}

	db.Preload("Property").Preload("Renter").First(&booking, booking.ID)
	return &booking, nil
}
