package routes

import (
	"time"

	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/services"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func CreateBooking(ctx iris.Context) {
	var input CreateBookingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	checkIn, checkInErr := time.Parse("2006-01-02", input.CheckIn)
	checkOut, checkOutErr := time.Parse("2006-01-02", input.CheckOut)
	if checkInErr != nil || checkOutErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn and checkOut must be YYYY-MM-DD dates", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	booking, bookingErr := services.CreateBooking(storage.DB, claims.ID, input.PropertyID, services.CreateBookingInput{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Status:   models.BookingStatus(input.Status),
	})
	if bookingErr != nil {
		handleServiceError(bookingErr, ctx)
		return
	}

	renterName := booking.Renter.FirstName + " " + booking.Renter.LastName
	go services.NotificationServiceInstance.SendBookingRequestToHost(booking, &booking.Property, renterName)
	go services.NotificationServiceInstance.SendBookingConfirmationToRenter(booking, &booking.Property)

	utils.JSONData(ctx, iris.StatusCreated, "Booking created successfully", booking)
}

func GetBooking(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var booking models.Booking
	bookingExists := storage.DB.Preload("Property").Preload("Renter").Find(&booking, id)
	if bookingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if bookingExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if booking.RenterID != claims.ID && booking.Property.HostID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Booking retrieved successfully", booking)
}

// GetMyBookings lists the caller's bookings as a renter.
func GetMyBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	query := storage.DB.Preload("Property").Where("renter_id = ?", claims.ID)
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("check_in desc").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Bookings retrieved successfully", bookings)
}

// GetPropertyBookings lists all bookings on one of the caller's properties.
func GetPropertyBookings(ctx iris.Context) {
	propertyID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid property id", ctx)
		return
	}

	var property models.Property
	propertyExists := storage.DB.Find(&property, propertyID)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if property.HostID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var bookings []models.Booking
	if err := storage.DB.Preload("Renter").Where("property_id = ?", propertyID).
		Order("check_in asc").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Bookings retrieved successfully", bookings)
}

func UpdateBooking(ctx iris.Context) {
	bookingID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid booking id", ctx)
		return
	}

	var input UpdateBookingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.Booking
	bookingExists := storage.DB.Preload("Property").Find(&existing, bookingID)
	if bookingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if bookingExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	isRenter := existing.RenterID == claims.ID
	isHost := existing.Property.HostID == claims.ID
	if !isRenter && !isHost {
		utils.CreateForbidden(ctx)
		return
	}
	// Date changes belong to the renter, status changes to either party.
	if (input.CheckIn != nil || input.CheckOut != nil) && !isRenter {
		utils.CreateForbidden(ctx)
		return
	}

	serviceInput := services.UpdateBookingInput{}
	if input.CheckIn != nil {
		checkIn, parseErr := time.Parse("2006-01-02", *input.CheckIn)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be a YYYY-MM-DD date", ctx)
			return
		}
		serviceInput.CheckIn = &checkIn
	}
	if input.CheckOut != nil {
		checkOut, parseErr := time.Parse("2006-01-02", *input.CheckOut)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be a YYYY-MM-DD date", ctx)
			return
		}
		serviceInput.CheckOut = &checkOut
	}
	if input.Status != nil {
		status := models.BookingStatus(*input.Status)
		serviceInput.Status = &status
	}

	booking, updateErr := services.UpdateBooking(storage.DB, bookingID, serviceInput)
	if updateErr != nil {
		handleServiceError(updateErr, ctx)
		return
	}

	if input.Status != nil {
		go services.NotificationServiceInstance.SendBookingStatusToRenter(booking, existing.Property.Title)
	}

	utils.JSONData(ctx, iris.StatusOK, "Booking updated successfully", booking)
}

func CancelBooking(ctx iris.Context) {
	bookingID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid booking id", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	booking, cancelErr := services.CancelBooking(storage.DB, bookingID, claims.ID)
	if cancelErr != nil {
		handleServiceError(cancelErr, ctx)
		return
	}

	go services.NotificationServiceInstance.SendBookingStatusToRenter(booking, booking.Property.Title)

	utils.JSONData(ctx, iris.StatusOK, "Booking cancelled successfully", booking)
}

type CreateBookingInput struct {
	PropertyID uint   `json:"propertyId" validate:"required"`
	CheckIn    string `json:"checkIn" validate:"required"`
	CheckOut   string `json:"checkOut" validate:"required"`
	Status     string `json:"status"`
}

type UpdateBookingInput struct {
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
	Status   *string `json:"status"`
}
