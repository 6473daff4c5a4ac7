package services

import (
	"fmt"
	"log"

	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"
)

// NotificationService persists in-app notifications and mirrors them to the
// user's email. Delivery failures are logged, never surfaced to the request
// that triggered them.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (ns *NotificationService) notifyUser(userID uint, title, message, nType string, refID uint, refType string) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    nType,
		RefID:   refID,
		RefType: refType,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", userID, err)
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		log.Printf("failed to load user %d for notification email: %v", userID, err)
		return
	}
	html := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", user.FirstName, message)
	if sent, err := utils.SendMail(user.Email, title, html); err != nil || !sent {
		log.Printf("failed to email notification to user %d: %v", userID, err)
	}
}

// SendBookingRequestToHost tells the host a renter asked to book their property.
func (ns *NotificationService) SendBookingRequestToHost(booking *models.Booking, property *models.Property, renterName string) {
	title := "New booking request"
	message := fmt.Sprintf("%s requested to book %s from %s to %s.",
		renterName, property.Title,
		booking.CheckIn.Format("Jan 2, 2006"), booking.CheckOut.Format("Jan 2, 2006"))
	ns.notifyUser(property.HostID, title, message, "booking_request", booking.ID, "booking")
}

// SendBookingConfirmationToRenter confirms the renter's own booking back to them.
func (ns *NotificationService) SendBookingConfirmationToRenter(booking *models.Booking, property *models.Property) {
	title := "Booking received"
	message := fmt.Sprintf("Your booking for %s from %s to %s is %s.",
		property.Title,
		booking.CheckIn.Format("Jan 2, 2006"), booking.CheckOut.Format("Jan 2, 2006"),
		booking.Status)
	ns.notifyUser(booking.RenterID, title, message, "booking_status", booking.ID, "booking")
}

// SendBookingStatusToRenter tells the renter their booking changed state.
func (ns *NotificationService) SendBookingStatusToRenter(booking *models.Booking, propertyTitle string) {
	var title string
	switch booking.Status {
	case models.BookingConfirmed:
		title = "Booking confirmed"
	case models.BookingCancelled:
		title = "Booking cancelled"
	case models.BookingCompleted:
		title = "Stay completed"
	default:
		title = "Booking updated"
	}
	message := fmt.Sprintf("Your booking for %s is now %s.", propertyTitle, booking.Status)
	ns.notifyUser(booking.RenterID, title, message, "booking_status", booking.ID, "booking")
}

// SendBudgetExceededAlerts warns the user about every allocation a posting
// pushed over its limit.
func (ns *NotificationService) SendBudgetExceededAlerts(userID uint, exceeded []models.BudgetCategory) {
	for _, bc := range exceeded {
		var budget models.Budget
		if err := storage.DB.First(&budget, bc.BudgetID).Error; err != nil {
			log.Printf("failed to load budget %d for alert: %v", bc.BudgetID, err)
			continue
		}
		title := "Budget exceeded"
		message := fmt.Sprintf("Spending in budget %q has reached %s of the %s allocated.",
			budget.Name, FormatAmount(bc.SpentAmount), FormatAmount(bc.AllocatedAmount))
		ns.notifyUser(userID, title, message, "budget_exceeded", bc.BudgetID, "budget")
	}
}

// Global notification service instance
var NotificationServiceInstance = NewNotificationService()
