package routes

import (
	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
)

func GetNotifications(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	query := storage.DB.Where("user_id = ?", userID)
	if ctx.URLParamDefault("unread", "") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Notifications retrieved successfully", notifications)
}

func MarkNotificationRead(ctx iris.Context) {
	notificationID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid notification id", ctx)
		return
	}

	userID := utils.ContextUserID(ctx)

	var notification models.Notification
	result := storage.DB.Where("id = ? AND user_id = ?", notificationID, userID).Find(&notification)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	notification.IsRead = true

	utils.JSONData(ctx, iris.StatusOK, "Notification marked as read", notification)
}

func MarkAllNotificationsRead(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	if err := storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
