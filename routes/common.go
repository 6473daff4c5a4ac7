package routes

import (
	"github.com/muhozajohn/lala-task-be/services"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
)

// handleServiceError translates a service error into the matching HTTP
// response.
func handleServiceError(err error, ctx iris.Context) {
	switch services.Kind(err) {
	case services.KindValidation:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
	case services.KindNotFound:
		utils.CreateError(iris.StatusNotFound, "Not Found", err.Error(), ctx)
	case services.KindUnauthorized:
		utils.CreateError(iris.StatusForbidden, "Forbidden", err.Error(), ctx)
	case services.KindConflict:
		utils.CreateError(iris.StatusConflict, "Conflict", err.Error(), ctx)
	case services.KindInsufficientFunds:
		utils.CreateError(iris.StatusUnprocessableEntity, "Insufficient Funds", err.Error(), ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
