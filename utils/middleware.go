package utils

import (
	"strconv"

	"github.com/muhozajohn/lala-task-be/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func UserIDMiddleware(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	claims := jwt.Get(ctx).(*AccessToken)

	userID := strconv.FormatUint(uint64(claims.ID), 10)

	if userID != id {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}
	ctx.Next()
}

// UserIDFromTokenMiddleware extracts the caller's user ID from the JWT and
// stores it in the context for routes without an {id} parameter.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// HostOnlyMiddleware ensures the requester has the HOST role.
func HostOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != string(models.RoleHost) {
		JSONError(ctx, iris.StatusForbidden, "forbidden", "host access required")
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// ContextUserID reads the user ID a middleware stored earlier.
func ContextUserID(ctx iris.Context) uint {
	return ctx.Values().Get("userID").(uint)
}
