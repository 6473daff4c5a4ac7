package main

import (
	"fmt"
	"log"
	"os"

	"github.com/muhozajohn/lala-task-be/routes"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := newApp()

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newApp wires the HTTP surface. Kept apart from main so tests can mount
// the same router.
func newApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetCurrentUser)
		user.Get("/", accessTokenVerifierMiddleware, routes.GetUsers)
		user.Get("/{id}", accessTokenVerifierMiddleware, routes.GetUserByID)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Patch("/{id}/role", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserRole)
		user.Delete("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.DeleteUser)
		user.Get("/{id}/properties", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserProperties)
		user.Get("/{id}/bookings", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserBookings)
	}

	property := app.Party("/api/property")
	{
		property.Get("/", routes.GetProperties)
		property.Get("/{id:uint}", routes.GetProperty)
		property.Get("/{id:uint}/availability", routes.CheckAvailability)
		property.Post("/", accessTokenVerifierMiddleware, utils.HostOnlyMiddleware, routes.CreateProperty)
		property.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateProperty)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteProperty)
		property.Get("/{id:uint}/bookings", accessTokenVerifierMiddleware, routes.GetPropertyBookings)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware)
	{
		booking.Post("/", routes.CreateBooking)
		booking.Get("/", routes.GetMyBookings)
		booking.Get("/{id:uint}", routes.GetBooking)
		booking.Patch("/{id:uint}", routes.UpdateBooking)
		booking.Delete("/{id:uint}", routes.CancelBooking)
	}

	account := app.Party("/api/account", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		account.Post("/", routes.CreateAccount)
		account.Get("/", routes.GetAccounts)
		account.Get("/balances", routes.GetAccountBalances)
		account.Get("/type/{type}", routes.GetAccountsByType)
		account.Get("/{id:uint}", routes.GetAccount)
		account.Patch("/{id:uint}", routes.UpdateAccount)
		account.Delete("/{id:uint}", routes.DeleteAccount)
	}

	transaction := app.Party("/api/transaction", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		transaction.Post("/", routes.CreateTransaction)
		transaction.Get("/", routes.GetTransactions)
		transaction.Get("/{id:uint}", routes.GetTransaction)
		transaction.Patch("/{id:uint}", routes.UpdateTransaction)
		transaction.Delete("/{id:uint}", routes.DeleteTransaction)
	}

	category := app.Party("/api/category", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		category.Post("/", routes.CreateCategory)
		category.Get("/", routes.GetCategories)
		category.Get("/{id:uint}", routes.GetCategory)
		category.Patch("/{id:uint}", routes.UpdateCategory)
		category.Delete("/{id:uint}", routes.DeleteCategory)
	}

	subcategory := app.Party("/api/subcategory", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		subcategory.Post("/", routes.CreateSubCategory)
		subcategory.Get("/", routes.GetSubCategories)
		subcategory.Patch("/{id:uint}", routes.UpdateSubCategory)
		subcategory.Delete("/{id:uint}", routes.DeleteSubCategory)
	}

	budget := app.Party("/api/budget", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		budget.Post("/", routes.CreateBudget)
		budget.Get("/", routes.GetBudgets)
		budget.Get("/{id:uint}", routes.GetBudget)
		budget.Patch("/{id:uint}", routes.UpdateBudget)
		budget.Delete("/{id:uint}", routes.DeleteBudget)
	}

	budgetCategory := app.Party("/api/budgetcategory", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		budgetCategory.Post("/", routes.CreateBudgetCategory)
		budgetCategory.Get("/", routes.GetBudgetCategories)
		budgetCategory.Patch("/{id:uint}", routes.UpdateBudgetCategory)
		budgetCategory.Delete("/{id:uint}", routes.DeleteBudgetCategory)
	}

	notification := app.Party("/api/notification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notification.Get("/", routes.GetNotifications)
		notification.Patch("/read-all", routes.MarkAllNotificationsRead)
		notification.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	return app
}
