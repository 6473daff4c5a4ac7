package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/muhozajohn/lala-task-be/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Opt-in integration tests against a real Postgres. Run with:
//
//	SERVICE_DB_TESTS=1 DB_CONNECTION_STRING=... go test ./services/
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("SERVICE_DB_TESTS") != "1" {
		t.Skip("set SERVICE_DB_TESTS=1 and DB_CONNECTION_STRING to run database tests")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Fatal("DB_CONNECTION_STRING is required for database tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Property{}, &models.Booking{},
		&models.Account{}, &models.Category{}, &models.SubCategory{},
		&models.Transaction{}, &models.Budget{}, &models.BudgetCategory{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     fmt.Sprintf("test-%d@example.com", time.Now().UnixNano()),
		Password:  "not-a-real-hash",
		Role:      role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&user) })
	return &user
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, models.RoleHost)
	renter := seedUser(t, db, models.RoleRenter)
	other := seedUser(t, db, models.RoleRenter)

	property := models.Property{
		HostID:        host.ID,
		Title:         "Lakeside Flat",
		Location:      "Kigali",
		PricePerNight: decimal.RequireFromString("80.00"),
		MaxGuests:     2,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("property_id = ?", property.ID).Delete(&models.Booking{})
		db.Unscoped().Delete(&property)
	})

	first, err := CreateBooking(db, renter.ID, property.ID, CreateBookingInput{
		CheckIn:  date("2025-06-01"),
		CheckOut: date("2025-06-05"),
	})
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if !first.TotalPrice.Equal(decimal.RequireFromString("320.00")) {
		t.Fatalf("total price = %s, want 320.00", first.TotalPrice)
	}

	_, err = CreateBooking(db, other.ID, property.ID, CreateBookingInput{
		CheckIn:  date("2025-06-04"),
		CheckOut: date("2025-06-08"),
	})
	if Kind(err) != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Checkout day is free for the next guest.
	_, err = CreateBooking(db, other.ID, property.ID, CreateBookingInput{
		CheckIn:  date("2025-06-05"),
		CheckOut: date("2025-06-10"),
	})
	if err != nil {
		t.Fatalf("back-to-back booking: %v", err)
	}
}

func TestDeletePropertyGuardedByFutureBookings(t *testing.T) {
	db := openTestDB(t)
	host := seedUser(t, db, models.RoleHost)
	stranger := seedUser(t, db, models.RoleHost)
	renter := seedUser(t, db, models.RoleRenter)

	property := models.Property{
		HostID:        host.ID,
		Title:         "Hilltop Cottage",
		Location:      "Musanze",
		PricePerNight: decimal.RequireFromString("60.00"),
		MaxGuests:     4,
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("property_id = ?", property.ID).Delete(&models.Booking{})
		db.Unscoped().Delete(&property)
	})

	// A cancelled booking still blocks deletion while its window has not
	// fully passed.
	future := models.Booking{
		PropertyID: property.ID,
		RenterID:   renter.ID,
		CheckIn:    Day(time.Now().AddDate(0, 0, 7)),
		CheckOut:   Day(time.Now().AddDate(0, 0, 10)),
		Status:     models.BookingCancelled,
		TotalPrice: decimal.RequireFromString("180.00"),
	}
	if err := db.Create(&future).Error; err != nil {
		t.Fatalf("seed future booking: %v", err)
	}

	if err := DeleteProperty(db, property.ID, stranger.ID); Kind(err) != KindUnauthorized {
		t.Fatalf("wrong host: expected unauthorized, got %v", err)
	}
	if err := DeleteProperty(db, property.ID, host.ID); Kind(err) != KindConflict {
		t.Fatalf("future booking: expected conflict, got %v", err)
	}

	// Once only past bookings remain the listing can go.
	err := db.Model(&models.Booking{}).Where("id = ?", future.ID).
		Updates(map[string]interface{}{
			"check_in":  Day(time.Now().AddDate(0, 0, -10)),
			"check_out": Day(time.Now().AddDate(0, 0, -7)),
		}).Error
	if err != nil {
		t.Fatalf("age booking: %v", err)
	}

	if err := DeleteProperty(db, property.ID, host.ID); err != nil {
		t.Fatalf("delete with only past bookings: %v", err)
	}

	var remaining int64
	db.Model(&models.Property{}).Where("id = ?", property.ID).Count(&remaining)
	if remaining != 0 {
		t.Fatal("property row survived deletion")
	}
}

func TestPostTransactionInsufficientFunds(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, models.RoleRenter)

	account := models.Account{
		UserID:         user.ID,
		Name:           "Wallet",
		Type:           models.AccountCash,
		CurrentBalance: decimal.RequireFromString("50.00"),
		Currency:       "USD",
	}
	category := models.Category{UserID: user.ID, Name: "Groceries", Type: models.CategoryExpense}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() {
		db.Unscoped().Where("account_id = ?", account.ID).Delete(&models.Transaction{})
		db.Unscoped().Delete(&account)
		db.Unscoped().Delete(&category)
	})

	_, err := PostTransaction(db, user.ID, PostTransactionInput{
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     decimal.RequireFromString("80.00"),
		Type:       models.TransactionExpense,
	})
	if Kind(err) != KindInsufficientFunds {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	// Rejection must leave no trace: no transaction row, balance unchanged.
	var count int64
	db.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected no transactions, found %d", count)
	}
	var reloaded models.Account
	db.First(&reloaded, account.ID)
	if !reloaded.CurrentBalance.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("balance = %s, want 50.00", reloaded.CurrentBalance)
	}

	result, postErr := PostTransaction(db, user.ID, PostTransactionInput{
		AccountID:  account.ID,
		CategoryID: category.ID,
		Amount:     decimal.RequireFromString("30.00"),
		Type:       models.TransactionExpense,
	})
	if postErr != nil {
		t.Fatalf("post: %v", postErr)
	}
	if !result.Account.CurrentBalance.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("balance after expense = %s, want 20.00", result.Account.CurrentBalance)
	}
}

func TestBalancesByTypeZeroDefaults(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, models.RoleRenter)

	account := models.Account{
		UserID:         user.ID,
		Name:           "Main",
		Type:           models.AccountBank,
		CurrentBalance: decimal.RequireFromString("1234.50"),
		Currency:       "USD",
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	t.Cleanup(func() { db.Unscoped().Delete(&account) })

	summary, err := BalancesByType(db, user.ID)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	bank := summary.ByType["BANK"]
	if bank.FormattedBalance != "1234.50" {
		t.Fatalf("BANK formatted = %s, want 1234.50", bank.FormattedBalance)
	}
	if !bank.TotalBalance.Equal(decimal.RequireFromString("1234.50")) {
		t.Fatalf("BANK total = %s, want 1234.50", bank.TotalBalance)
	}
	for _, at := range []string{"MOBILE_MONEY", "CASH", "CRYPTO", "OTHER"} {
		entry := summary.ByType[at]
		if entry.FormattedBalance != "0.00" || !entry.TotalBalance.IsZero() {
			t.Fatalf("%s = %s/%s, want zero", at, entry.TotalBalance, entry.FormattedBalance)
		}
	}
	if summary.TotalBalance != "1234.50" {
		t.Fatalf("total = %s, want 1234.50", summary.TotalBalance)
	}
}
