package routes

import (
	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/services"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

func CreateAccount(ctx iris.Context) {
	var input CreateAccountInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	accountType := models.AccountType(input.Type)
	if !accountType.Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid account type", ctx)
		return
	}

	balance := decimal.Zero
	if input.CurrentBalance != "" {
		parsed, parseErr := decimal.NewFromString(input.CurrentBalance)
		if parseErr != nil || parsed.IsNegative() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "currentBalance must be a non-negative amount", ctx)
			return
		}
		balance = parsed
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	account := models.Account{
		UserID:         utils.ContextUserID(ctx),
		Name:           input.Name,
		Type:           accountType,
		AccountNumber:  utils.GenerateAccountNumber(),
		CurrentBalance: balance,
		Currency:       currency,
	}

	if err := storage.DB.Create(&account).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusCreated, "Account created successfully", account)
}

func GetAccounts(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	var accounts []models.Account
	if err := storage.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&accounts).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Accounts retrieved successfully", accounts)
}

func GetAccount(ctx iris.Context) {
	accountID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid account id", ctx)
		return
	}

	account, err := services.GetOwnedAccount(storage.DB, accountID, utils.ContextUserID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Account retrieved successfully", account)
}

func UpdateAccount(ctx iris.Context) {
	accountID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid account id", ctx)
		return
	}

	account, err := services.GetOwnedAccount(storage.DB, accountID, utils.ContextUserID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	var input UpdateAccountInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Type != nil {
		accountType := models.AccountType(*input.Type)
		if !accountType.Valid() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid account type", ctx)
			return
		}
		account.Type = accountType
	}
	if input.Currency != nil {
		account.Currency = *input.Currency
	}

	if err := storage.DB.Save(account).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Account updated successfully", account)
}

func DeleteAccount(ctx iris.Context) {
	accountID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid account id", ctx)
		return
	}

	if err := services.DeleteAccount(storage.DB, accountID, utils.ContextUserID(ctx)); err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func GetAccountsByType(ctx iris.Context) {
	accountType := models.AccountType(ctx.Params().Get("type"))
	if !accountType.Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid account type", ctx)
		return
	}

	var accounts []models.Account
	err := storage.DB.
		Where("user_id = ? AND type = ?", utils.ContextUserID(ctx), accountType).
		Order("created_at asc").
		Find(&accounts).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Accounts retrieved successfully", accounts)
}

// GetAccountBalances summarizes the caller's balances per account type.
func GetAccountBalances(ctx iris.Context) {
	summary, err := services.BalancesByType(storage.DB, utils.ContextUserID(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Balances retrieved successfully", summary)
}

type CreateAccountInput struct {
	Name           string `json:"name" validate:"required,max=256"`
	Type           string `json:"type" validate:"required"`
	CurrentBalance string `json:"currentBalance"`
	Currency       string `json:"currency" validate:"omitempty,len=3"`
}

type UpdateAccountInput struct {
	Name     *string `json:"name" validate:"omitempty,max=256"`
	Type     *string `json:"type"`
	Currency *string `json:"currency" validate:"omitempty,len=3"`
}
