package routes

import (
	"time"

	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/services"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

func CreateTransaction(ctx iris.Context) {
	var input CreateTransactionInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amount, amountErr := decimal.NewFromString(input.Amount)
	if amountErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "amount must be a decimal number", ctx)
		return
	}

	serviceInput := services.PostTransactionInput{
		AccountID:     input.AccountID,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Amount:        amount,
		Type:          models.TransactionType(input.Type),
		Status:        models.TransactionStatus(input.Status),
		Description:   input.Description,
	}
	if input.TransactionDate != "" {
		txDate, parseErr := time.Parse(time.RFC3339, input.TransactionDate)
		if parseErr != nil {
			txDate, parseErr = time.Parse("2006-01-02", input.TransactionDate)
		}
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "transactionDate must be an RFC3339 timestamp or YYYY-MM-DD date", ctx)
			return
		}
		serviceInput.TransactionDate = txDate
	}

	userID := utils.ContextUserID(ctx)
	result, postErr := services.PostTransaction(storage.DB, userID, serviceInput)
	if postErr != nil {
		handleServiceError(postErr, ctx)
		return
	}

	if len(result.ExceededBudgets) > 0 {
		go services.NotificationServiceInstance.SendBudgetExceededAlerts(userID, result.ExceededBudgets)
	}

	utils.JSONData(ctx, iris.StatusCreated, "Transaction created successfully", result)
}

// GetTransactions lists the caller's transactions, narrowed by the optional
// accountId, categoryId, type, status, from and to query params.
func GetTransactions(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	query := storage.DB.Preload("Account").Preload("Category").Preload("SubCategory").
		Where("user_id = ?", userID)

	if accountID := ctx.URLParamIntDefault("accountId", 0); accountID > 0 {
		query = query.Where("account_id = ?", accountID)
	}
	if categoryID := ctx.URLParamIntDefault("categoryId", 0); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if txType := ctx.URLParam("type"); txType != "" {
		query = query.Where("type = ?", txType)
	}
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := ctx.URLParam("from"); from != "" {
		if fromDate, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("transaction_date >= ?", fromDate)
		}
	}
	if to := ctx.URLParam("to"); to != "" {
		if toDate, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("transaction_date < ?", toDate.AddDate(0, 0, 1))
		}
	}

	var transactions []models.Transaction
	if err := query.Order("transaction_date desc").Find(&transactions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Transactions retrieved successfully", transactions)
}

func GetTransaction(ctx iris.Context) {
	transactionID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid transaction id", ctx)
		return
	}

	var transaction models.Transaction
	result := storage.DB.Preload("Account").Preload("Category").Preload("SubCategory").
		Where("id = ? AND user_id = ?", transactionID, utils.ContextUserID(ctx)).
		Find(&transaction)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Transaction retrieved successfully", transaction)
}

func UpdateTransaction(ctx iris.Context) {
	transactionID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid transaction id", ctx)
		return
	}

	var input UpdateTransactionInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	serviceInput := services.UpdateTransactionInput{
		AccountID:     input.AccountID,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Description:   input.Description,
	}
	if input.Amount != nil {
		amount, amountErr := decimal.NewFromString(*input.Amount)
		if amountErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "amount must be a decimal number", ctx)
			return
		}
		serviceInput.Amount = &amount
	}
	if input.Type != nil {
		txType := models.TransactionType(*input.Type)
		serviceInput.Type = &txType
	}
	if input.Status != nil {
		status := models.TransactionStatus(*input.Status)
		serviceInput.Status = &status
	}
	if input.TransactionDate != nil {
		txDate, parseErr := time.Parse(time.RFC3339, *input.TransactionDate)
		if parseErr != nil {
			txDate, parseErr = time.Parse("2006-01-02", *input.TransactionDate)
		}
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "transactionDate must be an RFC3339 timestamp or YYYY-MM-DD date", ctx)
			return
		}
		serviceInput.TransactionDate = &txDate
	}

	userID := utils.ContextUserID(ctx)
	result, updateErr := services.UpdateTransaction(storage.DB, userID, transactionID, serviceInput)
	if updateErr != nil {
		handleServiceError(updateErr, ctx)
		return
	}

	if len(result.ExceededBudgets) > 0 {
		go services.NotificationServiceInstance.SendBudgetExceededAlerts(userID, result.ExceededBudgets)
	}

	utils.JSONData(ctx, iris.StatusOK, "Transaction updated successfully", result)
}

func DeleteTransaction(ctx iris.Context) {
	transactionID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid transaction id", ctx)
		return
	}

	account, err := services.DeleteTransaction(storage.DB, utils.ContextUserID(ctx), transactionID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Transaction deleted successfully", iris.Map{
		"account": account,
	})
}

type CreateTransactionInput struct {
	AccountID       uint   `json:"accountId" validate:"required"`
	CategoryID      uint   `json:"categoryId" validate:"required"`
	SubCategoryID   *uint  `json:"subCategoryId"`
	Amount          string `json:"amount" validate:"required"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	Description     string `json:"description" validate:"max=512"`
	TransactionDate string `json:"transactionDate"`
}

type UpdateTransactionInput struct {
	AccountID       *uint   `json:"accountId"`
	CategoryID      *uint   `json:"categoryId"`
	SubCategoryID   *uint   `json:"subCategoryId"`
	Amount          *string `json:"amount"`
	Type            *string `json:"type"`
	Status          *string `json:"status"`
	Description     *string `json:"description" validate:"omitempty,max=512"`
	TransactionDate *string `json:"transactionDate"`
}
