package routes

import (
	"time"

	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

func CreateBudget(ctx iris.Context) {
	var input CreateBudgetInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amount, amountErr := decimal.NewFromString(input.Amount)
	if amountErr != nil || !amount.IsPositive() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "amount must be a positive decimal", ctx)
		return
	}

	startDate, startErr := time.Parse("2006-01-02", input.StartDate)
	endDate, endErr := time.Parse("2006-01-02", input.EndDate)
	if startErr != nil || endErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate and endDate must be YYYY-MM-DD dates", ctx)
		return
	}
	if !endDate.After(startDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be after startDate", ctx)
		return
	}

	budget := models.Budget{
		UserID:    utils.ContextUserID(ctx),
		Name:      input.Name,
		Amount:    amount,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := storage.DB.Create(&budget).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusCreated, "Budget created successfully", budget)
}

func GetBudgets(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	query := storage.DB.Preload("BudgetCategories").Preload("BudgetCategories.Category").
		Where("user_id = ?", userID)
	if ctx.URLParamDefault("active", "") == "true" {
		now := time.Now()
		query = query.Where("start_date <= ? AND end_date >= ?", now, now)
	}

	var budgets []models.Budget
	if err := query.Order("start_date desc").Find(&budgets).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Budgets retrieved successfully", budgets)
}

func GetBudget(ctx iris.Context) {
	budget := getOwnedBudget(ctx)
	if budget == nil {
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Budget retrieved successfully", budget)
}

func UpdateBudget(ctx iris.Context) {
	budget := getOwnedBudget(ctx)
	if budget == nil {
		return
	}

	var input UpdateBudgetInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		budget.Name = *input.Name
	}
	if input.Amount != nil {
		amount, amountErr := decimal.NewFromString(*input.Amount)
		if amountErr != nil || !amount.IsPositive() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "amount must be a positive decimal", ctx)
			return
		}
		budget.Amount = amount
	}
	if input.StartDate != nil {
		startDate, parseErr := time.Parse("2006-01-02", *input.StartDate)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be a YYYY-MM-DD date", ctx)
			return
		}
		budget.StartDate = startDate
	}
	if input.EndDate != nil {
		endDate, parseErr := time.Parse("2006-01-02", *input.EndDate)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be a YYYY-MM-DD date", ctx)
			return
		}
		budget.EndDate = endDate
	}
	if !budget.EndDate.After(budget.StartDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be after startDate", ctx)
		return
	}

	if err := storage.DB.Save(budget).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Budget updated successfully", budget)
}

func DeleteBudget(ctx iris.Context) {
	budget := getOwnedBudget(ctx)
	if budget == nil {
		return
	}

	if err := storage.DB.Select("BudgetCategories").Delete(budget).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getOwnedBudget(ctx iris.Context) *models.Budget {
	budgetID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid budget id", ctx)
		return nil
	}

	var budget models.Budget
	result := storage.DB.Preload("BudgetCategories").Preload("BudgetCategories.Category").
		Where("id = ? AND user_id = ?", budgetID, utils.ContextUserID(ctx)).
		Find(&budget)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &budget
}

type CreateBudgetInput struct {
	Name      string `json:"name" validate:"required,max=256"`
	Amount    string `json:"amount" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type UpdateBudgetInput struct {
	Name      *string `json:"name" validate:"omitempty,max=256"`
	Amount    *string `json:"amount"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}
