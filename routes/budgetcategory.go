package routes

import (
	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
)

// CreateBudgetCategory allocates part of a budget to a spending category.
func CreateBudgetCategory(ctx iris.Context) {
	var input CreateBudgetCategoryInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	allocated, allocatedErr := decimal.NewFromString(input.AllocatedAmount)
	if allocatedErr != nil || !allocated.IsPositive() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "allocatedAmount must be a positive decimal", ctx)
		return
	}

	userID := utils.ContextUserID(ctx)

	var budget models.Budget
	budgetExists := storage.DB.Where("id = ? AND user_id = ?", input.BudgetID, userID).Find(&budget)
	if budgetExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if budgetExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var category models.Category
	categoryExists := storage.DB.Where("id = ? AND user_id = ?", input.CategoryID, userID).Find(&category)
	if categoryExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if categoryExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var existing int64
	storage.DB.Model(&models.BudgetCategory{}).
		Where("budget_id = ? AND category_id = ?", input.BudgetID, input.CategoryID).
		Count(&existing)
	if existing > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Category is already allocated in this budget", ctx)
		return
	}

	budgetCategory := models.BudgetCategory{
		BudgetID:        input.BudgetID,
		CategoryID:      input.CategoryID,
		AllocatedAmount: allocated,
		SpentAmount:     decimal.Zero,
	}

	if err := storage.DB.Create(&budgetCategory).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusCreated, "Budget category created successfully", budgetCategory)
}

func GetBudgetCategories(ctx iris.Context) {
	query := storage.DB.
		Joins("JOIN budgets ON budgets.id = budget_categories.budget_id").
		Where("budgets.user_id = ?", utils.ContextUserID(ctx)).
		Preload("Category")

	if budgetID := ctx.URLParam("budgetId"); budgetID != "" {
		query = query.Where("budget_categories.budget_id = ?", budgetID)
	}

	var budgetCategories []models.BudgetCategory
	if err := query.Find(&budgetCategories).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Budget categories retrieved successfully", budgetCategories)
}

func UpdateBudgetCategory(ctx iris.Context) {
	budgetCategory := getOwnedBudgetCategory(ctx)
	if budgetCategory == nil {
		return
	}

	var input UpdateBudgetCategoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.AllocatedAmount != nil {
		allocated, allocatedErr := decimal.NewFromString(*input.AllocatedAmount)
		if allocatedErr != nil || !allocated.IsPositive() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "allocatedAmount must be a positive decimal", ctx)
			return
		}
		budgetCategory.AllocatedAmount = allocated
	}

	if err := storage.DB.Save(budgetCategory).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Budget category updated successfully", budgetCategory)
}

func DeleteBudgetCategory(ctx iris.Context) {
	budgetCategory := getOwnedBudgetCategory(ctx)
	if budgetCategory == nil {
		return
	}

	if err := storage.DB.Delete(budgetCategory).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getOwnedBudgetCategory(ctx iris.Context) *models.BudgetCategory {
	budgetCategoryID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid budget category id", ctx)
		return nil
	}

	var budgetCategory models.BudgetCategory
	result := storage.DB.
		Joins("JOIN budgets ON budgets.id = budget_categories.budget_id").
		Where("budget_categories.id = ? AND budgets.user_id = ?", budgetCategoryID, utils.ContextUserID(ctx)).
		Find(&budgetCategory)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &budgetCategory
}

type CreateBudgetCategoryInput struct {
	BudgetID        uint   `json:"budgetId" validate:"required"`
	CategoryID      uint   `json:"categoryId" validate:"required"`
	AllocatedAmount string `json:"allocatedAmount" validate:"required"`
}

type UpdateBudgetCategoryInput struct {
	AllocatedAmount *string `json:"allocatedAmount"`
}
