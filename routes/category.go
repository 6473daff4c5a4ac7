package routes

import (
	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
)

func CreateCategory(ctx iris.Context) {
	var input CreateCategoryInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	categoryType := models.CategoryType(input.Type)
	if !categoryType.Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "type must be INCOME or EXPENSE", ctx)
		return
	}

	category := models.Category{
		UserID: utils.ContextUserID(ctx),
		Name:   input.Name,
		Type:   categoryType,
		Icon:   input.Icon,
	}

	if err := storage.DB.Create(&category).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusCreated, "Category created successfully", category)
}

func GetCategories(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	query := storage.DB.Preload("SubCategories").Where("user_id = ?", userID)
	if categoryType := ctx.URLParam("type"); categoryType != "" {
		query = query.Where("type = ?", categoryType)
	}

	var categories []models.Category
	if err := query.Order("name asc").Find(&categories).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Categories retrieved successfully", categories)
}

func GetCategory(ctx iris.Context) {
	category := getOwnedCategory(ctx)
	if category == nil {
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Category retrieved successfully", category)
}

func UpdateCategory(ctx iris.Context) {
	category := getOwnedCategory(ctx)
	if category == nil {
		return
	}

	var input UpdateCategoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Type != nil {
		categoryType := models.CategoryType(*input.Type)
		if !categoryType.Valid() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "type must be INCOME or EXPENSE", ctx)
			return
		}
		category.Type = categoryType
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}

	if err := storage.DB.Save(category).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Category updated successfully", category)
}

// DeleteCategory refuses while transactions still reference the category,
// so the ledger never loses its categorization.
func DeleteCategory(ctx iris.Context) {
	category := getOwnedCategory(ctx)
	if category == nil {
		return
	}

	var count int64
	if err := storage.DB.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if count > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Category has transactions and cannot be deleted", ctx)
		return
	}

	if err := storage.DB.Select("SubCategories").Delete(category).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getOwnedCategory(ctx iris.Context) *models.Category {
	categoryID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid category id", ctx)
		return nil
	}

	var category models.Category
	result := storage.DB.Preload("SubCategories").
		Where("id = ? AND user_id = ?", categoryID, utils.ContextUserID(ctx)).
		Find(&category)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &category
}

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Type string `json:"type" validate:"required"`
	Icon string `json:"icon" validate:"max=128"`
}

type UpdateCategoryInput struct {
	Name *string `json:"name" validate:"omitempty,max=256"`
	Type *string `json:"type"`
	Icon *string `json:"icon" validate:"omitempty,max=128"`
}
