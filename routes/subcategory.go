package routes

import (
	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
)

func CreateSubCategory(ctx iris.Context) {
	var input CreateSubCategoryInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var category models.Category
	result := storage.DB.Where("id = ? AND user_id = ?", input.CategoryID, utils.ContextUserID(ctx)).
		Find(&category)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	subCategory := models.SubCategory{
		CategoryID: input.CategoryID,
		Name:       input.Name,
	}

	if err := storage.DB.Create(&subCategory).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusCreated, "SubCategory created successfully", subCategory)
}

func GetSubCategories(ctx iris.Context) {
	userID := utils.ContextUserID(ctx)

	query := storage.DB.
		Joins("JOIN categories ON categories.id = sub_categories.category_id").
		Where("categories.user_id = ?", userID)
	if categoryID := ctx.URLParamIntDefault("categoryId", 0); categoryID > 0 {
		query = query.Where("sub_categories.category_id = ?", categoryID)
	}

	var subCategories []models.SubCategory
	if err := query.Order("sub_categories.name asc").Find(&subCategories).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "SubCategories retrieved successfully", subCategories)
}

func UpdateSubCategory(ctx iris.Context) {
	subCategory := getOwnedSubCategory(ctx)
	if subCategory == nil {
		return
	}

	var input UpdateSubCategoryInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		subCategory.Name = *input.Name
	}

	if err := storage.DB.Save(subCategory).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "SubCategory updated successfully", subCategory)
}

func DeleteSubCategory(ctx iris.Context) {
	subCategory := getOwnedSubCategory(ctx)
	if subCategory == nil {
		return
	}

	var count int64
	if err := storage.DB.Model(&models.Transaction{}).
		Where("sub_category_id = ?", subCategory.ID).Count(&count).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if count > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "SubCategory has transactions and cannot be deleted", ctx)
		return
	}

	if err := storage.DB.Delete(subCategory).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getOwnedSubCategory(ctx iris.Context) *models.SubCategory {
	subCategoryID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid subcategory id", ctx)
		return nil
	}

	var subCategory models.SubCategory
	result := storage.DB.
		Joins("JOIN categories ON categories.id = sub_categories.category_id").
		Where("sub_categories.id = ? AND categories.user_id = ?", subCategoryID, utils.ContextUserID(ctx)).
		Find(&subCategory)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &subCategory
}

type CreateSubCategoryInput struct {
	CategoryID uint   `json:"categoryId" validate:"required"`
	Name       string `json:"name" validate:"required,max=256"`
}

type UpdateSubCategoryInput struct {
	Name *string `json:"name" validate:"omitempty,max=256"`
}
