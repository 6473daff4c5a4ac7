package routes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/muhozajohn/lala-task-be/models"
	"github.com/muhozajohn/lala-task-be/services"
	"github.com/muhozajohn/lala-task-be/storage"
	"github.com/muhozajohn/lala-task-be/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func CreateProperty(ctx iris.Context) {
	var input CreatePropertyInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	price, priceErr := decimal.NewFromString(input.PricePerNight)
	if priceErr != nil || !price.IsPositive() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "pricePerNight must be a positive amount", ctx)
		return
	}

	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	houseRules := input.HouseRules
	if houseRules == nil {
		houseRules = []string{}
	}
	houseRulesJSON, _ := json.Marshal(houseRules)

	imagesArr := insertImages(insertImagesArgs{images: input.Images})
	if imagesArr == nil {
		imagesArr = []string{}
	}
	imagesJSON, _ := json.Marshal(imagesArr)

	property := models.Property{
		HostID:        claims.ID,
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		PricePerNight: price,
		Currency:      input.Currency,
		MaxGuests:     input.MaxGuests,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		Amenities:     datatypes.JSON(amenitiesJSON),
		HouseRules:    datatypes.JSON(houseRulesJSON),
		Images:        datatypes.JSON(imagesJSON),
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusCreated, "Property created successfully", property)
}

func GetProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Preload("Host").Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Property retrieved successfully", property)
}

// GetProperties lists properties, optionally narrowed by location, guest
// count and price range query params.
func GetProperties(ctx iris.Context) {
	query := storage.DB.Preload("Host")

	if location := ctx.URLParam("location"); location != "" {
		query = query.Where("lower(location) LIKE lower(?)", "%"+location+"%")
	}
	if guests := ctx.URLParamIntDefault("guests", 0); guests > 0 {
		query = query.Where("max_guests >= ?", guests)
	}
	if minPrice := ctx.URLParam("minPrice"); minPrice != "" {
		if min, err := decimal.NewFromString(minPrice); err == nil {
			query = query.Where("price_per_night >= ?", min)
		}
	}
	if maxPrice := ctx.URLParam("maxPrice"); maxPrice != "" {
		if max, err := decimal.NewFromString(maxPrice); err == nil {
			query = query.Where("price_per_night <= ?", max)
		}
	}

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("perPage", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := query.Model(&models.Property{}).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	err := query.Order("created_at desc").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

func UpdateProperty(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	propertyExists := storage.DB.Find(&property, id)
	if propertyExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if property.HostID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Title != nil {
		property.Title = *input.Title
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.Location != nil {
		property.Location = *input.Location
	}
	if input.PricePerNight != nil {
		price, priceErr := decimal.NewFromString(*input.PricePerNight)
		if priceErr != nil || !price.IsPositive() {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "pricePerNight must be a positive amount", ctx)
			return
		}
		property.PricePerNight = price
	}
	if input.Currency != nil {
		property.Currency = *input.Currency
	}
	if input.MaxGuests != nil {
		property.MaxGuests = *input.MaxGuests
	}
	if input.Bedrooms != nil {
		property.Bedrooms = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		property.Bathrooms = *input.Bathrooms
	}
	if input.Amenities != nil {
		amenitiesJSON, _ := json.Marshal(input.Amenities)
		property.Amenities = datatypes.JSON(amenitiesJSON)
	}
	if input.HouseRules != nil {
		houseRulesJSON, _ := json.Marshal(input.HouseRules)
		property.HouseRules = datatypes.JSON(houseRulesJSON)
	}
	var removedImages []string
	if input.Images != nil {
		var previousImages []string
		json.Unmarshal(property.Images, &previousImages)

		imagesArr := insertImages(insertImagesArgs{images: input.Images, propertyID: id})
		removedImages = droppedImages(previousImages, imagesArr)
		imagesJSON, _ := json.Marshal(imagesArr)
		property.Images = datatypes.JSON(imagesJSON)
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	for _, image := range removedImages {
		go storage.DeleteImage(image)
	}

	utils.JSONData(ctx, iris.StatusOK, "Property updated successfully", property)
}

func DeleteProperty(ctx iris.Context) {
	propertyID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid property id", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	var property models.Property
	storage.DB.Select("images").Find(&property, propertyID)
	var images []string
	json.Unmarshal(property.Images, &images)

	if err := services.DeleteProperty(storage.DB, propertyID, claims.ID); err != nil {
		handleServiceError(err, ctx)
		return
	}

	for _, image := range images {
		go storage.DeleteImage(image)
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// CheckAvailability reports whether the property is free for the requested
// window, listing the bookings in the way when it is not.
func CheckAvailability(ctx iris.Context) {
	propertyID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid property id", ctx)
		return
	}

	checkIn, checkInErr := time.Parse("2006-01-02", ctx.URLParam("checkIn"))
	checkOut, checkOutErr := time.Parse("2006-01-02", ctx.URLParam("checkOut"))
	if checkInErr != nil || checkOutErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn and checkOut must be YYYY-MM-DD dates", ctx)
		return
	}

	result, err := services.CheckConflict(storage.DB, propertyID, checkIn, checkOut, 0)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.JSONData(ctx, iris.StatusOK, "Availability checked successfully", iris.Map{
		"available":           !result.Conflict,
		"conflictingBookings": result.ConflictingBookings,
	})
}

func insertImages(arg insertImagesArgs) []string {
	var imagesArr []string
	for i, image := range arg.images {
		if image == "" {
			continue
		}
		if !strings.Contains(image, "res.cloudinary.com") {
			timestamp := time.Now().UnixNano() / int64(time.Millisecond)
			publicID := fmt.Sprintf("property_%d_%d", timestamp, i)
			if arg.propertyID != "" {
				publicID = "property/" + arg.propertyID + "/" + publicID
			}

			url := storage.UploadBase64Image(image, publicID)
			if url != "" {
				imagesArr = append(imagesArr, url)
			}
		} else {
			imagesArr = append(imagesArr, image)
		}
	}
	return imagesArr
}

// droppedImages returns the previously stored URLs no longer present in the
// replacement list.
func droppedImages(previous []string, kept []string) []string {
	keptSet := make(map[string]struct{}, len(kept))
	for _, image := range kept {
		keptSet[image] = struct{}{}
	}

	var dropped []string
	for _, image := range previous {
		if _, ok := keptSet[image]; !ok {
			dropped = append(dropped, image)
		}
	}
	return dropped
}

type insertImagesArgs struct {
	images     []string
	propertyID string
}

type CreatePropertyInput struct {
	Title         string   `json:"title" validate:"required,max=256"`
	Description   string   `json:"description"`
	Location      string   `json:"location" validate:"required,max=256"`
	PricePerNight string   `json:"pricePerNight" validate:"required"`
	Currency      string   `json:"currency" validate:"omitempty,len=3"`
	MaxGuests     int      `json:"maxGuests" validate:"required,gte=1,lte=32"`
	Bedrooms      int      `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms     int      `json:"bathrooms" validate:"gte=0,lte=20"`
	Amenities     []string `json:"amenities"`
	HouseRules    []string `json:"houseRules"`
	Images        []string `json:"images"`
}

type UpdatePropertyInput struct {
	Title         *string  `json:"title" validate:"omitempty,max=256"`
	Description   *string  `json:"description"`
	Location      *string  `json:"location" validate:"omitempty,max=256"`
	PricePerNight *string  `json:"pricePerNight"`
	Currency      *string  `json:"currency" validate:"omitempty,len=3"`
	MaxGuests     *int     `json:"maxGuests" validate:"omitempty,gte=1,lte=32"`
	Bedrooms      *int     `json:"bedrooms" validate:"omitempty,gte=0,lte=20"`
	Bathrooms     *int     `json:"bathrooms" validate:"omitempty,gte=0,lte=20"`
	Amenities     []string `json:"amenities"`
	HouseRules    []string `json:"houseRules"`
	Images        []string `json:"images"`
}
