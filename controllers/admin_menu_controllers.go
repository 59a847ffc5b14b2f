package controllers

import (
	"errors"
	"strconv"

	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/utils"
	"gorm.io/gorm"
)

// AdminMenuController manages the menu catalogue.
type AdminMenuController struct {
	DB *gorm.DB
}

func NewAdminMenuController(db *gorm.DB) *AdminMenuController {
	return &AdminMenuController{DB: db}
}

type menuItemPayload struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price"`
	Category        string   `json:"category"`
	Image           string   `json:"image"`
	Available       *bool    `json:"available"`
	PreparationTime *int     `json:"preparationTime"`
	Tags            []string `json:"tags"`
}

func (p *menuItemPayload) validate(requireAll bool) map[string]string {
	fieldErrors := make(map[string]string)

	if requireAll && p.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if requireAll && p.Category == "" {
		fieldErrors["category"] = "Category is required"
	}
	if requireAll && p.Price == nil {
		fieldErrors["price"] = "Price is required"
	}
	if p.Price != nil && *p.Price < 0 {
		fieldErrors["price"] = "Price cannot be negative"
	}
	if p.PreparationTime != nil && *p.PreparationTime < 0 {
		fieldErrors["preparationTime"] = "Preparation time cannot be negative"
	}

	return fieldErrors
}

func (amc *AdminMenuController) Create(req *router.Request, _ router.Params) *router.Response {
	var payload menuItemPayload
	if err := req.Bind(&payload); err != nil {
		return router.BadRequest("Invalid request body")
	}

	if fieldErrors := payload.validate(true); len(fieldErrors) > 0 {
		return router.ValidationError(fieldErrors)
	}

	item := models.MenuItem{
		Name:            payload.Name,
		Description:     payload.Description,
		Price:           *payload.Price,
		Category:        payload.Category,
		Image:           payload.Image,
		Available:       true,
		PreparationTime: 5,
		TagList:         payload.Tags,
	}
	if payload.Available != nil {
		item.Available = *payload.Available
	}
	if payload.PreparationTime != nil {
		item.PreparationTime = *payload.PreparationTime
	}

	if err := amc.DB.Create(&item).Error; err != nil {
		utils.ErrorLogger.Errorf("menu item insert failed: %v", err)
		return router.ServerError("Failed to create menu item")
	}

	return router.Created(item, "Menu item created")
}

func (amc *AdminMenuController) Update(req *router.Request, params router.Params) *router.Response {
	item, resp := amc.find(params["id"])
	if resp != nil {
		return resp
	}

	var payload menuItemPayload
	if err := req.Bind(&payload); err != nil {
		return router.BadRequest("Invalid request body")
	}

	if fieldErrors := payload.validate(false); len(fieldErrors) > 0 {
		return router.ValidationError(fieldErrors)
	}

	// Only fields present in the body are changed.
	if _, ok := req.Body["name"]; ok {
		item.Name = payload.Name
	}
	if _, ok := req.Body["description"]; ok {
		item.Description = payload.Description
	}
	if payload.Price != nil {
		item.Price = *payload.Price
	}
	if _, ok := req.Body["category"]; ok {
		item.Category = payload.Category
	}
	if _, ok := req.Body["image"]; ok {
		item.Image = payload.Image
	}
	if payload.Available != nil {
		item.Available = *payload.Available
	}
	if payload.PreparationTime != nil {
		item.PreparationTime = *payload.PreparationTime
	}
	if payload.Tags != nil {
		item.TagList = payload.Tags
	}

	if err := amc.DB.Save(item).Error; err != nil {
		utils.ErrorLogger.Errorf("menu item %d update failed: %v", item.ID, err)
		return router.ServerError("Failed to update menu item")
	}

	return router.Success(item, "Menu item updated")
}

func (amc *AdminMenuController) Delete(req *router.Request, params router.Params) *router.Response {
	item, resp := amc.find(params["id"])
	if resp != nil {
		return resp
	}

	if err := amc.DB.Delete(item).Error; err != nil {
		return router.ServerError("Failed to delete menu item")
	}

	return router.NoContent()
}

func (amc *AdminMenuController) find(rawID string) (*models.MenuItem, *router.Response) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, router.NotFound("Menu item not found")
	}

	var item models.MenuItem
	if err := amc.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, router.NotFound("Menu item not found")
		}
		return nil, router.ServerError("Failed to load menu item")
	}
	return &item, nil
}
