package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"gorm.io/gorm"
)

// MenuController serves the public menu endpoints.
type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// List returns available items, optionally filtered by category or a
// free-text search over name, description and tags.
func (mc *MenuController) List(req *router.Request, _ router.Params) *router.Response {
	var items []models.MenuItem

	query := mc.DB.Where("available = ?", true).Order("category, name")

	if search := req.Query.Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	} else if category := req.Query.Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Find(&items).Error; err != nil {
		return router.ServerError("Failed to load menu")
	}

	var categories []string
	if err := mc.DB.Model(&models.MenuItem{}).
		Distinct("category").Order("category").
		Pluck("category", &categories).Error; err != nil {
		return router.ServerError("Failed to load menu")
	}

	return router.Success(map[string]interface{}{
		"categories": categories,
		"items":      items,
	})
}

func (mc *MenuController) Show(req *router.Request, params router.Params) *router.Response {
	id, err := strconv.ParseUint(params["id"], 10, 64)
	if err != nil {
		return router.NotFound("Menu item not found")
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return router.NotFound("Menu item not found")
		}
		return router.ServerError("Failed to load menu item")
	}

	return router.Success(item)
}

// CheckAvailability maps the requested item ids to their availability
// flags. Unknown ids are simply absent from the result.
func (mc *MenuController) CheckAvailability(req *router.Request, _ router.Params) *router.Response {
	rawIDs, ok := req.Body["itemIds"].([]interface{})
	if !ok || len(rawIDs) == 0 {
		return router.BadRequest("Item IDs array required")
	}

	ids := make([]uint64, 0, len(rawIDs))
	for _, raw := range rawIDs {
		switch v := raw.(type) {
		case float64:
			ids = append(ids, uint64(v))
		case string:
			if id, err := strconv.ParseUint(v, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}

	var items []models.MenuItem
	if err := mc.DB.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return router.ServerError("Failed to check availability")
	}

	availability := make(map[string]bool, len(items))
	for _, item := range items {
		availability[fmt.Sprintf("%d", item.ID)] = item.Available
	}

	return router.Success(availability)
}
