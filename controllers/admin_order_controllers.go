package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/utils"
	"gorm.io/gorm"
)

// AdminOrderController manages orders on behalf of staff.
type AdminOrderController struct {
	DB *gorm.DB
}

func NewAdminOrderController(db *gorm.DB) *AdminOrderController {
	return &AdminOrderController{DB: db}
}

// Index lists orders newest first with optional status and table
// filters; the page size is capped at 50.
func (aoc *AdminOrderController) Index(req *router.Request, _ router.Params) *router.Response {
	query := aoc.DB.Model(&models.Order{})

	if status := req.Query.Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if table := req.Query.Get("table"); table != "" {
		query = query.Where("table_number = ?", strings.ToUpper(table))
	}

	page, _ := strconv.Atoi(req.QueryParam("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(req.QueryParam("limit", "20"))
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	var orders []models.Order
	err := query.Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return router.ServerError("Failed to load orders")
	}

	return router.Success(map[string]interface{}{
		"orders": orders,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
		},
	})
}

func (aoc *AdminOrderController) Show(req *router.Request, params router.Params) *router.Response {
	order, resp := aoc.find(params["id"])
	if resp != nil {
		return resp
	}
	return router.Success(order)
}

// Update changes an order's status; status is the only field staff may
// patch.
func (aoc *AdminOrderController) Update(req *router.Request, params router.Params) *router.Response {
	status := req.BodyString("status")
	if status == "" || !models.IsValidStatus(status) {
		return router.BadRequest("Valid status required")
	}

	order, resp := aoc.find(params["id"])
	if resp != nil {
		return resp
	}

	order.Status = status
	if err := aoc.DB.Save(order).Error; err != nil {
		utils.ErrorLogger.Errorf("order %d status update failed: %v", order.ID, err)
		return router.ServerError("Failed to update order")
	}

	return router.Success(order, "Order status updated")
}

func (aoc *AdminOrderController) Delete(req *router.Request, params router.Params) *router.Response {
	order, resp := aoc.find(params["id"])
	if resp != nil {
		return resp
	}

	if err := aoc.DB.Delete(order).Error; err != nil {
		return router.ServerError("Failed to delete order")
	}

	utils.InfoLogger.Printf("Order %d deleted by staff", order.ID)
	return router.NoContent()
}

func (aoc *AdminOrderController) find(rawID string) (*models.Order, *router.Response) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, router.NotFound("Order not found")
	}

	var order models.Order
	if err := aoc.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, router.NotFound("Order not found")
		}
		return nil, router.ServerError("Failed to load order")
	}
	return &order, nil
}
