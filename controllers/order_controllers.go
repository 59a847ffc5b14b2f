package controllers

import (
	"errors"
	"strconv"

	"github.com/tableserve/tableserve/models"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/services"
	"github.com/tableserve/tableserve/utils"
	"github.com/tableserve/tableserve/validators"
	"gorm.io/gorm"
)

// OrderController serves the public order endpoints: placing an order
// and polling its status.
type OrderController struct {
	DB    *gorm.DB
	Queue *services.QueueService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Queue: services.NewQueueService(db)}
}

type orderPayload struct {
	TableNumber string             `json:"tableNumber"`
	Items       []models.OrderItem `json:"items"`
	Subtotal    float64            `json:"subtotal"`
	Tax         float64            `json:"tax"`
	Total       float64            `json:"total"`
	Notes       string             `json:"notes"`
}

// Create validates the payload, estimates the wait from the live queue
// and stores the order in the pending state.
func (oc *OrderController) Create(req *router.Request, _ router.Params) *router.Response {
	if req.Body == nil {
		return router.BadRequest("Invalid request body")
	}

	if fieldErrors := validators.ValidateOrder(req.Body); len(fieldErrors) > 0 {
		return router.ValidationError(fieldErrors)
	}

	var payload orderPayload
	if err := req.Bind(&payload); err != nil {
		return router.BadRequest("Invalid request body")
	}

	tableNumber, ok := validators.NormalizeTableNumber(payload.TableNumber)
	if !ok {
		return router.BadRequest("Invalid table number")
	}

	queueDepth, err := oc.Queue.QueueDepth()
	if err != nil {
		utils.ErrorLogger.Errorf("queue depth query failed: %v", err)
		return router.ServerError("Failed to create order")
	}
	waitTime := services.EstimateWait(queueDepth)

	order := models.Order{
		TableNumber:       tableNumber,
		ItemList:          payload.Items,
		Subtotal:          payload.Subtotal,
		Tax:               payload.Tax,
		Total:             payload.Total,
		Status:            models.StatusPending,
		EstimatedWaitTime: waitTime,
		Notes:             payload.Notes,
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.ErrorLogger.Errorf("order insert failed: %v", err)
		return router.ServerError("Failed to create order")
	}

	utils.InfoLogger.Printf("Order %d placed for table %s (queue depth %d)", order.ID, tableNumber, queueDepth)

	return router.Created(map[string]interface{}{
		"order":             order,
		"estimatedWaitTime": waitTime,
		"queuePosition":     queueDepth + 1,
	}, "Order placed successfully")
}

func (oc *OrderController) Show(req *router.Request, params router.Params) *router.Response {
	id, err := strconv.ParseUint(params["id"], 10, 64)
	if err != nil {
		return router.NotFound("Order not found")
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return router.NotFound("Order not found")
		}
		return router.ServerError("Failed to load order")
	}

	return router.Success(order)
}

// WaitTime reports the current estimate; recomputed per request since it
// depends on live queue depth.
func (oc *OrderController) WaitTime(req *router.Request, _ router.Params) *router.Response {
	waitTime, queueDepth, err := oc.Queue.WaitTime()
	if err != nil {
		return router.ServerError("Failed to compute wait time")
	}

	return router.Success(map[string]interface{}{
		"waitTime":   waitTime,
		"queueDepth": queueDepth,
	})
}
