package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the non-terminal states that count toward queue
// depth.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusPreparing}

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusPreparing: true,
	StatusReady:     true,
	StatusDelivered: true,
	StatusCancelled: true,
}

func IsValidStatus(status string) bool {
	return validStatuses[status]
}

// OrderItem is a line item snapshot embedded in the order's JSON column;
// it is not its own table.
type OrderItem struct {
	MenuItemID          string  `json:"menuItemId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TableNumber string `gorm:"type:varchar(3);not null;index" json:"tableNumber"`

	Items    string      `gorm:"type:text;not null" json:"-"`
	ItemList []OrderItem `gorm:"-" json:"items"`

	Subtotal          float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax               float64 `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total             float64 `gorm:"type:decimal(10,2);not null" json:"total"`
	Status            string  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	EstimatedWaitTime int     `gorm:"not null" json:"estimatedWaitTime"`
	Notes             string  `gorm:"type:varchar(500)" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (o *Order) BeforeSave(tx *gorm.DB) error {
	raw, err := json.Marshal(o.ItemList)
	if err != nil {
		return err
	}
	o.Items = string(raw)
	return nil
}

func (o *Order) AfterFind(tx *gorm.DB) error {
	o.ItemList = []OrderItem{}
	if o.Items == "" {
		return nil
	}
	return json.Unmarshal([]byte(o.Items), &o.ItemList)
}
