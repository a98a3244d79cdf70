package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID        int64       `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem rows are written once, as a batch inside the order's transaction,
// and never mutated afterwards.
type OrderItem struct {
	ID        int64    `json:"id"`
	OrderID   int64    `json:"order_id"`
	ProductID int64    `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Size      Size     `json:"size"`
	Product   *Product `json:"product,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=New Preparing Cooking Delivering Delivered"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Size   int     `json:"size"`
}
