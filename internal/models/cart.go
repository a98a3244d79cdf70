package models

import (
	"github.com/google/uuid"
)

type Size string

const (
	SizeSmall      Size = "S"
	SizeMedium     Size = "M"
	SizeLarge      Size = "L"
	SizeExtraLarge Size = "XL"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge:
		return true
	}

	return false
}

// CartItem lives in memory only; it is never persisted. The ID is an opaque
// handle generated when the item enters the cart.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	Product   Product   `json:"product"`
	ProductID int64     `json:"product_id"`
	Size      Size      `json:"size"`
	Quantity  int       `json:"quantity"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Size      Size  `json:"size"       validate:"required,oneof=S M L XL"`
}

type UpdateCartQuantityRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}
