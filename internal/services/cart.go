package service

import (
	"context"

	"github.com/foodcourt-labs/order-platform/internal/cart"
	"github.com/foodcourt-labs/order-platform/internal/models"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) *models.Cart
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, delta int) *models.Cart
}

type cartService struct {
	store    *cart.Store
	products ProductService
}

func NewCartService(store *cart.Store, products ProductService) CartService {
	return &cartService{store: store, products: products}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) *models.Cart {
	return &models.Cart{
		Items: s.store.Items(userID),
		Total: s.store.Total(userID),
	}
}

// AddItem resolves the product from the catalog and puts one unit of
// (product, size) into the cart; an existing matching line is merged instead.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	s.store.AddItem(userID, *product, req.Size)

	return s.GetCart(ctx, userID), nil
}

// UpdateQuantity applies the delta; an unknown item id is a no-op by
// contract, so there is no error path.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, delta int) *models.Cart {
	s.store.UpdateQuantity(userID, itemID, delta)

	return s.GetCart(ctx, userID)
}
