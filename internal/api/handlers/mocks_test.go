package handlers_test

import (
	"context"

	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) GetCart(ctx context.Context, userID uuid.UUID) *models.Cart {
	args := m.Called(ctx, userID)

	return args.Get(0).(*models.Cart)
}

func (m *mockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *mockCartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, delta int) *models.Cart {
	args := m.Called(ctx, userID, itemID, delta)

	return args.Get(0).(*models.Cart)
}

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderService) ListOrders(ctx context.Context, filter repository.OrderFilter, page int, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, filter, page, size)

	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}

	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockCheckoutService) InFlight(userID uuid.UUID) bool {
	args := m.Called(userID)

	return args.Bool(0)
}

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

type mockProfileRepository struct {
	mock.Mock
}

func (m *mockProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfileRepository) GetPushToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)

	return args.String(0), args.Error(1)
}

func (m *mockProfileRepository) SavePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)

	return args.Error(0)
}
