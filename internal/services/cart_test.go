package service_test

import (
	"context"
	"testing"

	"github.com/foodcourt-labs/order-platform/internal/cart"
	appErrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	service "github.com/foodcourt-labs/order-platform/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	margherita := &models.Product{ID: 1, Name: "Margherita", Price: 9.99}

	t.Run("Success - New Item", func(t *testing.T) {
		// Arrange
		mockProducts := new(mockProductService)
		mockProducts.On("GetProductByID", ctx, int64(1)).Return(margherita, nil).Once()
		cartService := service.NewCartService(cart.NewStore(), mockProducts)

		// Act
		result, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 1, Size: models.SizeMedium})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, int64(1), result.Items[0].ProductID)
		assert.Equal(t, models.SizeMedium, result.Items[0].Size)
		assert.Equal(t, 1, result.Items[0].Quantity)
		assert.InDelta(t, 9.99, result.Total, 0.001)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Success - Same Product And Size Merges", func(t *testing.T) {
		// Arrange
		mockProducts := new(mockProductService)
		mockProducts.On("GetProductByID", ctx, int64(1)).Return(margherita, nil).Twice()
		cartService := service.NewCartService(cart.NewStore(), mockProducts)

		// Act
		_, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 1, Size: models.SizeMedium})
		assert.NoError(t, err)
		result, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 1, Size: models.SizeMedium})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 2, result.Items[0].Quantity)
		assert.InDelta(t, 19.98, result.Total, 0.001)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Success - Different Size Is A Separate Line", func(t *testing.T) {
		// Arrange
		mockProducts := new(mockProductService)
		mockProducts.On("GetProductByID", ctx, int64(1)).Return(margherita, nil).Twice()
		cartService := service.NewCartService(cart.NewStore(), mockProducts)

		// Act
		_, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 1, Size: models.SizeSmall})
		assert.NoError(t, err)
		result, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 1, Size: models.SizeLarge})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result.Items, 2)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockProducts := new(mockProductService)
		notFound := appErrors.NotFoundError("Product not found")
		mockProducts.On("GetProductByID", ctx, int64(99)).Return(nil, notFound).Once()
		cartService := service.NewCartService(cart.NewStore(), mockProducts)

		// Act
		result, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 99, Size: models.SizeMedium})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, result)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockProducts.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	margherita := &models.Product{ID: 1, Name: "Margherita", Price: 9.99}

	setup := func(t *testing.T) (service.CartService, *models.Cart) {
		mockProducts := new(mockProductService)
		mockProducts.On("GetProductByID", ctx, int64(1)).Return(margherita, nil).Once()
		cartService := service.NewCartService(cart.NewStore(), mockProducts)

		result, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: 1, Size: models.SizeMedium})
		assert.NoError(t, err)

		return cartService, result
	}

	t.Run("Increment", func(t *testing.T) {
		// Arrange
		cartService, current := setup(t)

		// Act
		result := cartService.UpdateQuantity(ctx, userID, current.Items[0].ID, 1)

		// Assert
		assert.Equal(t, 2, result.Items[0].Quantity)
		assert.InDelta(t, 19.98, result.Total, 0.001)
	})

	t.Run("Decrement To Zero Removes The Item", func(t *testing.T) {
		// Arrange
		cartService, current := setup(t)

		// Act
		result := cartService.UpdateQuantity(ctx, userID, current.Items[0].ID, -1)

		// Assert
		assert.Empty(t, result.Items)
		assert.Equal(t, float64(0), result.Total)
	})

	t.Run("Unknown Item Is A No-Op", func(t *testing.T) {
		// Arrange
		cartService, _ := setup(t)

		// Act
		result := cartService.UpdateQuantity(ctx, userID, uuid.New(), -1)

		// Assert
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Items[0].Quantity)
	})
}

func TestGetCart(t *testing.T) {
	// Arrange
	ctx := context.Background()
	cartService := service.NewCartService(cart.NewStore(), new(mockProductService))

	// Act
	result := cartService.GetCart(ctx, uuid.New())

	// Assert
	assert.NotNil(t, result)
	assert.Empty(t, result.Items)
	assert.Equal(t, float64(0), result.Total)
}
