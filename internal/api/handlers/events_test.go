package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodcourt-labs/order-platform/internal/api/handlers"
	"github.com/foodcourt-labs/order-platform/internal/models"
	"github.com/foodcourt-labs/order-platform/internal/realtime"
	"github.com/foodcourt-labs/order-platform/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// decodeSnapshot pulls the orders out of the stream's opening snapshot event.
func decodeSnapshot(t *testing.T, body string) []models.Order {
	t.Helper()

	require.True(t, strings.HasPrefix(body, "event: snapshot\n"), "stream should open with a snapshot event")

	lines := strings.Split(body, "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	require.True(t, strings.HasPrefix(lines[1], "data: "))

	var orders []models.Order
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &orders))

	return orders
}

func TestEventsHandlerStream(t *testing.T) {
	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockOrders := new(mockOrderService)
		handler := handlers.NewEventsHandler(realtime.NewBus(), mockOrders, 16)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/orders/events", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Stream()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockOrders.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - Snapshot Then Close", func(t *testing.T) {
		// Arrange
		mockOrders := new(mockOrderService)
		bus := realtime.NewBus()
		handler := handlers.NewEventsHandler(bus, mockOrders, 16)
		userID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/events", nil, userID, nil)
		ctx, cancelRequest := context.WithCancel(req.Context())
		req = req.WithContext(ctx)

		recorder := httptest.NewRecorder()

		fetched := []models.Order{
			{ID: 2, UserID: userID, Status: models.OrderStatusPreparing},
			{ID: 1, UserID: userID, Status: models.OrderStatusDelivered},
		}

		mockOrders.On("ListOrders", mock.Anything, mock.Anything, 1, 50).
			Return(fetched, 2, nil).
			Run(func(args mock.Arguments) {
				// Ending the request here means the handler returns right
				// after writing the snapshot.
				cancelRequest()
			}).Once()

		// Act
		handler.Stream()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))

		orders := decodeSnapshot(t, recorder.Body.String())
		require.Len(t, orders, 2)
		assert.Equal(t, int64(2), orders[0].ID)
		assert.Equal(t, int64(1), orders[1].ID)

		assert.Equal(t, 0, bus.SubscriberCount(), "subscription should be torn down with the stream")
		mockOrders.AssertExpectations(t)
	})

	t.Run("Success - Event That Raced The Fetch Wins In The Snapshot", func(t *testing.T) {
		// Arrange
		mockOrders := new(mockOrderService)
		bus := realtime.NewBus()
		handler := handlers.NewEventsHandler(bus, mockOrders, 16)
		userID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/events", nil, userID, nil)
		ctx, cancelRequest := context.WithCancel(req.Context())
		req = req.WithContext(ctx)

		recorder := httptest.NewRecorder()

		fetched := []models.Order{
			{ID: 1, UserID: userID, Status: models.OrderStatusNew},
		}

		mockOrders.On("ListOrders", mock.Anything, mock.Anything, 1, 50).
			Return(fetched, 1, nil).
			Run(func(args mock.Arguments) {
				// The subscription is already live, so these are the raced
				// events: a status change to a fetched order and an insert
				// the fetch missed.
				bus.Publish(realtime.OrderEvent{
					Op:    realtime.OpUpdate,
					Order: models.Order{ID: 1, UserID: userID, Status: models.OrderStatusPreparing},
				})
				bus.Publish(realtime.OrderEvent{
					Op:    realtime.OpInsert,
					Order: models.Order{ID: 2, UserID: userID, Status: models.OrderStatusNew},
				})

				cancelRequest()
			}).Once()

		// Act
		handler.Stream()(recorder, req)

		// Assert
		orders := decodeSnapshot(t, recorder.Body.String())
		require.Len(t, orders, 2)

		byID := make(map[int64]models.Order, len(orders))
		for _, order := range orders {
			byID[order.ID] = order
		}

		assert.Equal(t, models.OrderStatusPreparing, byID[1].Status, "live status should beat the fetched one")
		assert.Equal(t, models.OrderStatusNew, byID[2].Status)
		mockOrders.AssertExpectations(t)
	})

	t.Run("Success - Events For Other Users Are Not Delivered", func(t *testing.T) {
		// Arrange
		mockOrders := new(mockOrderService)
		bus := realtime.NewBus()
		handler := handlers.NewEventsHandler(bus, mockOrders, 16)
		userID := uuid.New()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/events", nil, userID, nil)
		ctx, cancelRequest := context.WithCancel(req.Context())
		req = req.WithContext(ctx)

		recorder := httptest.NewRecorder()

		mockOrders.On("ListOrders", mock.Anything, mock.Anything, 1, 50).
			Return([]models.Order{}, 0, nil).
			Run(func(args mock.Arguments) {
				bus.Publish(realtime.OrderEvent{
					Op:    realtime.OpInsert,
					Order: models.Order{ID: 9, UserID: uuid.New(), Status: models.OrderStatusNew},
				})

				cancelRequest()
			}).Once()

		// Act
		handler.Stream()(recorder, req)

		// Assert
		orders := decodeSnapshot(t, recorder.Body.String())
		assert.Empty(t, orders)
		mockOrders.AssertExpectations(t)
	})
}
