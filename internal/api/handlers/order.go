package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/foodcourt-labs/order-platform/internal/api/middleware"
	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	service "github.com/foodcourt-labs/order-platform/internal/services"
	"github.com/foodcourt-labs/order-platform/internal/utils"
	"github.com/foodcourt-labs/order-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService    service.OrderService
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewOrderHandler(orderService service.OrderService, checkoutService service.CheckoutService) *OrderHandler {
	return &OrderHandler{orderService: orderService, checkoutService: checkoutService, validator: validator.New()}
}

// Checkout godoc
//	@Summary		Convert the caller's cart into a persisted order
//	@Description	Creates the order and its item batch atomically, clears the cart on success. An empty cart is a no-op.
//	@Tags			Orders
//	@Produce		json
//	@Success		201	{object}	models.Order			"Order created"
//	@Success		204	{object}	nil						"Cart was empty, nothing created"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409	{object}	response.ErrorResponse	"A checkout is already in flight"
//	@Failure		500	{object}	response.ErrorResponse	"Checkout failed, cart left intact"
//	@Security		BearerAuth
//	@Router			/checkout [post]
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		order, err := h.checkoutService.Checkout(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if order == nil {
			// empty cart
			w.WriteHeader(http.StatusNoContent)
			return
		}

		logger.Info("Order placed", slog.Int64("orderId", order.ID), slog.Float64("total", order.Total))
		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get order", slog.Int64("orderId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if order.UserID != claims.UserID && !claims.IsAdmin() {
			logger.Warn("Attempted to access another user's order", slog.Int64("orderId", id))
			response.Error(w, apperrors.ForbiddenError("You don't have permission to access this order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders returns the caller's orders, newest first. Admins see every
// order. ?archived=true selects delivered orders (the archive tab).
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		size, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || size < 1 || size > 100 {
			size = 10
		}

		filter := repository.OrderFilter{
			Archived: r.URL.Query().Get("archived") == "true",
		}

		if !claims.IsAdmin() {
			userID := claims.UserID
			filter.UserID = &userID
		}

		orders, total, err := h.orderService.ListOrders(r.Context(), filter, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.OrderListResponse{
			Orders: orders,
			Total:  total,
			Page:   page,
			Size:   size,
		})
	}
}

// UpdateOrderStatus godoc
//	@Summary		Advance an order to its next lifecycle stage (admin)
//	@Description	Applies one forward status transition and notifies the order's owner. Skips and backward moves are rejected.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Order ID"
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New order status"
//	@Success		200		{object}	models.Order					"Updated order"
//	@Failure		403		{object}	response.ErrorResponse			"Admin access required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		409		{object}	response.ErrorResponse			"Illegal transition"
//	@Security		BearerAuth
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status",
				slog.Int64("orderId", id),
				slog.String("newStatus", string(req.Status)),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.Int64("orderId", id), slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
