package handlers

import (
	"log/slog"
	"net/http"

	"github.com/foodcourt-labs/order-platform/internal/api/middleware"
	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	service "github.com/foodcourt-labs/order-platform/internal/services"
	"github.com/foodcourt-labs/order-platform/internal/utils"
	"github.com/foodcourt-labs/order-platform/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart returns the caller's current cart with its derived total.
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		response.Success(w, http.StatusOK, h.cartService.GetCart(r.Context(), claims.UserID))
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item added", slog.Int64("productId", req.ProductID), slog.String("size", string(req.Size)))
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity applies a -1/+1 delta to one cart line. Unknown item ids are
// a no-op and still answer 200 with the current cart.
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid cart item id"))
			return
		}

		var req models.UpdateCartQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart := h.cartService.UpdateQuantity(r.Context(), claims.UserID, itemID, req.Delta)

		response.Success(w, http.StatusOK, cart)
	}
}
