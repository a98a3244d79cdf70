package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
)

type OrderService interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter, page int, size int) ([]models.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	notifier  NotificationService
}

func NewOrderService(orderRepo repository.OrderRepository, notifier NotificationService) OrderService {
	return &orderService{orderRepo: orderRepo, notifier: notifier}
}

func (s *orderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to get order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter, page int, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 10
	}

	orders, total, err := s.orderRepo.ListOrders(ctx, filter, page, size)
	if err != nil {
		return nil, 0, apperrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateStatus applies one administrative status transition. The lifecycle is
// enforced: only the next forward stage is accepted. A successful write
// dispatches exactly one notification to the order's owner.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {

	if !status.Valid() {
		return nil, apperrors.ValidationError("Unknown order status")
	}

	current, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to get order").WithError(err)
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, apperrors.InvalidTransitionError(
			fmt.Sprintf("Cannot move order from %s to %s", current.Status, status))
	}

	order, err := s.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to update order status").WithError(err)
	}

	s.notifier.Notify(ctx, order)

	return order, nil
}
