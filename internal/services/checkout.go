package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foodcourt-labs/order-platform/internal/cart"
	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	"github.com/foodcourt-labs/order-platform/pkg/sendgrid"
	"github.com/google/uuid"
)

type CheckoutService interface {
	// Checkout converts the user's cart into a persisted order with its item
	// batch. An empty cart is a no-op returning (nil, nil). The cart is
	// cleared only after the write succeeds.
	Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error)

	// InFlight reports whether a checkout for this user is still running;
	// callers disable the checkout trigger while it is.
	InFlight(userID uuid.UUID) bool
}

type checkoutService struct {
	store       *cart.Store
	orderRepo   repository.OrderRepository
	profileRepo repository.ProfileRepository
	email       sendgrid.EmailService

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
}

func NewCheckoutService(store *cart.Store, orderRepo repository.OrderRepository, profileRepo repository.ProfileRepository, email sendgrid.EmailService) CheckoutService {
	return &checkoutService{
		store:       store,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		email:       email,
		inFlight:    make(map[uuid.UUID]bool),
	}
}

func (s *checkoutService) InFlight(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inFlight[userID]
}

func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	if !s.acquire(userID) {
		return nil, apperrors.CheckoutInFlightError("A checkout is already in progress")
	}

	defer s.release(userID)

	items := s.store.Items(userID)
	if len(items) == 0 {
		// nothing to do; deliberately not surfaced as an error
		return nil, nil
	}

	order := &models.Order{
		UserID: userID,
		Total:  s.store.Total(userID),
		Status: models.OrderStatusNew,
		Items:  make([]models.OrderItem, 0, len(items)),
	}

	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		// cart stays intact so the user can retry
		return nil, apperrors.CheckoutFailedError("Failed to place order").WithError(err)
	}

	s.store.Clear(userID)

	s.sendReceipt(ctx, order)

	return order, nil
}

func (s *checkoutService) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[userID] {
		return false
	}

	s.inFlight[userID] = true

	return true
}

func (s *checkoutService) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, userID)
}

// sendReceipt emails an order confirmation when the profile has an email.
// Fire-and-forget: failures are logged and never affect the checkout result.
func (s *checkoutService) sendReceipt(ctx context.Context, order *models.Order) {

	if s.email == nil {
		return
	}

	profile, err := s.profileRepo.GetProfile(ctx, order.UserID)
	if err != nil || profile.Email == "" {
		return
	}

	go func(to string, orderID int64, total float64) {
		mailCtx := context.WithoutCancel(ctx)

		err := s.email.Send(mailCtx, &sendgrid.EmailRequest{
			To:      to,
			Subject: fmt.Sprintf("Order #%d confirmed", orderID),
			Content: fmt.Sprintf("Thanks for your order! We received your order #%d for a total of %.2f.", orderID, total),
		})
		if err != nil {
			slog.Error("failed to send order receipt",
				slog.Int64("orderId", orderID),
				slog.String("error", err.Error()))
		}
	}(profile.Email, order.ID, order.Total)
}
