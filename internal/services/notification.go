package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodcourt-labs/order-platform/internal/metrics"
	"github.com/foodcourt-labs/order-platform/internal/models"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	"github.com/foodcourt-labs/order-platform/pkg/expo"
)

// NotificationService pushes a status message to the order owner's device.
// Delivery is fire-and-forget: nothing is retried and no failure is ever
// surfaced back into the status-update flow.
type NotificationService interface {
	Notify(ctx context.Context, order *models.Order)
}

type notificationService struct {
	profileRepo repository.ProfileRepository
	pushClient  expo.Client
}

func NewNotificationService(profileRepo repository.ProfileRepository, pushClient expo.Client) NotificationService {
	return &notificationService{profileRepo: profileRepo, pushClient: pushClient}
}

func (n *notificationService) Notify(ctx context.Context, order *models.Order) {

	logger := slog.Default().With(
		slog.Int64("orderId", order.ID),
		slog.String("userId", order.UserID.String()),
		slog.String("status", string(order.Status)))

	token, err := n.profileRepo.GetPushToken(ctx, order.UserID)
	if err != nil {
		logger.Error("failed to look up push token", slog.String("error", err.Error()))
		return
	}

	if token == "" {
		// no active token is a normal state (simulator, permission declined)
		logger.Debug("no push token registered, skipping notification")
		metrics.NotificationsDispatched.WithLabelValues("skipped").Inc()
		return
	}

	message := &expo.PushMessage{
		To:    token,
		Title: fmt.Sprintf("Order #%d", order.ID),
		Body:  order.Status.NotificationMessage(),
		Data: map[string]any{
			"order_id": order.ID,
			"status":   string(order.Status),
		},
	}

	if err := n.pushClient.SendPush(ctx, message); err != nil {
		logger.Error("failed to send push notification", slog.String("error", err.Error()))
		metrics.NotificationsDispatched.WithLabelValues("failed").Inc()
		return
	}

	metrics.NotificationsDispatched.WithLabelValues("sent").Inc()
	logger.Info("push notification sent")
}
