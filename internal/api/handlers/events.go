package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/foodcourt-labs/order-platform/internal/api/middleware"
	apperrors "github.com/foodcourt-labs/order-platform/internal/errors"
	"github.com/foodcourt-labs/order-platform/internal/realtime"
	repository "github.com/foodcourt-labs/order-platform/internal/repositories"
	service "github.com/foodcourt-labs/order-platform/internal/services"
	"github.com/foodcourt-labs/order-platform/internal/utils/response"
)

// snapshotSize caps the backlog sent when a stream opens; older orders are
// available through the list endpoint.
const snapshotSize = 50

type EventsHandler struct {
	bus          *realtime.Bus
	orderService service.OrderService
	buffer       int
}

func NewEventsHandler(bus *realtime.Bus, orderService service.OrderService, buffer int) *EventsHandler {
	if buffer < 1 {
		buffer = 16
	}

	return &EventsHandler{bus: bus, orderService: orderService, buffer: buffer}
}

// Stream pushes order change events to the client over SSE. An admin caller
// receives every order; anyone else only their own. The stream opens with a
// snapshot event carrying the current orders, then follows with one event per
// change. The subscription is torn down when the client disconnects.
func (h *EventsHandler) Stream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, apperrors.InternalError("Streaming not supported"))
			return
		}

		scope := realtime.Scope{}
		filter := repository.OrderFilter{}

		if !claims.IsAdmin() {
			userID := claims.UserID
			scope.UserID = &userID
			filter.UserID = &userID
		}

		// Delivery is best-effort: a slow client that falls behind the
		// buffer loses events and reconciles via a direct fetch.
		events := make(chan realtime.OrderEvent, h.buffer)

		cancel := h.bus.Subscribe(scope, func(event realtime.OrderEvent) {
			select {
			case events <- event:
			default:
			}
		})
		defer cancel()

		// Subscribing before the fetch means no change is lost in between;
		// events that raced the fetch are folded into the snapshot after the
		// bootstrap, so a raced status change beats the fetched row.
		orders, _, err := h.orderService.ListOrders(r.Context(), filter, 1, snapshotSize)
		if err != nil {
			response.Error(w, err)
			return
		}

		var raced []realtime.OrderEvent

		for {
			select {
			case event := <-events:
				raced = append(raced, event)
				continue
			default:
			}

			break
		}

		feed := realtime.NewOrderFeed()
		feed.Bootstrap(orders)

		for _, event := range raced {
			feed.Apply(event)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		writeEvent(w, "snapshot", feed.Orders())
		flusher.Flush()

		logger.Info("Order event stream opened")

		for {
			select {
			case <-r.Context().Done():
				logger.Info("Order event stream closed")
				return

			case event := <-events:
				writeEvent(w, string(event.Op), event)
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}
