package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodcourt-labs/order-platform/internal/config"
	"github.com/foodcourt-labs/order-platform/internal/metrics"
	"github.com/lib/pq"
)

// Listener holds the LISTEN connection to postgres and turns raw
// notifications into bus events. The orders_events channel is fed by a
// trigger on the orders table, so every committed insert/update arrives here.
type Listener struct {
	dsn string
	cfg config.Feed
	bus *Bus
}

func NewListener(dsn string, cfg config.Feed, bus *Bus) *Listener {
	return &Listener{dsn: dsn, cfg: cfg, bus: bus}
}

// Run blocks until ctx is cancelled. Reconnects are handled by pq.Listener
// with the configured backoff; a nil notification marks a reconnect, after
// which missed events are simply absent (best-effort feed, consumers
// reconcile against a direct fetch).
func (l *Listener) Run(ctx context.Context) error {

	listener := pq.NewListener(l.dsn, l.cfg.MinReconnect, l.cfg.MaxReconnect, func(event pq.ListenerEventType, err error) {
		if err != nil {
			slog.Error("order feed connection event", slog.Int("event", int(event)), slog.String("error", err.Error()))
		}
	})

	defer listener.Close()

	if err := listener.Listen(l.cfg.Channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.cfg.Channel, err)
	}

	slog.Info("order feed started", slog.String("channel", l.cfg.Channel))

	ping := time.NewTicker(l.cfg.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case notification := <-listener.Notify:
			if notification == nil {
				// connection was re-established
				continue
			}

			l.dispatch(notification.Extra)

		case <-ping.C:
			if err := listener.Ping(); err != nil {
				slog.Error("order feed ping failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (l *Listener) dispatch(payload string) {

	var event OrderEvent

	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		slog.Error("failed to decode order feed payload", slog.String("error", err.Error()))
		return
	}

	if event.Op != OpInsert && event.Op != OpUpdate {
		slog.Warn("ignoring unknown order feed op", slog.String("op", string(event.Op)))
		return
	}

	metrics.FeedEventsReceived.WithLabelValues(string(event.Op)).Inc()

	l.bus.Publish(event)
}
