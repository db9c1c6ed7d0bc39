package notify

import (
	"coach-calendar/pkg/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

type Invalidator interface {
	InvalidateCoach(ctx context.Context, coachID string) error
}

// Listener turns database change notifications into cache invalidations.
// The payload of every notification is the id of the coach whose sessions,
// availability or external events changed.
type Listener struct {
	log     *slog.Logger
	dsn     string
	channel string
	inv     Invalidator
}

func New(log *slog.Logger, dsn, channel string, inv Invalidator) *Listener {
	return &Listener{
		log:     log.With(slog.String("component", "notify"), slog.String("channel", channel)),
		dsn:     dsn,
		channel: channel,
		inv:     inv,
	}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	const op = "notify.Listener.Run"

	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, l.reportEvent)
	defer func() {
		_ = listener.Close()
	}()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	l.log.Info("Listening for schedule changes")

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("Listener stopped")
			return nil
		case n := <-listener.Notify:
			if n == nil {
				// the connection was re-established; anything sent meanwhile is lost
				// and cached views age out with their ttl
				l.log.Warn("Notification stream reconnected, changes may have been missed")
				continue
			}
			l.dispatch(ctx, n.Extra)
		case <-ticker.C:
			go func() {
				if err := listener.Ping(); err != nil {
					l.log.Warn("Listener ping failed", sl.Err(err))
				}
			}()
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, payload string) {
	coachID, err := uuid.Parse(payload)
	if err != nil {
		l.log.Warn("Ignoring malformed notification", slog.String("payload", payload), sl.Err(err))
		return
	}

	if err := l.inv.InvalidateCoach(ctx, coachID.String()); err != nil {
		l.log.Error("Failed to invalidate week views", slog.String("coach_id", coachID.String()), sl.Err(err))
	}
}

func (l *Listener) reportEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.log.Debug("Listener connected")
	case pq.ListenerEventDisconnected:
		l.log.Warn("Listener disconnected", sl.Err(errOrUnknown(err)))
	case pq.ListenerEventReconnected:
		l.log.Info("Listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.log.Warn("Listener connection attempt failed", sl.Err(errOrUnknown(err)))
	}
}

func errOrUnknown(err error) error {
	if err == nil {
		return errors.New("unknown")
	}
	return err
}
