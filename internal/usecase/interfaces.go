package usecase

import (
	"context"
	"time"

	ws "locallink/internal/infrastructure/websocket"
)

// EventPusher delivers live events to a user's open connections.
type EventPusher interface {
	SendEvent(userID string, event ws.Event)
}

// Throttle limits user actions such as pull-to-refresh.
type Throttle interface {
	Allow(userID, action string) (bool, time.Duration)
}

// nopPusher is used when no live transport is wired.
type nopPusher struct{}

func (nopPusher) SendEvent(string, ws.Event) {}

// mountView mounts v. With wait set it blocks until the triggered fetch
// completes and returns its error together with the state after it.
func mountView[T any](ctx context.Context, v *SliceView[T], wait bool) (Snapshot[T], error) {
	snap, done := v.Mount(ctx)
	if !wait {
		return snap, nil
	}

	select {
	case err, ok := <-done:
		if ok && err != nil {
			return v.Snapshot(ctx), err
		}
	case <-ctx.Done():
		return snap, ctx.Err()
	}
	return v.Snapshot(ctx), nil
}

func isEmptySlice[E any](v []E) bool {
	return len(v) == 0
}
