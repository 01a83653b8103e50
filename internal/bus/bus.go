// Package bus is a typed publish/subscribe registry for window manager
// signals (child exits, dragged-client changes, client list changes).
// Dispatch is synchronous on the publisher's goroutine; the manager
// publishes only from the dispatcher thread, which keeps handler
// ordering deterministic.
package bus

import (
	"context"
	"fmt"
	"log/slog"
)

var _ctx = context.Background()

func SetContext(ctx context.Context) {
	_ctx = ctx
}

var subs = make(map[string][]func(ctx context.Context, event any))

func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	topic := fmt.Sprintf("%T", *new(T))
	subs[topic] = append(subs[topic], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

func Publish[T any](event T) {
	for _, fn := range subs[fmt.Sprintf("%T", event)] {
		fn(_ctx, event)
	}
}

// Reset drops every subscriber. Tests use it to isolate bus state.
func Reset() {
	subs = make(map[string][]func(ctx context.Context, event any))
}
