// Package jobs holds the background work triggered by domain events.
package jobs

import (
	"context"

	"github.com/dukerupert/bookworld/internal/events"
)

// Job names, used as metric labels.
const (
	NameEmail    = "email"
	NameLowStock = "low_stock"
	NameForward  = "forward"
)

// Handler processes one event. A returned error that domain.IsRetryable
// accepts is retried by the worker.
type Handler interface {
	Handle(ctx context.Context, e events.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e events.Event) error

func (f HandlerFunc) Handle(ctx context.Context, e events.Event) error { return f(ctx, e) }
