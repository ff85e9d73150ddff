package confirmation

import (
	"context"

	"github.com/temirov/cmdlauncher/internal/eventbus"
)

// ViewRequest describes the confirmation view to create.
type ViewRequest struct {
	Identifier string
}

// View is a secondary UI surface receiving push notifications.
type View interface {
	Identifier() string
	Push(executionContext context.Context, key eventbus.EventKey, payload any) error
	Close() error
}

// ViewOpener creates confirmation views.
type ViewOpener interface {
	OpenView(executionContext context.Context, request ViewRequest) (View, error)
}

// EventSubscriber registers listeners on the process-wide listener table.
type EventSubscriber interface {
	Subscribe(key eventbus.EventKey, handler eventbus.Handler) func()
}

// EventPublisher emits events to the process-wide listener table.
type EventPublisher interface {
	Publish(executionContext context.Context, key eventbus.EventKey, payload any) error
}
