package confirmation

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/eventbus"
)

const (
	viewOpenedMessageConstant     = "opened confirmation view"
	viewOpenFailedMessageConstant = "failed to open confirmation view"
)

// IdentifierSource produces a unique identity for every created view.
type IdentifierSource func() string

// Dependencies enumerates collaborators required by the Coordinator.
type Dependencies struct {
	ViewOpener       ViewOpener
	Events           EventSubscriber
	Logger           *zap.Logger
	IdentifierSource IdentifierSource
}

// Coordinator opens confirmation views and delivers the pending command to them.
type Coordinator struct {
	viewOpener       ViewOpener
	events           EventSubscriber
	logger           *zap.Logger
	identifierSource IdentifierSource
}

// NewCoordinator validates dependencies and constructs a Coordinator.
func NewCoordinator(dependencies Dependencies) (*Coordinator, error) {
	if dependencies.ViewOpener == nil {
		return nil, ErrViewOpenerNotConfigured
	}
	if dependencies.Events == nil {
		return nil, ErrEventSubscriberNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	identifierSource := dependencies.IdentifierSource
	if identifierSource == nil {
		identifierSource = NewViewIdentifier
	}

	return &Coordinator{
		viewOpener:       dependencies.ViewOpener,
		events:           dependencies.Events,
		logger:           logger,
		identifierSource: identifierSource,
	}, nil
}

// Open creates a confirmation view for command and returns without waiting for it.
// The readiness listener is registered before the view exists so an early
// signal is never lost; it is scoped to this invocation only.
func (coordinator *Coordinator) Open(executionContext context.Context, command string) (*Handshake, error) {
	viewIdentifier := coordinator.identifierSource()
	handshake := newHandshake(viewIdentifier, command, coordinator.logger)
	handshake.unsubscribe = coordinator.events.Subscribe(eventbus.EventConfirmationWindowLoaded, handshake.handleReadySignal)

	view, openError := coordinator.viewOpener.OpenView(executionContext, ViewRequest{Identifier: viewIdentifier})
	if openError != nil {
		handshake.abandon(openError)
		coordinator.logger.Warn(viewOpenFailedMessageConstant, zap.String(logFieldViewIdentifierConstant, viewIdentifier), zap.Error(openError))
		return nil, openError
	}

	handshake.assignView(view)
	coordinator.logger.Debug(viewOpenedMessageConstant, zap.String(logFieldViewIdentifierConstant, viewIdentifier))

	return handshake, nil
}

// NewViewIdentifier returns a fresh ULID string.
func NewViewIdentifier() string {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
