package confirmation

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/eventbus"
)

const (
	readySignalUndecodableMessageConstant = "ignored undecodable confirmation ready signal"
	readySignalDuplicateMessageConstant   = "ignored repeated confirmation ready signal"
	commandDeliveredMessageConstant       = "delivered command to confirmation view"
	commandDeliveryFailedMessageConstant  = "failed to deliver command to confirmation view"
	handshakeClosedLogMessageConstant     = "closed confirmation handshake"
	logFieldViewIdentifierConstant        = "view_id"
	logFieldStateConstant                 = "state"
)

// Handshake tracks one confirmation invocation. The command is pushed to the
// view at most once, regardless of how many ready signals arrive.
type Handshake struct {
	viewIdentifier string
	command        string
	logger         *zap.Logger

	state        atomic.Int32
	view         View
	viewAssigned chan struct{}

	unsubscribe     func()
	releaseOnce     sync.Once
	closeViewOnce   sync.Once
	closeViewError  error
	finishOnce      sync.Once
	finished        chan struct{}
	delivered       chan struct{}
	completionError error
}

func newHandshake(viewIdentifier string, command string, logger *zap.Logger) *Handshake {
	return &Handshake{
		viewIdentifier: viewIdentifier,
		command:        command,
		logger:         logger,
		viewAssigned:   make(chan struct{}),
		finished:       make(chan struct{}),
		delivered:      make(chan struct{}),
	}
}

// ViewIdentifier returns the identity of the view created for this handshake.
func (handshake *Handshake) ViewIdentifier() string {
	return handshake.viewIdentifier
}

// Command returns the command text awaiting confirmation.
func (handshake *Handshake) Command() string {
	return handshake.command
}

// View returns the confirmation view, or nil when it could not be created.
func (handshake *Handshake) View() View {
	select {
	case <-handshake.viewAssigned:
		return handshake.view
	default:
		return nil
	}
}

// State reports the current lifecycle position.
func (handshake *Handshake) State() State {
	return State(handshake.state.Load())
}

// Delivered is closed once the command push to the view has returned.
func (handshake *Handshake) Delivered() <-chan struct{} {
	return handshake.delivered
}

// Done is closed when the handshake reaches a terminal state.
func (handshake *Handshake) Done() <-chan struct{} {
	return handshake.finished
}

// Wait blocks until the handshake finishes or the context ends. It returns the
// push error on delivery and ErrHandshakeClosed when closed without delivery.
func (handshake *Handshake) Wait(executionContext context.Context) error {
	select {
	case <-handshake.finished:
		return handshake.completionError
	case <-executionContext.Done():
		return executionContext.Err()
	}
}

// Close ends the handshake. A pending delivery is abandoned and the view is closed.
func (handshake *Handshake) Close() error {
	if handshake.state.CompareAndSwap(int32(StateAwaitingReady), int32(StateClosed)) ||
		handshake.state.CompareAndSwap(int32(StateOpened), int32(StateClosed)) {
		handshake.releaseSubscription()
		handshake.finish(ErrHandshakeClosed)
		handshake.logger.Debug(handshakeClosedLogMessageConstant, zap.String(logFieldViewIdentifierConstant, handshake.viewIdentifier))
	}

	return handshake.closeView()
}

func (handshake *Handshake) handleReadySignal(executionContext context.Context, event eventbus.Event) {
	var signaledIdentifier string
	if decodeError := event.Decode(&signaledIdentifier); decodeError != nil {
		handshake.logger.Debug(readySignalUndecodableMessageConstant, zap.Error(decodeError))
		return
	}
	if signaledIdentifier != handshake.viewIdentifier {
		return
	}

	<-handshake.viewAssigned

	if !handshake.state.CompareAndSwap(int32(StateAwaitingReady), int32(StateDelivered)) {
		handshake.logger.Debug(
			readySignalDuplicateMessageConstant,
			zap.String(logFieldViewIdentifierConstant, handshake.viewIdentifier),
			zap.Stringer(logFieldStateConstant, handshake.State()),
		)
		return
	}
	handshake.releaseSubscription()

	pushError := handshake.view.Push(executionContext, eventbus.EventUpdateCommand, handshake.command)
	if pushError != nil {
		handshake.logger.Warn(commandDeliveryFailedMessageConstant, zap.String(logFieldViewIdentifierConstant, handshake.viewIdentifier), zap.Error(pushError))
	} else {
		handshake.logger.Debug(commandDeliveredMessageConstant, zap.String(logFieldViewIdentifierConstant, handshake.viewIdentifier))
	}

	close(handshake.delivered)
	handshake.finish(pushError)
}

func (handshake *Handshake) assignView(view View) {
	handshake.view = view
	handshake.state.Store(int32(StateAwaitingReady))
	close(handshake.viewAssigned)
}

func (handshake *Handshake) abandon(cause error) {
	handshake.state.Store(int32(StateClosed))
	handshake.releaseSubscription()
	close(handshake.viewAssigned)
	handshake.finish(cause)
}

func (handshake *Handshake) releaseSubscription() {
	handshake.releaseOnce.Do(func() {
		if handshake.unsubscribe != nil {
			handshake.unsubscribe()
		}
	})
}

func (handshake *Handshake) finish(cause error) {
	handshake.finishOnce.Do(func() {
		handshake.completionError = cause
		close(handshake.finished)
	})
}

func (handshake *Handshake) closeView() error {
	view := handshake.View()
	if view == nil {
		return nil
	}
	handshake.closeViewOnce.Do(func() {
		handshake.closeViewError = view.Close()
	})
	return handshake.closeViewError
}
