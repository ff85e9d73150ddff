package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	busClosedMessageConstant           = "event bus closed"
	emptyPayloadMessageConstant        = "event payload is empty"
	payloadEncodeErrorTemplateConstant = "unable to encode %s payload: %w"
	handlerPanickedMessageConstant     = "event handler panicked"
	eventPublishedMessageConstant      = "event published"
	logFieldEventKeyConstant           = "event"
	logFieldPanicConstant              = "panic"
	logFieldSubscriberCountConstant    = "subscriber_count"
)

// ErrBusClosed indicates Publish was called after Close.
var ErrBusClosed = errors.New(busClosedMessageConstant)

// ErrEmptyPayload indicates an event without payload was decoded.
var ErrEmptyPayload = errors.New(emptyPayloadMessageConstant)

// Handler consumes a published event.
type Handler func(executionContext context.Context, event Event)

type subscription struct {
	identifier uint64
	handler    Handler
}

// Bus is an in-process, goroutine-safe event bus.
type Bus struct {
	mutex         sync.RWMutex
	subscriptions map[EventKey][]subscription
	nextID        atomic.Uint64
	closed        atomic.Bool
	inFlight      sync.WaitGroup
	logger        *zap.Logger
	clock         func() time.Time
}

// New creates an event bus.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subscriptions: make(map[EventKey][]subscription),
		logger:        logger,
		clock:         time.Now,
	}
}

// Publish encodes payload as JSON and fans it out to every subscriber of key.
// Handlers run on their own goroutines; panics are recovered and logged.
func (bus *Bus) Publish(executionContext context.Context, key EventKey, payload any) error {
	if bus.closed.Load() {
		return ErrBusClosed
	}

	encodedPayload, encodeError := json.Marshal(payload)
	if encodeError != nil {
		return fmt.Errorf(payloadEncodeErrorTemplateConstant, key, encodeError)
	}

	event := Event{Key: key, Payload: encodedPayload, Timestamp: bus.clock()}

	bus.mutex.RLock()
	subscribers := make([]subscription, len(bus.subscriptions[key]))
	copy(subscribers, bus.subscriptions[key])
	bus.mutex.RUnlock()

	bus.logger.Debug(
		eventPublishedMessageConstant,
		zap.String(logFieldEventKeyConstant, string(key)),
		zap.Int(logFieldSubscriberCountConstant, len(subscribers)),
	)

	for _, subscriber := range subscribers {
		bus.dispatch(executionContext, event, subscriber)
	}

	return nil
}

func (bus *Bus) dispatch(executionContext context.Context, event Event, subscriber subscription) {
	bus.inFlight.Add(1)
	go func() {
		defer bus.inFlight.Done()
		defer func() {
			if recovered := recover(); recovered != nil {
				bus.logger.Error(
					handlerPanickedMessageConstant,
					zap.String(logFieldEventKeyConstant, string(event.Key)),
					zap.Any(logFieldPanicConstant, recovered),
				)
			}
		}()
		subscriber.handler(executionContext, event)
	}()
}

// Subscribe registers handler for key and returns a function removing the registration.
// The returned function is safe to call more than once.
func (bus *Bus) Subscribe(key EventKey, handler Handler) func() {
	identifier := bus.nextID.Add(1)

	bus.mutex.Lock()
	bus.subscriptions[key] = append(bus.subscriptions[key], subscription{identifier: identifier, handler: handler})
	bus.mutex.Unlock()

	return func() {
		bus.mutex.Lock()
		defer bus.mutex.Unlock()
		subscribers := bus.subscriptions[key]
		for subscriberIndex, subscriber := range subscribers {
			if subscriber.identifier == identifier {
				bus.subscriptions[key] = append(subscribers[:subscriberIndex:subscriberIndex], subscribers[subscriberIndex+1:]...)
				return
			}
		}
	}
}

// SubscriberCount reports how many handlers are registered for key.
func (bus *Bus) SubscriberCount(key EventKey) int {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()
	return len(bus.subscriptions[key])
}

// Clear drops every registration.
func (bus *Bus) Clear() {
	bus.mutex.Lock()
	bus.subscriptions = make(map[EventKey][]subscription)
	bus.mutex.Unlock()
}

// Wait blocks until every handler dispatched so far has returned.
func (bus *Bus) Wait() {
	bus.inFlight.Wait()
}

// Close rejects further publishes and waits for in-flight handlers. Close is idempotent.
func (bus *Bus) Close() {
	if bus.closed.Swap(true) {
		return
	}
	bus.inFlight.Wait()
}
