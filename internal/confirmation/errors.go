package confirmation

import "errors"

const (
	viewOpenerNotConfiguredMessageConstant      = "confirmation view opener not configured"
	eventSubscriberNotConfiguredMessageConstant = "confirmation event subscriber not configured"
	handshakeClosedMessageConstant              = "confirmation view closed before the command was delivered"
	publisherNotConfiguredMessageConstant       = "confirmation event publisher not configured"
)

var (
	// ErrViewOpenerNotConfigured indicates the coordinator has no way to create views.
	ErrViewOpenerNotConfigured = errors.New(viewOpenerNotConfiguredMessageConstant)
	// ErrEventSubscriberNotConfigured indicates the coordinator cannot observe readiness signals.
	ErrEventSubscriberNotConfigured = errors.New(eventSubscriberNotConfiguredMessageConstant)
	// ErrEventPublisherNotConfigured indicates a terminal view cannot announce readiness.
	ErrEventPublisherNotConfigured = errors.New(publisherNotConfiguredMessageConstant)
	// ErrHandshakeClosed indicates the handshake ended without delivering the command.
	ErrHandshakeClosed = errors.New(handshakeClosedMessageConstant)
)
