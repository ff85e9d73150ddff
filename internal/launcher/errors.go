package launcher

import "errors"

const (
	storeNotConfiguredMessageConstant        = "launcher requires a command store"
	executorNotConfiguredMessageConstant     = "launcher requires a shell executor"
	notifierNotConfiguredMessageConstant     = "launcher requires a notifier"
	eventsNotConfiguredMessageConstant       = "launcher requires an event bus"
	confirmationNotConfiguredMessageConstant = "confirmation views are not available"
	entryFlowNotConfiguredMessageConstant    = "add command flow not provided"
	commandNotFoundMessageConstant           = "command not found"
	commandNotFoundTemplateConstant          = "%w: %q"
	indexOutOfRangeTemplateConstant          = "%w: index %d outside 1..%d"
	emptySelectorMessageConstant             = "command selector is empty"
)

var (
	// ErrStoreNotConfigured indicates a missing command store.
	ErrStoreNotConfigured = errors.New(storeNotConfiguredMessageConstant)
	// ErrExecutorNotConfigured indicates a missing shell executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrNotifierNotConfigured indicates a missing notifier.
	ErrNotifierNotConfigured = errors.New(notifierNotConfiguredMessageConstant)
	// ErrEventsNotConfigured indicates a missing event bus.
	ErrEventsNotConfigured = errors.New(eventsNotConfiguredMessageConstant)
	// ErrConfirmationNotConfigured indicates Confirm was called without a coordinator.
	ErrConfirmationNotConfigured = errors.New(confirmationNotConfiguredMessageConstant)
	// ErrEntryFlowNotConfigured indicates BindHotkeys was called without an add flow.
	ErrEntryFlowNotConfigured = errors.New(entryFlowNotConfiguredMessageConstant)
	// ErrCommandNotFound indicates no entry matched a selector.
	ErrCommandNotFound = errors.New(commandNotFoundMessageConstant)
	// ErrEmptySelector indicates Resolve was called with a blank selector.
	ErrEmptySelector = errors.New(emptySelectorMessageConstant)
)
