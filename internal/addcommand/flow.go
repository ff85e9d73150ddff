package addcommand

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	storeNotConfiguredMessageConstant     = "add command flow requires a command store"
	entryViewNotConfiguredMessageConstant = "add command flow has no entry view"
	entryIncompleteMessageConstant        = "title and command are both required"
	refreshFailedTemplateConstant         = "command saved but list refresh failed: %w"
	entryViewOpenedMessageConstant        = "opened command entry view"
	entrySavedMessageConstant             = "saved command entry"
	logFieldTitleConstant                 = "title"
)

var (
	// ErrStoreNotConfigured indicates the flow cannot persist entries.
	ErrStoreNotConfigured = errors.New(storeNotConfiguredMessageConstant)
	// ErrEntryViewNotConfigured indicates Open was called without an entry view opener.
	ErrEntryViewNotConfigured = errors.New(entryViewNotConfiguredMessageConstant)
	// ErrEntryIncomplete indicates a submission without a title or a command.
	ErrEntryIncomplete = errors.New(entryIncompleteMessageConstant)
)

// EntryViewOpener shows the view used to type a new entry.
type EntryViewOpener interface {
	OpenEntryView(executionContext context.Context) error
}

// CommandAppender persists a new entry.
type CommandAppender interface {
	Append(executionContext context.Context, title string, command string) error
}

// Refresher reloads and republishes the command list.
type Refresher interface {
	Refresh(executionContext context.Context) error
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(executionContext context.Context) error

// Refresh calls the underlying function.
func (refresher RefresherFunc) Refresh(executionContext context.Context) error {
	return refresher(executionContext)
}

// Dependencies enumerates collaborators required by the Flow.
type Dependencies struct {
	Store      CommandAppender
	ViewOpener EntryViewOpener
	Refresher  Refresher
	Logger     *zap.Logger
}

// Flow opens the entry view and forwards submissions to the store.
type Flow struct {
	store      CommandAppender
	viewOpener EntryViewOpener
	refresher  Refresher
	logger     *zap.Logger
}

// NewFlow validates dependencies and constructs a Flow.
func NewFlow(dependencies Dependencies) (*Flow, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Flow{
		store:      dependencies.Store,
		viewOpener: dependencies.ViewOpener,
		refresher:  dependencies.Refresher,
		logger:     logger,
	}, nil
}

// Open requests the entry view.
func (flow *Flow) Open(executionContext context.Context) error {
	if flow.viewOpener == nil {
		return ErrEntryViewNotConfigured
	}
	if openError := flow.viewOpener.OpenEntryView(executionContext); openError != nil {
		return openError
	}
	flow.logger.Debug(entryViewOpenedMessageConstant)
	return nil
}

// Submit appends the entry and refreshes the published list.
// Store errors are returned unchanged so the caller can retry with the same input.
func (flow *Flow) Submit(executionContext context.Context, title string, command string) error {
	trimmedTitle := strings.TrimSpace(title)
	trimmedCommand := strings.TrimSpace(command)
	if len(trimmedTitle) == 0 || len(trimmedCommand) == 0 {
		return ErrEntryIncomplete
	}

	if appendError := flow.store.Append(executionContext, trimmedTitle, trimmedCommand); appendError != nil {
		return appendError
	}
	flow.logger.Info(entrySavedMessageConstant, zap.String(logFieldTitleConstant, trimmedTitle))

	if flow.refresher == nil {
		return nil
	}
	if refreshError := flow.refresher.Refresh(executionContext); refreshError != nil {
		return fmt.Errorf(refreshFailedTemplateConstant, refreshError)
	}
	return nil
}
