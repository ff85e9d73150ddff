package launcher

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/notify"
)

// CommandLoader reads the persisted command list.
type CommandLoader interface {
	Load(executionContext context.Context) (commandstore.CommandList, error)
}

// CommandExecutor runs a command line in a subshell.
type CommandExecutor interface {
	Run(executionContext context.Context, commandLine string) (execshell.ExecutionResult, error)
}

// ConfirmationOpener starts a confirmation handshake for a command line.
type ConfirmationOpener interface {
	Open(executionContext context.Context, command string) (*confirmation.Handshake, error)
}

// EntryFlowOpener opens the add-command entry view.
type EntryFlowOpener interface {
	Open(executionContext context.Context) error
}

// EventBus publishes to and subscribes on the listener table.
type EventBus interface {
	Publish(executionContext context.Context, key eventbus.EventKey, payload any) error
	Subscribe(key eventbus.EventKey, handler eventbus.Handler) func()
}

// Dependencies enumerates collaborators required by the Service.
type Dependencies struct {
	Store             CommandLoader
	Executor          CommandExecutor
	Notifier          notify.Notifier
	Confirmations     ConfirmationOpener
	Events            EventBus
	Logger            *zap.Logger
	NotificationTitle string
}
