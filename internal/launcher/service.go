package launcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/notify"
)

const (
	commandsPublishedMessageConstant  = "published command list"
	notificationFailedMessageConstant = "failed to show notification"
	publishFailedMessageConstant      = "failed to publish event"
	entryViewFailedMessageConstant    = "failed to open command entry view"
	logFieldEntryCountConstant        = "entry_count"
	logFieldEventKeyConstant          = "event"
)

// ExecutionReport is the payload of the command-executed event.
type ExecutionReport struct {
	CommandLine string `json:"command_line"`
	Succeeded   bool   `json:"succeeded"`
	ExitCode    int    `json:"exit_code"`
	Message     string `json:"message"`
}

// Outcome carries the result of an asynchronous execution.
type Outcome struct {
	CommandLine string
	Result      execshell.ExecutionResult
	Err         error
}

// Service orchestrates listing, confirming and running commands.
type Service struct {
	store             CommandLoader
	executor          CommandExecutor
	notifier          notify.Notifier
	confirmations     ConfirmationOpener
	events            EventBus
	logger            *zap.Logger
	notificationTitle string
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, ErrStoreNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.Notifier == nil {
		return nil, ErrNotifierNotConfigured
	}
	if dependencies.Events == nil {
		return nil, ErrEventsNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	notificationTitle := strings.TrimSpace(dependencies.NotificationTitle)
	if len(notificationTitle) == 0 {
		notificationTitle = notify.DefaultTitle
	}

	return &Service{
		store:             dependencies.Store,
		executor:          dependencies.Executor,
		notifier:          dependencies.Notifier,
		confirmations:     dependencies.Confirmations,
		events:            dependencies.Events,
		logger:            logger,
		notificationTitle: notificationTitle,
	}, nil
}

// PublishCommands loads the persisted list and pushes it as a commands event.
func (service *Service) PublishCommands(executionContext context.Context) (commandstore.CommandList, error) {
	commandList, loadError := service.store.Load(executionContext)
	if loadError != nil {
		return nil, loadError
	}

	if publishError := service.events.Publish(executionContext, eventbus.EventCommands, commandList); publishError != nil {
		return nil, publishError
	}
	service.logger.Debug(commandsPublishedMessageConstant, zap.Int(logFieldEntryCountConstant, len(commandList)))

	return commandList, nil
}

// Refresh republishes the command list.
func (service *Service) Refresh(executionContext context.Context) error {
	_, publishError := service.PublishCommands(executionContext)
	return publishError
}

// Execute runs commandLine, shows the outcome and announces it as command-executed.
// A launch failure is shown as a failure notification and returned.
func (service *Service) Execute(executionContext context.Context, commandLine string) (execshell.ExecutionResult, error) {
	result, runError := service.executor.Run(executionContext, commandLine)
	if runError != nil {
		result = execshell.ExecutionResult{
			Succeeded: false,
			Message:   execshell.FailureMessagePrefix + runError.Error(),
			ExitCode:  -1,
		}
	}

	if notifyError := service.notifier.Show(executionContext, service.notificationTitle, result.Message); notifyError != nil {
		service.logger.Warn(notificationFailedMessageConstant, zap.Error(notifyError))
	}

	report := ExecutionReport{
		CommandLine: commandLine,
		Succeeded:   result.Succeeded,
		ExitCode:    result.ExitCode,
		Message:     result.Message,
	}
	if publishError := service.events.Publish(executionContext, eventbus.EventCommandExecuted, report); publishError != nil {
		service.logger.Warn(publishFailedMessageConstant, zap.String(logFieldEventKeyConstant, string(eventbus.EventCommandExecuted)), zap.Error(publishError))
	}

	if runError != nil {
		return execshell.ExecutionResult{}, runError
	}
	return result, nil
}

// ExecuteAsync runs Execute on its own goroutine and delivers a single Outcome.
func (service *Service) ExecuteAsync(executionContext context.Context, commandLine string) <-chan Outcome {
	outcomes := make(chan Outcome, 1)
	go func() {
		defer close(outcomes)
		result, executionError := service.Execute(executionContext, commandLine)
		outcomes <- Outcome{CommandLine: commandLine, Result: result, Err: executionError}
	}()
	return outcomes
}

// Confirm opens a confirmation view for commandLine.
func (service *Service) Confirm(executionContext context.Context, commandLine string) (*confirmation.Handshake, error) {
	if service.confirmations == nil {
		return nil, ErrConfirmationNotConfigured
	}
	return service.confirmations.Open(executionContext, commandLine)
}

// BindHotkeys routes open_add_command events to the add flow. The returned
// function removes the binding.
func (service *Service) BindHotkeys(executionContext context.Context, entryFlow EntryFlowOpener) (func(), error) {
	if entryFlow == nil {
		return nil, ErrEntryFlowNotConfigured
	}

	unsubscribe := service.events.Subscribe(eventbus.EventOpenAddCommand, func(eventContext context.Context, _ eventbus.Event) {
		if openError := entryFlow.Open(eventContext); openError != nil {
			service.logger.Warn(entryViewFailedMessageConstant, zap.Error(openError))
		}
	})
	return unsubscribe, nil
}

// Resolve selects an entry by its 1-based position or by its exact title.
func Resolve(commandList commandstore.CommandList, selector string) (commandstore.CommandEntry, error) {
	trimmedSelector := strings.TrimSpace(selector)
	if len(trimmedSelector) == 0 {
		return commandstore.CommandEntry{}, ErrEmptySelector
	}

	if position, parseError := strconv.Atoi(trimmedSelector); parseError == nil {
		if position < 1 || position > len(commandList) {
			return commandstore.CommandEntry{}, fmt.Errorf(indexOutOfRangeTemplateConstant, ErrCommandNotFound, position, len(commandList))
		}
		return commandList[position-1], nil
	}

	for _, entry := range commandList {
		if entry.Title == trimmedSelector {
			return entry, nil
		}
	}

	return commandstore.CommandEntry{}, fmt.Errorf(commandNotFoundTemplateConstant, ErrCommandNotFound, trimmedSelector)
}
