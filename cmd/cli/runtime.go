package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/addcommand"
	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/launcher"
	"github.com/temirov/cmdlauncher/internal/notify"
	"github.com/temirov/cmdlauncher/internal/ui"
)

const (
	storeCreationErrorTemplateConstant       = "unable to open command store: %w"
	executorCreationErrorTemplateConstant    = "unable to prepare shell: %w"
	notifierCreationErrorTemplateConstant    = "unable to prepare notifications: %w"
	coordinatorCreationErrorTemplateConstant = "unable to prepare confirmations: %w"
	serviceCreationErrorTemplateConstant     = "unable to prepare launcher: %w"
	entryFlowCreationErrorTemplateConstant   = "unable to prepare command entry: %w"
	runtimeReadyMessageConstant              = "launcher runtime ready"
	logFieldNotifierTypeConstant             = "notifier_type"
)

// RuntimeOptions selects the display-side collaborators of a launcher runtime.
type RuntimeOptions struct {
	// ViewOpenerFactory builds the confirmation view opener once the listener table exists.
	ViewOpenerFactory func(events *eventbus.Bus, service func() *launcher.Service) confirmation.ViewOpener
	EntryViewOpener   addcommand.EntryViewOpener
	// NotifierOverride replaces the configured notifier when it would write to the console.
	NotifierOverride notify.Notifier
}

// RuntimeBuilder assembles the services behind a subcommand.
type RuntimeBuilder func(executionContext context.Context, options RuntimeOptions) (*LauncherRuntime, error)

// LauncherRuntime bundles the wired services shared by the subcommands.
type LauncherRuntime struct {
	Events      *eventbus.Bus
	Store       *commandstore.Store
	Service     *launcher.Service
	Entries     *addcommand.Flow
	Coordinator *confirmation.Coordinator
}

// Close waits for in-flight event handlers and rejects further publishing.
func (runtime *LauncherRuntime) Close() {
	if runtime == nil || runtime.Events == nil {
		return
	}
	runtime.Events.Wait()
	runtime.Events.Close()
}

func (application *Application) buildRuntime(executionContext context.Context, options RuntimeOptions) (*LauncherRuntime, error) {
	logger := application.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, storeError := commandstore.NewStore(commandstore.ServiceDependencies{
		FileSystem:   application.fileSystem,
		DocumentPath: application.configuration.Store.DocumentPath,
		Logger:       logger,
	})
	if storeError != nil {
		return nil, fmt.Errorf(storeCreationErrorTemplateConstant, storeError)
	}

	var executorOptions []execshell.ExecutorOption
	if application.humanReadableLoggingEnabled() {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}
	executor, executorError := execshell.NewShellExecutor(logger, application.commandRunner, application.configuration.Shell, executorOptions...)
	if executorError != nil {
		return nil, fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	notifier, notifierError := notify.NewNotifier(application.configuration.Notifications, notify.Dependencies{
		Runner:  application.commandRunner,
		Output:  application.output,
		Locator: application.toolLocator,
		Logger:  logger,
	})
	if notifierError != nil {
		return nil, fmt.Errorf(notifierCreationErrorTemplateConstant, notifierError)
	}
	if _, writesToConsole := notifier.(*notify.WriterNotifier); writesToConsole && options.NotifierOverride != nil {
		notifier = options.NotifierOverride
	}

	events := eventbus.New(logger)

	var service *launcher.Service
	var coordinator *confirmation.Coordinator
	if options.ViewOpenerFactory != nil {
		viewOpener := options.ViewOpenerFactory(events, func() *launcher.Service { return service })
		createdCoordinator, coordinatorError := confirmation.NewCoordinator(confirmation.Dependencies{
			ViewOpener: viewOpener,
			Events:     events,
			Logger:     logger,
		})
		if coordinatorError != nil {
			events.Close()
			return nil, fmt.Errorf(coordinatorCreationErrorTemplateConstant, coordinatorError)
		}
		coordinator = createdCoordinator
	}

	serviceDependencies := launcher.Dependencies{
		Store:             store,
		Executor:          executor,
		Notifier:          notifier,
		Events:            events,
		Logger:            logger,
		NotificationTitle: application.configuration.Notifications.Title,
	}
	if coordinator != nil {
		serviceDependencies.Confirmations = coordinator
	}

	createdService, serviceError := launcher.NewService(serviceDependencies)
	if serviceError != nil {
		events.Close()
		return nil, fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}
	service = createdService

	entries, entryFlowError := addcommand.NewFlow(addcommand.Dependencies{
		Store:      store,
		ViewOpener: options.EntryViewOpener,
		Refresher:  addcommand.RefresherFunc(service.Refresh),
		Logger:     logger,
	})
	if entryFlowError != nil {
		events.Close()
		return nil, fmt.Errorf(entryFlowCreationErrorTemplateConstant, entryFlowError)
	}

	logger.Debug(runtimeReadyMessageConstant, zap.String(logFieldNotifierTypeConstant, fmt.Sprintf("%T", notifier)))

	return &LauncherRuntime{
		Events:      events,
		Store:       store,
		Service:     service,
		Entries:     entries,
		Coordinator: coordinator,
	}, nil
}
