package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/notify"
	"github.com/temirov/cmdlauncher/internal/utils"
	flagutils "github.com/temirov/cmdlauncher/internal/utils/flags"
	pathutils "github.com/temirov/cmdlauncher/internal/utils/path"
)

const (
	applicationNameConstant                 = "cmdlauncher"
	applicationShortDescriptionConstant     = "Launch saved shell commands"
	applicationLongDescriptionConstant      = "cmdlauncher keeps a list of titled shell commands, runs them in a subshell after confirmation and reports the outcome as a notification."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	storeFlagNameConstant                   = "store"
	storeFlagUsageConstant                  = "Override the command document location."
	notifierFlagNameConstant                = "notifier"
	notifierFlagUsageConstant               = "Select how outcomes are reported."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonLogFileConfigKeyConstant          = commonConfigurationKeyConstant + ".log_file"
	storeDocumentPathConfigKeyConstant      = "store.document_path"
	shellConfigurationKeyConstant           = "shell"
	notificationsConfigurationKeyConstant   = "notifications"
	environmentPrefixConstant               = "CMDLAUNCHER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationDocumentFieldConstant      = "document_path"
	configurationNotifierFieldConstant      = "notifier"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "cmdlauncher CLI executed"
	rootCommandDebugMessageConstant         = "cmdlauncher CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	interactiveLogFileNameConstant          = "cmdlauncher.log"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common        ApplicationCommonConfiguration `mapstructure:"common"`
	Store         ApplicationStoreConfiguration  `mapstructure:"store"`
	Shell         execshell.ShellConfiguration   `mapstructure:"shell"`
	Notifications notify.Configuration           `mapstructure:"notifications"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// ApplicationStoreConfiguration locates the persisted command document.
type ApplicationStoreConfiguration struct {
	DocumentPath string `mapstructure:"document_path"`
}

// ApplicationDependencies lets callers replace the process-level collaborators.
// Zero values select the operating system defaults.
type ApplicationDependencies struct {
	FileSystem    afero.Fs
	Input         io.Reader
	Output        io.Writer
	ErrorOutput   io.Writer
	CommandRunner execshell.CommandRunner
	ToolLocator   notify.ToolLocator
	ProgramRunner ProgramRunner
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	storeFlagValue         string
	notifierFlagValue      *flagutils.ChoiceValue
	commandContextAccessor utils.CommandContextAccessor
	documentPathResolver   *pathutils.DocumentPathResolver
	fileSystem             afero.Fs
	input                  io.Reader
	output                 io.Writer
	errorOutput            io.Writer
	commandRunner          execshell.CommandRunner
	toolLocator            notify.ToolLocator
	programRunner          ProgramRunner
}

// NewApplication assembles a CLI application bound to the operating system.
func NewApplication() *Application {
	return NewApplicationWithDependencies(ApplicationDependencies{})
}

// NewApplicationWithDependencies assembles a fully wired CLI application instance.
func NewApplicationWithDependencies(dependencies ApplicationDependencies) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.DefaultConfigurationSearchPaths(applicationNameConstant),
	)
	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		documentPathResolver:   pathutils.NewDocumentPathResolver(),
		fileSystem:             dependencies.FileSystem,
		input:                  dependencies.Input,
		output:                 dependencies.Output,
		errorOutput:            dependencies.ErrorOutput,
		commandRunner:          dependencies.CommandRunner,
		toolLocator:            dependencies.ToolLocator,
		programRunner:          dependencies.ProgramRunner,
	}
	application.applyDefaultDependencies()

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetIn(application.input)
	cobraCommand.SetOut(application.output)
	cobraCommand.SetErr(application.errorOutput)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.storeFlagValue, storeFlagNameConstant, "", storeFlagUsageConstant)
	application.notifierFlagValue = flagutils.BindChoiceFlag(
		cobraCommand.PersistentFlags(),
		notifierFlagNameConstant,
		notify.KindAuto,
		[]string{notify.KindAuto, notify.KindDesktop, notify.KindConsole},
		notifierFlagUsageConstant,
	)

	listBuilder := ListCommandBuilder{
		LoggerProvider: application.currentLogger,
		RuntimeBuilder: application.buildRuntime,
		Output:         application.output,
	}
	cobraCommand.AddCommand(listBuilder.Build())

	addBuilder := AddCommandBuilder{
		LoggerProvider: application.currentLogger,
		RuntimeBuilder: application.buildRuntime,
		Output:         application.output,
	}
	cobraCommand.AddCommand(addBuilder.Build())

	runBuilder := RunCommandBuilder{
		LoggerProvider: application.currentLogger,
		RuntimeBuilder: application.buildRuntime,
		Input:          application.input,
		Output:         application.output,
	}
	cobraCommand.AddCommand(runBuilder.BuildRun(), runBuilder.BuildExec())

	interactiveBuilder := InteractiveCommandBuilder{
		LoggerProvider: application.currentLogger,
		RuntimeBuilder: application.buildRuntime,
		ProgramRunner:  application.programRunner,
	}
	cobraCommand.AddCommand(interactiveBuilder.Build())

	initBuilder := InitCommandBuilder{
		LoggerProvider: application.currentLogger,
		FileSystem:     application.fileSystem,
		Output:         application.output,
	}
	cobraCommand.AddCommand(initBuilder.Build())

	application.rootCommand = cobraCommand

	return application
}

// SetArguments replaces the arguments parsed by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.rootCommand.SetArgs(arguments)
}

// Configuration returns the configuration resolved by the last execution.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) applyDefaultDependencies() {
	if application.fileSystem == nil {
		application.fileSystem = afero.NewOsFs()
	}
	if application.input == nil {
		application.input = os.Stdin
	}
	if application.output == nil {
		application.output = os.Stdout
	}
	if application.errorOutput == nil {
		application.errorOutput = os.Stderr
	}
	if application.commandRunner == nil {
		application.commandRunner = execshell.NewOSCommandRunner()
	}
	if application.programRunner == nil {
		application.programRunner = newTerminalProgramRunner(application.input, application.output)
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:    string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:   string(utils.LogFormatStructured),
		commonLogFileConfigKeyConstant:     "",
		storeDocumentPathConfigKeyConstant: commandstore.DefaultDocumentPath,
	}
	for configurationKey, configurationValue := range execshell.DefaultConfigurationValues(shellConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range notify.DefaultConfigurationValues(notificationsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, storeFlagNameConstant) {
		application.configuration.Store.DocumentPath = application.storeFlagValue
	}

	if application.persistentFlagChanged(command, notifierFlagNameConstant) {
		application.configuration.Notifications.Kind = application.notifierFlagValue.String()
	}

	application.configuration.Shell = application.configuration.Shell.Sanitize()
	application.configuration.Notifications = application.configuration.Notifications.Sanitize()

	documentPath := application.documentPathResolver.Resolve(application.configuration.Store.DocumentPath)
	if len(documentPath) == 0 {
		documentPath = commandstore.DefaultDocumentPath
	}
	application.configuration.Store.DocumentPath = documentPath

	logger, loggerCreationError := application.loggerFactory.CreateLoggerWithOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		application.loggerOutputPaths(command),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationDocumentFieldConstant, documentPath),
		zap.String(configurationNotifierFieldConstant, application.configuration.Notifications.Kind),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithDocumentPath(updatedContext, documentPath)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

// loggerOutputPaths keeps diagnostics off the terminal while the interactive display owns it.
func (application *Application) loggerOutputPaths(command *cobra.Command) []string {
	logFile := strings.TrimSpace(application.configuration.Common.LogFile)
	if len(logFile) > 0 {
		return []string{application.documentPathResolver.Resolve(logFile)}
	}
	if command != nil && command.Name() == interactiveCommandUseConstant {
		return []string{filepath.Join(os.TempDir(), interactiveLogFileNameConstant)}
	}
	return nil
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
