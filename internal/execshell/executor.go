package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	logFieldCommandLineConstant = "command_line"
	logFieldShellConstant       = "shell"
	logFieldExitCodeConstant    = "exit_code"
	logFieldSucceededConstant   = "succeeded"
)

// ExecutorOption customizes a ShellExecutor.
type ExecutorOption func(*ShellExecutor)

// WithCommandEventObserver routes lifecycle events to observer.
func WithCommandEventObserver(observer CommandEventObserver) ExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// ShellExecutor runs command lines through the configured subshell.
type ShellExecutor struct {
	logger        *zap.Logger
	runner        CommandRunner
	configuration ShellConfiguration
	decoder       OutputDecoder
	formatter     CommandMessageFormatter
	observer      CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor for the provided shell configuration.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, configuration ShellConfiguration, options ...ExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	sanitizedConfiguration := configuration.Sanitize()
	if len(sanitizedConfiguration.Executable) == 0 {
		return nil, ErrShellExecutableRequired
	}

	decoder, decoderError := NewOutputDecoder(sanitizedConfiguration.OutputEncoding)
	if decoderError != nil {
		return nil, decoderError
	}

	executor := &ShellExecutor{
		logger:        logger,
		runner:        runner,
		configuration: sanitizedConfiguration,
		decoder:       decoder,
		formatter:     CommandMessageFormatter{},
		observer:      noopCommandEventObserver{},
	}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}

	return executor, nil
}

// Run executes commandLine in a single subshell and blocks until it exits.
// There is no timeout and the subshell is never cancelled. A subshell that
// exits non-zero yields a failed ExecutionResult; only a launch failure is an error.
func (executor *ShellExecutor) Run(executionContext context.Context, commandLine string) (ExecutionResult, error) {
	command := executor.buildShellCommand(commandLine)

	executor.observer.CommandStarted(command)
	executor.logger.Debug(
		executor.formatter.BuildStartedMessage(command),
		zap.String(logFieldCommandLineConstant, commandLine),
		zap.String(logFieldShellConstant, string(command.Name)),
	)

	processOutput, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		launchError := ProcessLaunchError{Executable: command.Name, CommandLine: commandLine, Cause: runError}
		executor.observer.CommandExecutionFailed(command, launchError)
		executor.logger.Error(
			executor.formatter.BuildExecutionFailureMessage(command, runError),
			zap.String(logFieldCommandLineConstant, commandLine),
			zap.Error(runError),
		)
		return ExecutionResult{}, launchError
	}

	succeeded := processOutput.ExitCode == 0
	selectedOutput := processOutput.StandardOutput
	if !succeeded {
		selectedOutput = processOutput.StandardError
	}

	result := ExecutionResult{
		Succeeded: succeeded,
		Message:   executor.formatter.BuildResultMessage(succeeded, executor.decoder.Decode(selectedOutput)),
		ExitCode:  processOutput.ExitCode,
	}

	executor.observer.CommandCompleted(command, result)
	if succeeded {
		executor.logger.Info(
			executor.formatter.BuildSuccessMessage(command),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
			zap.Bool(logFieldSucceededConstant, true),
		)
	} else {
		executor.logger.Warn(
			executor.formatter.BuildFailureMessage(command, result),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
			zap.Bool(logFieldSucceededConstant, false),
		)
	}

	return result, nil
}

// Configuration reports the sanitized shell configuration in use.
func (executor *ShellExecutor) Configuration() ShellConfiguration {
	return executor.configuration
}

func (executor *ShellExecutor) buildShellCommand(commandLine string) ShellCommand {
	shellArguments := make([]string, 0, len(executor.configuration.Arguments)+1)
	shellArguments = append(shellArguments, executor.configuration.Arguments...)
	shellArguments = append(shellArguments, commandLine)

	return ShellCommand{
		Name: CommandName(executor.configuration.Executable),
		Details: CommandDetails{
			Arguments:        shellArguments,
			WorkingDirectory: executor.configuration.WorkingDirectory,
		},
	}
}
