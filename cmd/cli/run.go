package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/launcher"
)

const (
	runCommandUseConstant           = "run <index|title>"
	runCommandShortConstant         = "Run a saved command"
	runCommandLongConstant          = "run selects a saved command by its 1-based position or exact title and executes it in the configured subshell."
	execCommandUseConstant          = "exec <command line>"
	execCommandShortConstant        = "Run an ad-hoc command line"
	execCommandLongConstant         = "exec executes the given command line in the configured subshell without saving it."
	confirmFlagNameConstant         = "confirm"
	confirmFlagUsageConstant        = "Ask for confirmation before running."
	commandLineSeparatorConstant    = " "
	declinedMessageConstant         = "Cancelled\n"
	commandFailedMessageConstant    = "command failed"
	commandFailedTemplateConstant   = "%w: exit code %d"
	commandSelectedMessageConstant  = "command selected"
	logFieldCommandLineConstant     = "command_line"
	logFieldConfirmationConstant    = "confirm"
	emptyCommandLineMessageConstant = "command line is empty"
)

// ErrCommandFailed reports a command that ran but exited unsuccessfully.
var ErrCommandFailed = errors.New(commandFailedMessageConstant)

var errEmptyCommandLine = errors.New(emptyCommandLineMessageConstant)

// RunCommandBuilder assembles the run and exec subcommands.
type RunCommandBuilder struct {
	LoggerProvider LoggerProvider
	RuntimeBuilder RuntimeBuilder
	Input          io.Reader
	Output         io.Writer
}

// BuildRun constructs the run command.
func (builder RunCommandBuilder) BuildRun() *cobra.Command {
	command := &cobra.Command{
		Use:   runCommandUseConstant,
		Short: runCommandShortConstant,
		Long:  runCommandLongConstant,
		Args:  cobra.ExactArgs(1),
	}
	confirmRequested := command.Flags().Bool(confirmFlagNameConstant, false, confirmFlagUsageConstant)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.execute(command, *confirmRequested, func(executionContext context.Context, runtime *LauncherRuntime) (string, error) {
			commandList, loadError := runtime.Store.Load(executionContext)
			if loadError != nil {
				return "", loadError
			}
			entry, resolveError := launcher.Resolve(commandList, arguments[0])
			if resolveError != nil {
				return "", resolveError
			}
			return entry.Command, nil
		})
	}

	return command
}

// BuildExec constructs the exec command.
func (builder RunCommandBuilder) BuildExec() *cobra.Command {
	command := &cobra.Command{
		Use:   execCommandUseConstant,
		Short: execCommandShortConstant,
		Long:  execCommandLongConstant,
		Args:  cobra.MinimumNArgs(1),
	}
	confirmRequested := command.Flags().Bool(confirmFlagNameConstant, false, confirmFlagUsageConstant)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.execute(command, *confirmRequested, func(context.Context, *LauncherRuntime) (string, error) {
			commandLine := strings.TrimSpace(strings.Join(arguments, commandLineSeparatorConstant))
			if len(commandLine) == 0 {
				return "", errEmptyCommandLine
			}
			return commandLine, nil
		})
	}

	return command
}

type commandLineSelector func(executionContext context.Context, runtime *LauncherRuntime) (string, error)

// terminalDecision records the outcome of a command approved at the terminal prompt.
type terminalDecision struct {
	mutex    sync.Mutex
	approved bool
	result   execshell.ExecutionResult
}

func (builder RunCommandBuilder) execute(command *cobra.Command, confirmRequested bool, selectCommandLine commandLineSelector) error {
	executionContext := command.Context()
	output := resolveOutput(builder.Output, command)
	logger := resolveLogger(builder.LoggerProvider)
	decision := &terminalDecision{}

	options := RuntimeOptions{}
	if confirmRequested {
		options.ViewOpenerFactory = builder.terminalViewOpenerFactory(command, output, decision)
	}

	runtime, runtimeError := builder.RuntimeBuilder(executionContext, options)
	if runtimeError != nil {
		return runtimeError
	}
	defer runtime.Close()

	commandLine, selectionError := selectCommandLine(executionContext, runtime)
	if selectionError != nil {
		return selectionError
	}

	logger.Debug(commandSelectedMessageConstant, zap.String(logFieldCommandLineConstant, commandLine), zap.Bool(logFieldConfirmationConstant, confirmRequested))

	if !confirmRequested {
		result, executionError := runtime.Service.Execute(executionContext, commandLine)
		if executionError != nil {
			return executionError
		}
		return resultError(result)
	}

	handshake, confirmError := runtime.Service.Confirm(executionContext, commandLine)
	if confirmError != nil {
		return confirmError
	}
	defer func() {
		_ = handshake.Close()
	}()

	if waitError := handshake.Wait(executionContext); waitError != nil {
		return waitError
	}

	decision.mutex.Lock()
	defer decision.mutex.Unlock()
	if !decision.approved {
		_, writeError := io.WriteString(output, declinedMessageConstant)
		return writeError
	}
	return resultError(decision.result)
}

func (builder RunCommandBuilder) terminalViewOpenerFactory(command *cobra.Command, output io.Writer, decision *terminalDecision) func(*eventbus.Bus, func() *launcher.Service) confirmation.ViewOpener {
	input := builder.Input
	if input == nil {
		input = command.InOrStdin()
	}

	return func(events *eventbus.Bus, service func() *launcher.Service) confirmation.ViewOpener {
		return confirmation.NewTerminalViewOpener(input, output, events, func(executionContext context.Context, commandLine string, approved bool) error {
			decision.mutex.Lock()
			decision.approved = approved
			decision.mutex.Unlock()
			if !approved {
				return nil
			}

			result, executionError := service().Execute(executionContext, commandLine)
			if executionError != nil {
				return executionError
			}

			decision.mutex.Lock()
			decision.result = result
			decision.mutex.Unlock()
			return nil
		})
	}
}

func resultError(result execshell.ExecutionResult) error {
	if result.Succeeded {
		return nil
	}
	return fmt.Errorf(commandFailedTemplateConstant, ErrCommandFailed, result.ExitCode)
}
