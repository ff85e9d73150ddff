package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	flagutils "github.com/temirov/cmdlauncher/internal/utils/flags"
)

const (
	listCommandUseConstant         = "list"
	listCommandShortConstant       = "Show saved commands"
	listCommandLongConstant        = "list loads the command document, creating an empty one on first run, and prints every saved entry in display order."
	listFormatFlagNameConstant     = "format"
	listFormatFlagUsageConstant    = "Output format."
	listNotRenderedMessageConstant = "command list was not rendered"
)

// LoggerProvider yields the logger configured for the current execution.
type LoggerProvider func() *zap.Logger

// ListCommandBuilder assembles the list subcommand.
type ListCommandBuilder struct {
	LoggerProvider LoggerProvider
	RuntimeBuilder RuntimeBuilder
	Output         io.Writer
}

// Build constructs the cobra command.
func (builder ListCommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortConstant,
		Long:  listCommandLongConstant,
		Args:  cobra.NoArgs,
	}

	formatValue := flagutils.BindChoiceFlag(
		command.Flags(),
		listFormatFlagNameConstant,
		listFormatTableConstant,
		[]string{listFormatTableConstant, listFormatJSONConstant, listFormatYAMLConstant},
		listFormatFlagUsageConstant,
	)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		runtime, runtimeError := builder.RuntimeBuilder(command.Context(), RuntimeOptions{})
		if runtimeError != nil {
			return runtimeError
		}
		defer runtime.Close()

		display := newConsoleDisplay(resolveOutput(builder.Output, command), formatValue.String(), runtime.Store.DocumentPath(), resolveLogger(builder.LoggerProvider))
		unsubscribe := display.Subscribe(runtime.Events)
		defer unsubscribe()

		if _, publishError := runtime.Service.PublishCommands(command.Context()); publishError != nil {
			return publishError
		}
		runtime.Events.Wait()

		renderCount, renderError := display.Result()
		if renderError != nil {
			return renderError
		}
		if renderCount == 0 {
			return errors.New(listNotRenderedMessageConstant)
		}
		return nil
	}

	return command
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveOutput(output io.Writer, command *cobra.Command) io.Writer {
	if output != nil {
		return output
	}
	return command.OutOrStdout()
}
