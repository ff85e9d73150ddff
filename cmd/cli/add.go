package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	addCommandUseConstant             = "add <title> <command>"
	addCommandShortConstant           = "Save a titled command"
	addCommandLongConstant            = "add appends a titled command line to the end of the command document."
	addCommandArgumentCountConstant   = 2
	addCommandSavedTemplateConstant   = "Saved %q\n"
	addCommandLogMessageConstant      = "command entry added from CLI"
	addCommandLogFieldTitleConstant   = "title"
	addCommandLogFieldCommandConstant = "command"
)

// AddCommandBuilder assembles the add subcommand.
type AddCommandBuilder struct {
	LoggerProvider LoggerProvider
	RuntimeBuilder RuntimeBuilder
	Output         io.Writer
}

// Build constructs the cobra command.
func (builder AddCommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   addCommandUseConstant,
		Short: addCommandShortConstant,
		Long:  addCommandLongConstant,
		Args:  cobra.ExactArgs(addCommandArgumentCountConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			runtime, runtimeError := builder.RuntimeBuilder(command.Context(), RuntimeOptions{})
			if runtimeError != nil {
				return runtimeError
			}
			defer runtime.Close()

			// The document is created on first load; appends never create it.
			if _, loadError := runtime.Store.Load(command.Context()); loadError != nil {
				return loadError
			}

			title, commandLine := arguments[0], arguments[1]
			if submitError := runtime.Entries.Submit(command.Context(), title, commandLine); submitError != nil {
				return submitError
			}

			resolveLogger(builder.LoggerProvider).Debug(
				addCommandLogMessageConstant,
				zap.String(addCommandLogFieldTitleConstant, title),
				zap.String(addCommandLogFieldCommandConstant, commandLine),
			)

			_, writeError := fmt.Fprintf(resolveOutput(builder.Output, command), addCommandSavedTemplateConstant, strings.TrimSpace(title))
			return writeError
		},
	}
}
