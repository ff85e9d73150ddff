package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/launcher"
	"github.com/temirov/cmdlauncher/internal/tui"
)

const (
	interactiveCommandUseConstant   = "ui"
	interactiveCommandShortConstant = "Open the interactive launcher"
	interactiveCommandLongConstant  = "ui shows the saved commands in a terminal display. Enter asks for confirmation, y runs the command, F2 adds a new entry and q quits."
)

// ProgramRunner runs model until it quits. attach receives the running program
// before any event is delivered to it.
type ProgramRunner func(executionContext context.Context, model tea.Model, attach func(tui.Sender)) error

func newTerminalProgramRunner(input io.Reader, output io.Writer) ProgramRunner {
	return func(executionContext context.Context, model tea.Model, attach func(tui.Sender)) error {
		program := tea.NewProgram(
			model,
			tea.WithContext(executionContext),
			tea.WithInput(input),
			tea.WithOutput(output),
			tea.WithAltScreen(),
		)
		attach(program)
		_, runError := program.Run()
		return runError
	}
}

// InteractiveCommandBuilder assembles the ui subcommand.
type InteractiveCommandBuilder struct {
	LoggerProvider LoggerProvider
	RuntimeBuilder RuntimeBuilder
	ProgramRunner  ProgramRunner
}

// Build constructs the cobra command.
func (builder InteractiveCommandBuilder) Build() *cobra.Command {
	return &cobra.Command{
		Use:   interactiveCommandUseConstant,
		Short: interactiveCommandShortConstant,
		Long:  interactiveCommandLongConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			executionContext := command.Context()
			bridge := tui.NewBridge(resolveLogger(builder.LoggerProvider))

			runtime, runtimeError := builder.RuntimeBuilder(executionContext, RuntimeOptions{
				ViewOpenerFactory: func(*eventbus.Bus, func() *launcher.Service) confirmation.ViewOpener {
					return bridge
				},
				EntryViewOpener:  bridge,
				NotifierOverride: bridge,
			})
			if runtimeError != nil {
				return runtimeError
			}
			defer runtime.Close()

			unsubscribeDisplay := bridge.Subscribe(runtime.Events)
			defer unsubscribeDisplay()

			unbindHotkeys, bindError := runtime.Service.BindHotkeys(executionContext, runtime.Entries)
			if bindError != nil {
				return bindError
			}
			defer unbindHotkeys()

			model := tui.NewModel(tui.ModelDependencies{
				Context:  executionContext,
				Launcher: runtime.Service,
				Entries:  runtime.Entries,
				Events:   runtime.Events,
			})

			return builder.ProgramRunner(executionContext, model, bridge.Attach)
		},
	}
}
