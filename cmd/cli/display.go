package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/eventbus"
)

const (
	listFormatTableConstant          = "table"
	listFormatJSONConstant           = "json"
	listFormatYAMLConstant           = "yaml"
	tableHeaderConstant              = "#\tTITLE\tCOMMAND\n"
	tableRowTemplateConstant         = "%d\t%s\t%s\n"
	emptyListMessageTemplateConstant = "No commands saved in %s\n"
	jsonIndentConstant               = "  "
	yamlIndentConstant               = 2
	tableMinimumWidthConstant        = 0
	tableTabWidthConstant            = 4
	tablePaddingConstant             = 2
	tablePaddingCharacterConstant    = ' '
	displayDecodeFailedMessage       = "ignored undecodable command list"
	unsupportedListFormatTemplate    = "unsupported list format %q"
)

// consoleDisplay renders pushed command lists to a writer.
type consoleDisplay struct {
	output       io.Writer
	format       string
	documentPath string
	logger       *zap.Logger

	renderMutex sync.Mutex
	renderError error
	renderCount int
}

func newConsoleDisplay(output io.Writer, format string, documentPath string, logger *zap.Logger) *consoleDisplay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &consoleDisplay{output: output, format: format, documentPath: documentPath, logger: logger}
}

// Subscribe registers the display for commands pushes.
func (display *consoleDisplay) Subscribe(events *eventbus.Bus) func() {
	return events.Subscribe(eventbus.EventCommands, display.handleCommands)
}

func (display *consoleDisplay) handleCommands(_ context.Context, event eventbus.Event) {
	var commandList commandstore.CommandList
	if decodeError := event.Decode(&commandList); decodeError != nil {
		display.logger.Warn(displayDecodeFailedMessage, zap.Error(decodeError))
		display.record(decodeError)
		return
	}
	display.record(display.render(commandList))
}

func (display *consoleDisplay) record(renderError error) {
	display.renderMutex.Lock()
	defer display.renderMutex.Unlock()
	display.renderCount++
	if display.renderError == nil {
		display.renderError = renderError
	}
}

// Result reports how many lists were rendered and the first failure.
func (display *consoleDisplay) Result() (int, error) {
	display.renderMutex.Lock()
	defer display.renderMutex.Unlock()
	return display.renderCount, display.renderError
}

func (display *consoleDisplay) render(commandList commandstore.CommandList) error {
	switch display.format {
	case listFormatJSONConstant:
		encoder := json.NewEncoder(display.output)
		encoder.SetIndent("", jsonIndentConstant)
		if commandList == nil {
			commandList = commandstore.CommandList{}
		}
		return encoder.Encode(commandList)
	case listFormatYAMLConstant:
		encoder := yaml.NewEncoder(display.output)
		encoder.SetIndent(yamlIndentConstant)
		if encodeError := encoder.Encode(commandList); encodeError != nil {
			return encodeError
		}
		return encoder.Close()
	case listFormatTableConstant:
		return display.renderTable(commandList)
	default:
		return fmt.Errorf(unsupportedListFormatTemplate, display.format)
	}
}

func (display *consoleDisplay) renderTable(commandList commandstore.CommandList) error {
	if len(commandList) == 0 {
		_, writeError := fmt.Fprintf(display.output, emptyListMessageTemplateConstant, display.documentPath)
		return writeError
	}

	tableWriter := tabwriter.NewWriter(display.output, tableMinimumWidthConstant, tableTabWidthConstant, tablePaddingConstant, tablePaddingCharacterConstant, 0)
	if _, writeError := fmt.Fprint(tableWriter, tableHeaderConstant); writeError != nil {
		return writeError
	}
	for entryIndex, entry := range commandList {
		if _, writeError := fmt.Fprintf(tableWriter, tableRowTemplateConstant, entryIndex+1, entry.Title, entry.Command); writeError != nil {
			return writeError
		}
	}
	return tableWriter.Flush()
}
