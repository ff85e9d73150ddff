package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/launcher"
)

const (
	defaultHeaderConstant         = "Command Launcher"
	confirmPromptTemplateConstant = "Run \"%s\"?"
	confirmWaitingMessageConstant = "Preparing confirmation..."
	runningStatusTemplateConstant = "Running %s"
	savedStatusTemplateConstant   = "Saved %s"
	emptyListMessageConstant      = "No commands yet. Press F2 to add one."
	titlePlaceholderConstant      = "Title"
	commandPlaceholderConstant    = "Command"
	entryCharacterLimitConstant   = 512
	entryInputWidthConstant       = 60
	reservedVerticalLinesConstant = 6
	minimumListHeightConstant     = 5
	browseHelpConstant            = "enter run • f2 add • q quit"
	confirmHelpConstant           = "y run • n/esc cancel"
	addHelpConstant               = "tab next field • enter save • esc cancel"
	addFormHeaderConstant         = "Add command"
	statusLineSeparatorConstant   = "\n"
	notificationTemplateConstant  = "[%s] %s"
)

type viewMode int

const (
	modeBrowse viewMode = iota
	modeConfirm
	modeAdd
)

type statusKind int

const (
	statusNeutral statusKind = iota
	statusSuccess
	statusFailure
)

// Launcher is the orchestration surface the display drives.
type Launcher interface {
	PublishCommands(executionContext context.Context) (commandstore.CommandList, error)
	Confirm(executionContext context.Context, commandLine string) (*confirmation.Handshake, error)
	ExecuteAsync(executionContext context.Context, commandLine string) <-chan launcher.Outcome
}

// EntrySubmitter persists entries typed in the add form.
type EntrySubmitter interface {
	Submit(executionContext context.Context, title string, command string) error
}

// EventPublisher emits display events onto the listener table.
type EventPublisher interface {
	Publish(executionContext context.Context, key eventbus.EventKey, payload any) error
}

// ModelDependencies enumerates collaborators used by the Model.
type ModelDependencies struct {
	Context  context.Context
	Launcher Launcher
	Entries  EntrySubmitter
	Events   EventPublisher
	Header   string
}

type commandItem struct {
	entry commandstore.CommandEntry
}

func (item commandItem) Title() string       { return item.entry.Title }
func (item commandItem) Description() string { return item.entry.Command }
func (item commandItem) FilterValue() string { return item.entry.Title }

// Model is the bubbletea model of the launcher display.
type Model struct {
	executionContext context.Context
	launcher         Launcher
	entries          EntrySubmitter
	events           EventPublisher
	header           string

	list         list.Model
	titleInput   textinput.Model
	commandInput textinput.Model

	mode              viewMode
	pendingIdentifier string
	pendingCommand    string
	handshake         *confirmation.Handshake
	statusMessage     string
	statusKind        statusKind
	width             int
	height            int
}

// NewModel constructs the display model.
func NewModel(dependencies ModelDependencies) Model {
	executionContext := dependencies.Context
	if executionContext == nil {
		executionContext = context.Background()
	}

	header := strings.TrimSpace(dependencies.Header)
	if len(header) == 0 {
		header = defaultHeaderConstant
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("12")).Bold(true)
	delegate.SetSpacing(0)

	commandList := list.New(nil, delegate, 0, 0)
	commandList.SetShowStatusBar(false)
	commandList.SetFilteringEnabled(false)
	commandList.SetShowHelp(false)
	commandList.SetShowTitle(false)
	commandList.KeyMap.Quit.SetKeys()
	commandList.KeyMap.ForceQuit.SetKeys()

	return Model{
		executionContext: executionContext,
		launcher:         dependencies.Launcher,
		entries:          dependencies.Entries,
		events:           dependencies.Events,
		header:           header,
		list:             commandList,
		titleInput:       newEntryInput(titlePlaceholderConstant),
		commandInput:     newEntryInput(commandPlaceholderConstant),
		mode:             modeBrowse,
	}
}

func newEntryInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = entryCharacterLimitConstant
	input.Width = entryInputWidthConstant
	return input
}

// Init requests the initial command list.
func (model Model) Init() tea.Cmd {
	return model.refreshCommands()
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tea.WindowSizeMsg:
		model.width = typedMessage.Width
		model.height = typedMessage.Height
		model.list.SetSize(typedMessage.Width, max(typedMessage.Height-reservedVerticalLinesConstant, minimumListHeightConstant))
		return model, nil

	case commandsMsg:
		items := make([]list.Item, 0, len(typedMessage.commands))
		for _, entry := range typedMessage.commands {
			items = append(items, commandItem{entry: entry})
		}
		return model, model.list.SetItems(items)

	case confirmationRequestedMsg:
		model.mode = modeConfirm
		model.pendingIdentifier = typedMessage.viewIdentifier
		model.pendingCommand = ""
		return model, model.signalConfirmationReady(typedMessage.viewIdentifier)

	case commandDeliveredMsg:
		if model.mode == modeConfirm && typedMessage.viewIdentifier == model.pendingIdentifier {
			model.pendingCommand = typedMessage.command
		}
		return model, nil

	case confirmationClosedMsg:
		if model.mode == modeConfirm && typedMessage.viewIdentifier == model.pendingIdentifier {
			model = model.leaveConfirmation()
		}
		return model, nil

	case handshakeOpenedMsg:
		if typedMessage.handshake == nil {
			return model, nil
		}
		if model.mode == modeConfirm && typedMessage.handshake.ViewIdentifier() == model.pendingIdentifier {
			model.handshake = typedMessage.handshake
			return model, nil
		}
		return model, closeHandshake(typedMessage.handshake)

	case entryViewRequestedMsg:
		return model.enterAddForm()

	case entrySubmittedMsg:
		if typedMessage.err != nil {
			model = model.withStatus(typedMessage.err.Error(), statusFailure)
			return model, nil
		}
		model.mode = modeBrowse
		model.titleInput.Blur()
		model.commandInput.Blur()
		model = model.withStatus(fmt.Sprintf(savedStatusTemplateConstant, typedMessage.title), statusSuccess)
		return model, nil

	case executionFinishedMsg:
		if typedMessage.outcome.Err != nil {
			model = model.withStatus(execshell.FailureMessagePrefix+typedMessage.outcome.Err.Error(), statusFailure)
			return model, nil
		}
		return model.withResultStatus(typedMessage.outcome.Result.Succeeded, typedMessage.outcome.Result.Message), nil

	case executionReportedMsg:
		return model.withResultStatus(typedMessage.report.Succeeded, typedMessage.report.Message), nil

	case notificationMsg:
		return model.withStatus(fmt.Sprintf(notificationTemplateConstant, typedMessage.title, typedMessage.message), statusNeutral), nil

	case operationFailedMsg:
		return model.withStatus(typedMessage.err.Error(), statusFailure), nil

	case tea.KeyMsg:
		switch model.mode {
		case modeConfirm:
			return model.updateConfirmation(typedMessage)
		case modeAdd:
			return model.updateAddForm(typedMessage)
		default:
			return model.updateBrowse(typedMessage)
		}
	}

	return model, nil
}

func (model Model) updateBrowse(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMessage, keys.Quit):
		return model, tea.Quit
	case key.Matches(keyMessage, keys.AddCommand):
		return model, model.publish(eventbus.EventOpenAddCommand, nil)
	case key.Matches(keyMessage, keys.Run):
		selectedItem, isCommand := model.list.SelectedItem().(commandItem)
		if !isCommand {
			return model, nil
		}
		return model, model.openConfirmation(selectedItem.entry.Command)
	}

	var listCommand tea.Cmd
	model.list, listCommand = model.list.Update(keyMessage)
	return model, listCommand
}

func (model Model) updateConfirmation(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMessage, keys.Approve):
		if len(model.pendingCommand) == 0 {
			return model, nil
		}
		commandLine := model.pendingCommand
		handshake := model.handshake
		model = model.leaveConfirmation()
		model = model.withStatus(fmt.Sprintf(runningStatusTemplateConstant, commandLine), statusNeutral)
		return model, tea.Batch(closeHandshake(handshake), model.execute(commandLine))
	case key.Matches(keyMessage, keys.Decline):
		handshake := model.handshake
		model = model.leaveConfirmation()
		return model, closeHandshake(handshake)
	}
	return model, nil
}

func (model Model) updateAddForm(keyMessage tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(keyMessage, keys.Cancel):
		model.mode = modeBrowse
		model.titleInput.Blur()
		model.commandInput.Blur()
		return model, nil
	case key.Matches(keyMessage, keys.NextField):
		return model.toggleFocusedField(), nil
	case key.Matches(keyMessage, keys.Submit):
		if model.titleInput.Focused() {
			return model.toggleFocusedField(), nil
		}
		return model, model.submitEntry(model.titleInput.Value(), model.commandInput.Value())
	}

	var inputCommand tea.Cmd
	if model.titleInput.Focused() {
		model.titleInput, inputCommand = model.titleInput.Update(keyMessage)
	} else {
		model.commandInput, inputCommand = model.commandInput.Update(keyMessage)
	}
	return model, inputCommand
}

func (model Model) enterAddForm() (tea.Model, tea.Cmd) {
	model.mode = modeAdd
	model.titleInput.Reset()
	model.commandInput.Reset()
	model.commandInput.Blur()
	return model, model.titleInput.Focus()
}

func (model Model) toggleFocusedField() Model {
	if model.titleInput.Focused() {
		model.titleInput.Blur()
		model.commandInput.Focus()
		return model
	}
	model.commandInput.Blur()
	model.titleInput.Focus()
	return model
}

func (model Model) leaveConfirmation() Model {
	model.mode = modeBrowse
	model.pendingIdentifier = ""
	model.pendingCommand = ""
	model.handshake = nil
	return model
}

func (model Model) withStatus(message string, kind statusKind) Model {
	model.statusMessage = message
	model.statusKind = kind
	return model
}

func (model Model) withResultStatus(succeeded bool, message string) Model {
	if succeeded {
		return model.withStatus(message, statusSuccess)
	}
	return model.withStatus(message, statusFailure)
}

func (model Model) refreshCommands() tea.Cmd {
	if model.launcher == nil {
		return nil
	}
	executionContext := model.executionContext
	commandLauncher := model.launcher
	return func() tea.Msg {
		commandList, publishError := commandLauncher.PublishCommands(executionContext)
		if publishError != nil {
			return operationFailedMsg{err: publishError}
		}
		return commandsMsg{commands: commandList}
	}
}

func (model Model) openConfirmation(commandLine string) tea.Cmd {
	if model.launcher == nil {
		return nil
	}
	executionContext := model.executionContext
	commandLauncher := model.launcher
	return func() tea.Msg {
		handshake, confirmError := commandLauncher.Confirm(executionContext, commandLine)
		if confirmError != nil {
			return operationFailedMsg{err: confirmError}
		}
		return handshakeOpenedMsg{handshake: handshake}
	}
}

func (model Model) signalConfirmationReady(viewIdentifier string) tea.Cmd {
	return model.publish(eventbus.EventConfirmationWindowLoaded, viewIdentifier)
}

func (model Model) publish(eventKey eventbus.EventKey, payload any) tea.Cmd {
	if model.events == nil {
		return nil
	}
	executionContext := model.executionContext
	events := model.events
	return func() tea.Msg {
		if publishError := events.Publish(executionContext, eventKey, payload); publishError != nil {
			return operationFailedMsg{err: publishError}
		}
		return nil
	}
}

func (model Model) execute(commandLine string) tea.Cmd {
	if model.launcher == nil {
		return nil
	}
	outcomes := model.launcher.ExecuteAsync(model.executionContext, commandLine)
	return func() tea.Msg {
		return executionFinishedMsg{outcome: <-outcomes}
	}
}

func (model Model) submitEntry(title string, command string) tea.Cmd {
	if model.entries == nil {
		return nil
	}
	executionContext := model.executionContext
	entries := model.entries
	return func() tea.Msg {
		return entrySubmittedMsg{title: strings.TrimSpace(title), err: entries.Submit(executionContext, title, command)}
	}
}

// closeHandshake closes outside Update since closing notifies the program.
func closeHandshake(handshake *confirmation.Handshake) tea.Cmd {
	if handshake == nil {
		return nil
	}
	return func() tea.Msg {
		_ = handshake.Close()
		return nil
	}
}

// View implements tea.Model.
func (model Model) View() string {
	var builder strings.Builder
	builder.WriteString(headerStyle.Render(model.header))
	builder.WriteString(statusLineSeparatorConstant)

	switch model.mode {
	case modeConfirm:
		builder.WriteString(model.confirmationView())
	case modeAdd:
		builder.WriteString(model.addFormView())
	default:
		if len(model.list.Items()) == 0 {
			builder.WriteString(statusNeutralStyle.Render(emptyListMessageConstant))
		} else {
			builder.WriteString(model.list.View())
		}
	}

	builder.WriteString(statusLineSeparatorConstant)
	if len(model.statusMessage) > 0 {
		builder.WriteString(model.statusStyle().Render(model.statusMessage))
		builder.WriteString(statusLineSeparatorConstant)
	}
	builder.WriteString(helpStyle.Render(model.helpText()))
	return builder.String()
}

func (model Model) confirmationView() string {
	if len(model.pendingCommand) == 0 {
		return dialogStyle.Render(confirmWaitingMessageConstant)
	}
	return dialogStyle.Render(fmt.Sprintf(confirmPromptTemplateConstant, model.pendingCommand))
}

func (model Model) addFormView() string {
	return dialogStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		addFormHeaderConstant,
		model.titleInput.View(),
		model.commandInput.View(),
	))
}

func (model Model) statusStyle() lipgloss.Style {
	switch model.statusKind {
	case statusSuccess:
		return statusSuccessStyle
	case statusFailure:
		return statusFailureStyle
	default:
		return statusNeutralStyle
	}
}

func (model Model) helpText() string {
	switch model.mode {
	case modeConfirm:
		return confirmHelpConstant
	case modeAdd:
		return addHelpConstant
	default:
		return browseHelpConstant
	}
}
