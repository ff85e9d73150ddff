package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/eventbus"
	"github.com/temirov/cmdlauncher/internal/launcher"
)

const (
	undecodablePayloadMessageConstant = "ignored undecodable display event"
	unexpectedPayloadTemplateConstant = "unexpected confirmation payload %T"
	logFieldEventKeyConstant          = "event"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(message tea.Msg)
}

// EventSubscriber registers listeners on the listener table.
type EventSubscriber interface {
	Subscribe(key eventbus.EventKey, handler eventbus.Handler) func()
}

// Bridge turns pushed events and view requests into program messages. It is
// the confirmation view opener, the entry view opener and a status-line notifier.
type Bridge struct {
	senderMutex sync.RWMutex
	sender      Sender
	logger      *zap.Logger
}

// NewBridge constructs a detached Bridge.
func NewBridge(logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{logger: logger}
}

// Attach routes subsequent messages to sender. Messages sent while detached are dropped.
func (bridge *Bridge) Attach(sender Sender) {
	bridge.senderMutex.Lock()
	defer bridge.senderMutex.Unlock()
	bridge.sender = sender
}

// Subscribe forwards commands and command-executed events to the program.
// The returned function removes both listeners.
func (bridge *Bridge) Subscribe(events EventSubscriber) func() {
	unsubscribeCommands := events.Subscribe(eventbus.EventCommands, func(_ context.Context, event eventbus.Event) {
		var commandList commandstore.CommandList
		if decodeError := event.Decode(&commandList); decodeError != nil {
			bridge.logger.Debug(undecodablePayloadMessageConstant, zap.String(logFieldEventKeyConstant, string(event.Key)), zap.Error(decodeError))
			return
		}
		bridge.send(commandsMsg{commands: commandList})
	})
	unsubscribeExecuted := events.Subscribe(eventbus.EventCommandExecuted, func(_ context.Context, event eventbus.Event) {
		var report launcher.ExecutionReport
		if decodeError := event.Decode(&report); decodeError != nil {
			bridge.logger.Debug(undecodablePayloadMessageConstant, zap.String(logFieldEventKeyConstant, string(event.Key)), zap.Error(decodeError))
			return
		}
		bridge.send(executionReportedMsg{report: report})
	})

	return func() {
		unsubscribeCommands()
		unsubscribeExecuted()
	}
}

// OpenView switches the program into confirmation mode for a new view identity.
func (bridge *Bridge) OpenView(_ context.Context, request confirmation.ViewRequest) (confirmation.View, error) {
	bridge.send(confirmationRequestedMsg{viewIdentifier: request.Identifier})
	return &confirmationView{identifier: request.Identifier, bridge: bridge}, nil
}

// OpenEntryView switches the program into the add form.
func (bridge *Bridge) OpenEntryView(context.Context) error {
	bridge.send(entryViewRequestedMsg{})
	return nil
}

// Show displays the notification on the status line.
func (bridge *Bridge) Show(_ context.Context, title string, message string) error {
	bridge.send(notificationMsg{title: title, message: message})
	return nil
}

func (bridge *Bridge) send(message tea.Msg) {
	bridge.senderMutex.RLock()
	sender := bridge.sender
	bridge.senderMutex.RUnlock()
	if sender != nil {
		sender.Send(message)
	}
}

type confirmationView struct {
	identifier string
	bridge     *Bridge
}

func (view *confirmationView) Identifier() string {
	return view.identifier
}

func (view *confirmationView) Push(_ context.Context, key eventbus.EventKey, payload any) error {
	if key != eventbus.EventUpdateCommand {
		return nil
	}
	command, isText := payload.(string)
	if !isText {
		return fmt.Errorf(unexpectedPayloadTemplateConstant, payload)
	}
	view.bridge.send(commandDeliveredMsg{viewIdentifier: view.identifier, command: command})
	return nil
}

func (view *confirmationView) Close() error {
	view.bridge.send(confirmationClosedMsg{viewIdentifier: view.identifier})
	return nil
}
