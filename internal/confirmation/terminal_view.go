package confirmation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/temirov/cmdlauncher/internal/eventbus"
)

const (
	terminalPromptTemplateConstant        = "Run \"%s\"? [y/N] "
	unexpectedPayloadTemplateConstant     = "unexpected confirmation payload %T"
	affirmativeShortResponseConstant      = "y"
	affirmativeLongResponseConstant       = "yes"
	terminalDecisionLineDelimiterConstant = '\n'
)

// DecisionHandler receives the operator's answer for a confirmed command.
type DecisionHandler func(executionContext context.Context, command string, approved bool) error

// TerminalViewOpener creates confirmation views backed by a line-oriented terminal.
type TerminalViewOpener struct {
	promptMutex sync.Mutex
	reader      *bufio.Reader
	writer      io.Writer
	events      EventPublisher
	onDecision  DecisionHandler
}

// NewTerminalViewOpener constructs an opener reading answers from input and writing prompts to output.
func NewTerminalViewOpener(input io.Reader, output io.Writer, events EventPublisher, onDecision DecisionHandler) *TerminalViewOpener {
	return &TerminalViewOpener{reader: bufio.NewReader(input), writer: output, events: events, onDecision: onDecision}
}

// OpenView creates a terminal view and announces that it finished loading.
func (opener *TerminalViewOpener) OpenView(executionContext context.Context, request ViewRequest) (View, error) {
	if opener.events == nil {
		return nil, ErrEventPublisherNotConfigured
	}

	view := &TerminalView{identifier: request.Identifier, opener: opener}
	if publishError := opener.events.Publish(executionContext, eventbus.EventConfirmationWindowLoaded, request.Identifier); publishError != nil {
		return nil, publishError
	}

	return view, nil
}

// confirm writes the prompt and interprets affirmative responses (y/yes).
func (opener *TerminalViewOpener) confirm(prompt string) (bool, error) {
	opener.promptMutex.Lock()
	defer opener.promptMutex.Unlock()

	if opener.writer != nil {
		if _, writeError := io.WriteString(opener.writer, prompt); writeError != nil {
			return false, writeError
		}
	}

	response, readError := opener.reader.ReadString(terminalDecisionLineDelimiterConstant)
	if readError != nil && readError != io.EOF {
		return false, readError
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return true, nil
	default:
		return false, nil
	}
}

// TerminalView asks for confirmation of the command pushed to it.
type TerminalView struct {
	identifier string
	opener     *TerminalViewOpener
	closed     atomic.Bool
	approved   atomic.Bool
}

// Identifier returns the view identity announced in the ready signal.
func (view *TerminalView) Identifier() string {
	return view.identifier
}

// Approved reports whether the operator accepted the pushed command.
func (view *TerminalView) Approved() bool {
	return view.approved.Load()
}

// Push prompts for the command carried by an update-command notification.
// Other keys and pushes after Close are ignored.
func (view *TerminalView) Push(executionContext context.Context, key eventbus.EventKey, payload any) error {
	if key != eventbus.EventUpdateCommand || view.closed.Load() {
		return nil
	}

	command, isText := payload.(string)
	if !isText {
		return fmt.Errorf(unexpectedPayloadTemplateConstant, payload)
	}

	approved, promptError := view.opener.confirm(fmt.Sprintf(terminalPromptTemplateConstant, command))
	if promptError != nil {
		return promptError
	}
	view.approved.Store(approved)

	if view.opener.onDecision == nil {
		return nil
	}
	return view.opener.onDecision(executionContext, command, approved)
}

// Close marks the view as dismissed.
func (view *TerminalView) Close() error {
	view.closed.Store(true)
	return nil
}
