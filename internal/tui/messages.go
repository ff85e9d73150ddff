package tui

import (
	"github.com/temirov/cmdlauncher/internal/commandstore"
	"github.com/temirov/cmdlauncher/internal/confirmation"
	"github.com/temirov/cmdlauncher/internal/launcher"
)

type commandsMsg struct {
	commands commandstore.CommandList
}

type confirmationRequestedMsg struct {
	viewIdentifier string
}

type commandDeliveredMsg struct {
	viewIdentifier string
	command        string
}

type confirmationClosedMsg struct {
	viewIdentifier string
}

type handshakeOpenedMsg struct {
	handshake *confirmation.Handshake
}

type entryViewRequestedMsg struct{}

type entrySubmittedMsg struct {
	title string
	err   error
}

type executionFinishedMsg struct {
	outcome launcher.Outcome
}

type executionReportedMsg struct {
	report launcher.ExecutionReport
}

type notificationMsg struct {
	title   string
	message string
}

type operationFailedMsg struct {
	err error
}
