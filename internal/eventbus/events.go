package eventbus

import (
	"encoding/json"
	"time"
)

// EventKey names an event exchanged with the display layer.
type EventKey string

// Event keys understood by the launcher.
const (
	EventCommands                 EventKey = "commands"
	EventUpdateCommand            EventKey = "update-command"
	EventConfirmationWindowLoaded EventKey = "confirmation-window-loaded"
	EventOpenAddCommand           EventKey = "open_add_command"
	EventCommandExecuted          EventKey = "command-executed"
)

// Event is a keyed notification with a JSON encoded payload.
type Event struct {
	Key       EventKey
	Payload   json.RawMessage
	Timestamp time.Time
}

// Decode unmarshals the payload into target.
func (event Event) Decode(target any) error {
	if len(event.Payload) == 0 {
		return ErrEmptyPayload
	}
	return json.Unmarshal(event.Payload, target)
}
