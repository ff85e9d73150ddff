package confirmation

// State is the position of a handshake in its lifecycle.
type State int32

// Handshake states. Delivered and Closed are terminal.
const (
	StateOpened State = iota
	StateAwaitingReady
	StateDelivered
	StateClosed
)

var stateNames = map[State]string{
	StateOpened:        "opened",
	StateAwaitingReady: "awaiting_ready",
	StateDelivered:     "delivered",
	StateClosed:        "closed",
}

// String returns the state name used in logs.
func (state State) String() string {
	if name, known := stateNames[state]; known {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (state State) Terminal() bool {
	return state == StateDelivered || state == StateClosed
}
